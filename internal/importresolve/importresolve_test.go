package importresolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/signature"
)

type fakeLookup struct {
	byFQN map[string][]codeunit.CodeUnit
	byID  map[string][]codeunit.CodeUnit
}

func (f fakeLookup) Definitions(fqn string) []codeunit.CodeUnit   { return f.byFQN[fqn] }
func (f fakeLookup) ByIdentifier(id string) []codeunit.CodeUnit { return f.byID[id] }

func TestResolve_HappyPath(t *testing.T) {
	file := "b.py"
	unit := codeunit.New(&file, codeunit.Class, "pkg.mod", "Helper", signature.None)
	lookup := fakeLookup{byFQN: map[string][]codeunit.CodeUnit{"pkg.mod.Helper": {unit}}}

	resolve := func(stmt, pkg string) (string, bool) {
		if stmt == "from pkg.mod import Helper" {
			return "pkg.mod.Helper", true
		}
		return "", false
	}

	out := Resolve(file, "python", "pkg", []string{"from pkg.mod import Helper"}, resolve, lookup)
	assert.Len(t, out, 1)
	assert.Equal(t, unit.Key(), out[0].Key())
}

func TestResolve_MalformedImportYieldsEmptyNotError(t *testing.T) {
	lookup := fakeLookup{}
	resolve := func(stmt, pkg string) (string, bool) { return "", false }

	out := Resolve("bad.py", "python", "pkg", []string{"???"}, resolve, lookup)
	assert.Empty(t, out)
}

func TestResolve_IsolatesPerFile(t *testing.T) {
	file := "good.py"
	unit := codeunit.New(&file, codeunit.Class, "pkg", "X", signature.None)
	lookup := fakeLookup{byFQN: map[string][]codeunit.CodeUnit{"pkg.X": {unit}}}
	resolve := func(stmt, pkg string) (string, bool) {
		if stmt == "good" {
			return "pkg.X", true
		}
		return "", false
	}

	badOut := Resolve("bad.py", "python", "pkg", []string{"???"}, resolve, lookup)
	goodOut := Resolve("good.py", "python", "pkg", []string{"good"}, resolve, lookup)

	assert.Empty(t, badOut)
	assert.Len(t, goodOut, 1)
}
