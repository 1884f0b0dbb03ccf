package cpp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/langprofile"
	"github.com/oxhq/codescope/internal/rawdecl"
)

func TestProfile_Identity(t *testing.T) {
	p := New()
	assert.Equal(t, "cpp", p.Language())
	assert.Contains(t, p.Extensions(), ".hpp")
	assert.Equal(t, "::", p.ClassSeparator())
	assert.Equal(t, langprofile.FirstWins, p.DuplicatePolicy())
}

func TestPostProcess_EmbedsParameterTypes(t *testing.T) {
	p := New()
	decls := []rawdecl.Record{
		{Key: "f1", Kind: codeunit.Function, SimpleName: "add_numbers", Signature: "(int a, int b)"},
		{Key: "c1", Kind: codeunit.Class, SimpleName: "Calc"},
	}

	out := p.PostProcess(decls)
	assert.Equal(t, "add_numbers(int,int)", out[0].SimpleName)
	assert.Equal(t, "Calc", out[1].SimpleName)
}

func TestPostProcess_Idempotent(t *testing.T) {
	p := New()
	decls := []rawdecl.Record{
		{Key: "f1", Kind: codeunit.Function, SimpleName: "add(int,int)", Signature: "(int a, int b)"},
	}
	out := p.PostProcess(decls)
	assert.Equal(t, "add(int,int)", out[0].SimpleName)
}

func TestExtractCallReceiver_TemplatesUnsupported(t *testing.T) {
	p := New()
	assert.Equal(t, "", p.ExtractCallReceiver("std::vector<int>::size"))
	assert.Equal(t, "Foo", p.ExtractCallReceiver("Foo::bar"))
}

func TestResolveImport_HeaderStem(t *testing.T) {
	p := New()
	fqn, ok := p.ResolveImport(`"util/strings.hpp"`, "")
	assert.True(t, ok)
	assert.Equal(t, "strings", fqn)
}
