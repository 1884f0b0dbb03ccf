package skeleton

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/langprofile"
	"github.com/oxhq/codescope/signature"
)

type stubProfile struct{ kind langprofile.BodyKind }

func (p stubProfile) BodyPlaceholder() langprofile.BodyKind { return p.kind }

func TestRender_ClassWithOverloadsAndField(t *testing.T) {
	file := "A.java"
	class := codeunit.New(&file, codeunit.Class, "p", "A", signature.None)
	field := codeunit.New(&file, codeunit.Field, "p", "A.count", signature.None)
	m1 := codeunit.New(&file, codeunit.Function, "p", "A.method2", signature.MustParse("(String)"))
	m2 := codeunit.New(&file, codeunit.Function, "p", "A.method2", signature.MustParse("(String,int)"))

	children := func(parent codeunit.CodeUnit) []codeunit.CodeUnit {
		if parent.Key() == class.Key() {
			return []codeunit.CodeUnit{field, m1, m2}
		}
		return nil
	}

	out := Render(stubProfile{langprofile.BraceBody}, class, children)

	assert.Contains(t, out, "class A {")
	assert.Contains(t, out, "count;")
	assert.Contains(t, out, "method2(String);")
	assert.Contains(t, out, "method2(String,int) {...}")
	assert.Contains(t, out, "}")
}

func TestRenderHeader_OmitsMethodsKeepsFields(t *testing.T) {
	file := "A.java"
	class := codeunit.New(&file, codeunit.Class, "p", "A", signature.None)
	field := codeunit.New(&file, codeunit.Field, "p", "A.count", signature.None)
	method := codeunit.New(&file, codeunit.Function, "p", "A.method", signature.MustParse("()"))

	children := func(parent codeunit.CodeUnit) []codeunit.CodeUnit {
		return []codeunit.CodeUnit{field, method}
	}

	out := RenderHeader(stubProfile{langprofile.BraceBody}, class, children)
	assert.Contains(t, out, "count;")
	assert.NotContains(t, out, "method")
	assert.Contains(t, out, "[...]")
}

func TestRender_PythonColonBody(t *testing.T) {
	file := "m.py"
	class := codeunit.New(&file, codeunit.Class, "m", "m$Local", signature.None)
	method := codeunit.New(&file, codeunit.Function, "m", "m$Local.methodi", signature.MustParse("(self)"))

	children := func(parent codeunit.CodeUnit) []codeunit.CodeUnit {
		return []codeunit.CodeUnit{method}
	}

	out := Render(stubProfile{langprofile.ColonBody}, class, children)
	assert.Contains(t, out, "class m$Local:")
	assert.Contains(t, out, "def methodi(self): ...")
}
