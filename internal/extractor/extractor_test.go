package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/rawdecl"
	"github.com/oxhq/codescope/signature"
	"github.com/oxhq/codescope/sourcetext"
)

func TestSource_PlainDeclaration(t *testing.T) {
	text := "class A {\n  int x;\n}\n"
	sc := sourcetext.New("A.java", []byte(text))
	unit := codeunit.New(strPtr("A.java"), codeunit.Class, "", "A", signature.None)

	declStart := 0
	declEnd := len(text) - 1 // exclude trailing newline

	lookup := func(u codeunit.CodeUnit) (Meta, bool) {
		return Meta{DeclRange: rawdecl.ByteRange{Start: declStart, End: declEnd}}, true
	}

	got, ok := Source(sc, unit, lookup, false)
	require.True(t, ok)
	assert.Equal(t, text[:len(text)-1], got)
}

func TestSource_IncludesContiguousLeadingComment(t *testing.T) {
	text := "// doc\nclass A {}\n"
	sc := sourcetext.New("A.java", []byte(text))
	unit := codeunit.New(strPtr("A.java"), codeunit.Class, "", "A", signature.None)

	docRange := rawdecl.ByteRange{Start: 0, End: 6}
	declRange := rawdecl.ByteRange{Start: 7, End: 17}

	lookup := func(u codeunit.CodeUnit) (Meta, bool) {
		return Meta{DeclRange: declRange, DocRange: docRange, HasDoc: true}, true
	}

	withDoc, ok := Source(sc, unit, lookup, true)
	require.True(t, ok)
	assert.Equal(t, "// doc\nclass A {}", withDoc)

	withoutDoc, ok := Source(sc, unit, lookup, false)
	require.True(t, ok)
	assert.Equal(t, "class A {}", withoutDoc)
}

func TestMethodSource_ConcatenatesOverloads(t *testing.T) {
	text := "m1();m2();"
	sc := sourcetext.New("A.java", []byte(text))

	o1 := codeunit.New(strPtr("A.java"), codeunit.Function, "", "m", signature.MustParse("(int)"))
	o2 := codeunit.New(strPtr("A.java"), codeunit.Function, "", "m", signature.MustParse("(int,int)"))

	lookup := func(u codeunit.CodeUnit) (Meta, bool) {
		if v, _ := u.Signature().Value(); v == "(int)" {
			return Meta{DeclRange: rawdecl.ByteRange{Start: 0, End: 5}}, true
		}
		return Meta{DeclRange: rawdecl.ByteRange{Start: 5, End: 10}}, true
	}

	got, ok := MethodSource(sc, []codeunit.CodeUnit{o1, o2}, lookup, false, ";")
	require.True(t, ok)
	assert.Equal(t, "m1();;m2();", got)
}

func strPtr(s string) *string { return &s }
