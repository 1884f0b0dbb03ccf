package typeinfer

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/langprofile"
	"github.com/oxhq/codescope/internal/rawdecl"
	"github.com/oxhq/codescope/internal/symbolindex"
	"github.com/oxhq/codescope/sourcetext"
)

type fakeProfile struct{}

func (fakeProfile) Language() string                                { return "fake" }
func (fakeProfile) Aliases() []string                                { return nil }
func (fakeProfile) Extensions() []string                             { return []string{".fk"} }
func (fakeProfile) Grammar() *sitter.Language                        { return nil }
func (fakeProfile) DeclarationQuery() string                         { return "" }
func (fakeProfile) ImportQuery() string                              { return "" }
func (fakeProfile) ReexportQuery() string                            { return "" }
func (fakeProfile) ClassSeparator() string                           { return "." }
func (fakeProfile) MemberSeparator() string                          { return "." }
func (fakeProfile) DuplicatePolicy() langprofile.DuplicatePolicy      { return langprofile.PreserveAll }
func (fakeProfile) BodyPlaceholder() langprofile.BodyKind             { return langprofile.BraceBody }
func (fakeProfile) NormalizeFQN(raw string) string                    { return raw }
func (fakeProfile) ResolveImport(stmt, pkg string) (string, bool)     { return "", false }
func (fakeProfile) ExtractCallReceiver(expr string) string            { return "" }
func (fakeProfile) PostProcess(decls []rawdecl.Record) []rawdecl.Record { return decls }

// buildIndex assembles a tiny index for a file shaped like:
//
//	class Box {
//	  Item getItem() { ... }
//	}
//	class Item {
//	  String name;
//	}
//	function use() {
//	  Box b = new Box();
//	  b.getItem().name
//	  b
//	}
func buildIndex() (*symbolindex.Index, *sourcetext.SourceContent, int, int) {
	classBoxSrc := "class Box {\n  Item getItem() { return null; }\n}\n"
	classItemSrc := "class Item {\n  String name;\n}\n"
	useHeader := "function use() {\n  Box b = new Box();\n  "
	chainLine := "b.getItem().name\n"
	bareBLine := "b\n"

	text := classBoxSrc + classItemSrc + useHeader + chainLine + bareBLine + "}\n"
	src := sourcetext.New("x.fake", []byte(text))

	useStart := len(classBoxSrc + classItemSrc)
	chainOffset := useStart + len(useHeader)
	bareBOffset := chainOffset + len(chainLine)

	records := []rawdecl.Record{
		{File: "x.fake", Kind: codeunit.Class, SimpleName: "Box", Key: "box",
			DeclarationByteRange: rawdecl.ByteRange{Start: 0, End: len(classBoxSrc)}},
		{File: "x.fake", Kind: codeunit.Function, SimpleName: "getItem", Signature: "()", ReturnType: "Item", Key: "getItem", ParentKey: "box",
			DeclarationByteRange: rawdecl.ByteRange{Start: len("class Box {\n"), End: len(classBoxSrc) - 2}},
		{File: "x.fake", Kind: codeunit.Class, SimpleName: "Item", Key: "item",
			DeclarationByteRange: rawdecl.ByteRange{Start: len(classBoxSrc), End: len(classBoxSrc) + len(classItemSrc)}},
		{File: "x.fake", Kind: codeunit.Field, SimpleName: "name", Key: "name", ParentKey: "item",
			DeclarationByteRange: rawdecl.ByteRange{Start: len(classBoxSrc) + len("class Item {\n"), End: len(classBoxSrc) + len(classItemSrc) - 2}},
		{File: "x.fake", Kind: codeunit.Function, SimpleName: "use", Signature: "()", Key: "use",
			DeclarationByteRange: rawdecl.ByteRange{Start: useStart, End: len(text)}},
	}

	b := symbolindex.NewBuilder()
	b.AddFile(fakeProfile{}, "x.fake", records, &symbolindex.FileProperties{Language: "fake"})
	return b.Build(), src, chainOffset, bareBOffset
}

func TestInferTypeAt_ChainThroughMethodReturnToField(t *testing.T) {
	idx, src, chainOffset, _ := buildIndex()

	unit, ok := InferTypeAt(idx, src, "x.fake", chainOffset+len("getItem().name")-1)
	require.True(t, ok)
	assert.Equal(t, "name", unit.Identifier())
	assert.True(t, unit.IsField())
}

func TestInferTypeAt_LocalVariableResolvesDeclaredType(t *testing.T) {
	idx, src, _, bareBOffset := buildIndex()

	unit, ok := InferTypeAt(idx, src, "x.fake", bareBOffset)
	require.True(t, ok)
	assert.Equal(t, "Box", unit.ShortName())
}

func TestInferTypeAt_OffsetPastEndOfFileFails(t *testing.T) {
	idx, src, _, _ := buildIndex()
	_, ok := InferTypeAt(idx, src, "x.fake", src.ByteLength()+100)
	assert.False(t, ok)
}

func TestScanLocalsInRange_RecognizesTypedDeclaration(t *testing.T) {
	locals := ScanLocalsInRange("Box b = new Box();\n")
	assert.Equal(t, "Box", locals["b"])
}
