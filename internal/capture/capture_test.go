package capture

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/rawdecl"
	"github.com/oxhq/codescope/sourcetext"
)

const declQuery = `
(package_clause (package_identifier) @package.name)

(function_declaration
  name: (identifier) @function.name
  parameters: (parameter_list) @function.params
  body: (block) @function.body) @declaration

((comment) @comment.leading
 .
 (function_declaration
   name: (identifier) @function.name
   parameters: (parameter_list) @function.params
   body: (block) @function.body) @declaration)

(type_declaration
  (type_spec
    name: (type_identifier) @class.name
    type: (struct_type) @class.body)) @declaration

(struct_type
  (field_declaration_list
    (field_declaration
      name: (field_identifier) @field.name) @declaration))
`

func parseGo(t *testing.T, src string) (*sitter.Node, *sourcetext.SourceContent) {
	t.Helper()
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	require.NoError(t, err)
	return tree.RootNode(), sourcetext.New("demo.go", []byte(src))
}

func byName(records []rawdecl.Record, name string) (rawdecl.Record, bool) {
	for _, r := range records {
		if r.SimpleName == name {
			return r, true
		}
	}
	return rawdecl.Record{}, false
}

func TestRun_ClassifiesDeclarations(t *testing.T) {
	src := `package demo

type Tree struct {
	root int
}

// Size reports the node count.
func Size() int {
	return 0
}
`
	root, source := parseGo(t, src)
	records, err := Run("demo.go", "go", golang.GetLanguage(), declQuery, root, source)
	require.NoError(t, err)

	tree, ok := byName(records, "Tree")
	require.True(t, ok)
	assert.Equal(t, codeunit.Class, tree.Kind)
	assert.Equal(t, "demo", tree.PackageName)
	assert.Empty(t, tree.ParentKey)

	field, ok := byName(records, "root")
	require.True(t, ok)
	assert.Equal(t, codeunit.Field, field.Kind)
	assert.Equal(t, tree.Key, field.ParentKey)

	size, ok := byName(records, "Size")
	require.True(t, ok)
	assert.Equal(t, codeunit.Function, size.Kind)
	assert.Equal(t, "()", size.Signature)
}

func TestRun_LeadingCommentMergesIntoOneRecord(t *testing.T) {
	src := `package demo

// Size reports the node count.
func Size() int {
	return 0
}
`
	root, source := parseGo(t, src)
	records, err := Run("demo.go", "go", golang.GetLanguage(), declQuery, root, source)
	require.NoError(t, err)

	size, ok := byName(records, "Size")
	require.True(t, ok)
	require.True(t, size.HasDocumentationByteRange)

	comment := source.SubstringFromBytes(size.DocumentationByteRange.Start, size.DocumentationByteRange.End)
	assert.Equal(t, "// Size reports the node count.", comment)

	// The bare pattern and the comment-anchored pattern both matched
	// Size; mergeByKey must fold them into a single record whose
	// declaration range excludes the comment.
	count := 0
	for _, r := range records {
		if r.SimpleName == "Size" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	decl := source.SubstringFromBytes(size.DeclarationByteRange.Start, size.DeclarationByteRange.End)
	assert.Contains(t, decl, "func Size()")
	assert.NotContains(t, decl, "//")
}

func TestRun_InvalidQueryIsAnError(t *testing.T) {
	root, source := parseGo(t, "package demo\n")
	_, err := Run("demo.go", "go", golang.GetLanguage(), "(nonexistent_node) @class.name", root, source)
	assert.Error(t, err)
}

func TestImports_CollectsImportStatements(t *testing.T) {
	src := `package demo

import (
	"fmt"
	"strings"
)
`
	root, source := parseGo(t, src)
	imports, err := Imports("demo.go", "go", golang.GetLanguage(),
		`(import_spec path: (interpreted_string_literal) @import.statement)`, root, source)
	require.NoError(t, err)
	assert.Equal(t, []string{`"fmt"`, `"strings"`}, imports)
}

func TestRun_EmptyQueryYieldsNothing(t *testing.T) {
	root, source := parseGo(t, "package demo\n")
	records, err := Run("demo.go", "go", golang.GetLanguage(), "", root, source)
	require.NoError(t, err)
	assert.Empty(t, records)
}
