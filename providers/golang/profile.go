// Package golang provides the Go language profile.
package golang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/oxhq/codescope/internal/callreceiver"
	"github.com/oxhq/codescope/providers/base"
)

// Profile implements langprofile.Profile for Go.
type Profile struct {
	base.Defaults
}

// New returns the Go profile.
func New() *Profile { return &Profile{} }

func (p *Profile) Language() string { return "go" }

func (p *Profile) Aliases() []string { return []string{"golang"} }

func (p *Profile) Extensions() []string { return []string{".go"} }

func (p *Profile) Grammar() *sitter.Language { return golang.GetLanguage() }

func (p *Profile) ClassSeparator() string { return "." }

func (p *Profile) MemberSeparator() string { return "." }

func (p *Profile) DeclarationQuery() string {
	return `
(package_clause (package_identifier) @package.name)

(function_declaration
  name: (identifier) @function.name
  parameters: (parameter_list) @function.params
  result: (_)? @function.returntype
  body: (block) @function.body) @declaration

((comment) @comment.leading
 .
 (function_declaration
   name: (identifier) @function.name
   parameters: (parameter_list) @function.params
   body: (block) @function.body) @declaration)

(method_declaration
  name: (field_identifier) @function.name
  parameters: (parameter_list) @function.params
  result: (_)? @function.returntype
  body: (block) @function.body) @declaration

((comment) @comment.leading
 .
 (method_declaration
   name: (field_identifier) @function.name
   parameters: (parameter_list) @function.params
   body: (block) @function.body) @declaration)

(type_declaration
  (type_spec
    name: (type_identifier) @class.name
    type: (struct_type) @class.body)) @declaration

(type_declaration
  (type_spec
    name: (type_identifier) @class.name
    type: (interface_type) @class.body)) @declaration

((comment) @comment.leading
 .
 (type_declaration
   (type_spec
     name: (type_identifier) @class.name)) @declaration)

(const_declaration
  (const_spec
    name: (identifier) @field.name
    value: (expression_list) @field.value)) @declaration

(var_declaration
  (var_spec
    name: (identifier) @field.name)) @declaration

(struct_type
  (field_declaration_list
    (field_declaration
      name: (field_identifier) @field.name) @declaration))
`
}

func (p *Profile) ImportQuery() string {
	return `(import_spec path: (interpreted_string_literal) @import.statement)`
}

// ResolveImport maps a quoted Go import path to its trailing package
// segment; the index lookup's simple-identifier fallback does the rest,
// since Go symbol FQNs carry the package identifier, not the full
// module path.
func (p *Profile) ResolveImport(importStmt, currentPackage string) (string, bool) {
	path := base.TrimImportClause(importStmt, "import")
	if path == "" {
		return "", false
	}
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		path = path[idx+1:]
	}
	if path == "" {
		return "", false
	}
	return path, true
}

func (p *Profile) ExtractCallReceiver(expression string) string {
	return callreceiver.Extract(callreceiver.Go, expression)
}
