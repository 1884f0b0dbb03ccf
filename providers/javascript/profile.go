// Package javascript provides the JavaScript language profile — the
// TypeScript shape minus interfaces, namespaces, and type annotations.
package javascript

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/oxhq/codescope/internal/callreceiver"
	"github.com/oxhq/codescope/internal/langprofile"
	"github.com/oxhq/codescope/providers/base"
)

// Profile implements langprofile.Profile for JavaScript.
type Profile struct {
	base.Defaults
}

// New returns the JavaScript profile.
func New() *Profile { return &Profile{} }

func (p *Profile) Language() string { return "javascript" }

func (p *Profile) Aliases() []string { return []string{"js"} }

func (p *Profile) Extensions() []string { return []string{".js", ".jsx", ".mjs", ".cjs"} }

func (p *Profile) Grammar() *sitter.Language { return javascript.GetLanguage() }

func (p *Profile) ClassSeparator() string { return "." }

func (p *Profile) MemberSeparator() string { return "." }

func (p *Profile) DuplicatePolicy() langprofile.DuplicatePolicy { return langprofile.LastWins }

func (p *Profile) DeclarationQuery() string {
	return `
(class_declaration
  name: (identifier) @class.name
  (class_heritage (identifier) @class.base)?
  body: (class_body) @class.body) @declaration

((comment) @comment.leading
 .
 (class_declaration
   name: (identifier) @class.name
   body: (class_body) @class.body) @declaration)

(function_declaration
  name: (identifier) @function.name
  parameters: (formal_parameters) @function.params
  body: (statement_block) @function.body) @declaration

((comment) @comment.leading
 .
 (function_declaration
   name: (identifier) @function.name
   parameters: (formal_parameters) @function.params
   body: (statement_block) @function.body) @declaration)

(method_definition
  name: (property_identifier) @function.name
  parameters: (formal_parameters) @function.params
  body: (statement_block) @function.body) @declaration

(field_definition
  property: (property_identifier) @field.name
  value: (_)? @field.value) @declaration

(program
  (lexical_declaration
    (variable_declarator
      name: (identifier) @field.name
      value: (_)? @field.value) @declaration))

(program
  (variable_declaration
    (variable_declarator
      name: (identifier) @field.name
      value: (_)? @field.value) @declaration))
`
}

func (p *Profile) ImportQuery() string {
	return `(import_statement) @import.statement`
}

// ResolveImport recovers the first imported binding, as the TypeScript
// profile does; the two share ES module import syntax.
func (p *Profile) ResolveImport(importStmt, currentPackage string) (string, bool) {
	s := strings.TrimSpace(importStmt)
	rest, ok := strings.CutPrefix(s, "import ")
	if !ok {
		return "", false
	}
	clause, _, _ := strings.Cut(rest, " from ")
	clause = strings.Trim(strings.TrimSpace(clause), "{}")
	if idx := strings.IndexByte(clause, ','); idx >= 0 {
		clause = clause[:idx]
	}
	clause = strings.Trim(strings.TrimSpace(clause), "{}")
	if name, _, found := strings.Cut(clause, " as "); found {
		clause = name
	}
	clause = strings.TrimSpace(clause)
	if clause == "" || strings.HasPrefix(clause, `"`) || strings.HasPrefix(clause, "'") {
		return "", false
	}
	return clause, true
}

func (p *Profile) ExtractCallReceiver(expression string) string {
	return callreceiver.Extract(callreceiver.JavaScript, expression)
}
