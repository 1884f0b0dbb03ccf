// Package c provides the C language profile. C has no classes; struct,
// union, and enum specifiers map to the CLASS kind, and the duplicate
// policy is first-wins, matching header/implementation redeclaration.
package c

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsc "github.com/smacker/go-tree-sitter/c"

	"github.com/oxhq/codescope/internal/callreceiver"
	"github.com/oxhq/codescope/internal/langprofile"
	"github.com/oxhq/codescope/providers/base"
)

// Profile implements langprofile.Profile for C.
type Profile struct {
	base.Defaults
}

// New returns the C profile.
func New() *Profile { return &Profile{} }

func (p *Profile) Language() string { return "c" }

func (p *Profile) Extensions() []string { return []string{".c", ".h"} }

func (p *Profile) Grammar() *sitter.Language { return tsc.GetLanguage() }

func (p *Profile) ClassSeparator() string { return "." }

func (p *Profile) MemberSeparator() string { return "." }

func (p *Profile) DuplicatePolicy() langprofile.DuplicatePolicy { return langprofile.FirstWins }

func (p *Profile) DeclarationQuery() string {
	return `
(function_definition
  type: (_) @function.returntype
  declarator: (function_declarator
    declarator: (identifier) @function.name
    parameters: (parameter_list) @function.params)
  body: (compound_statement) @function.body) @declaration

((comment) @comment.leading
 .
 (function_definition
   declarator: (function_declarator
     declarator: (identifier) @function.name
     parameters: (parameter_list) @function.params)
   body: (compound_statement) @function.body) @declaration)

(struct_specifier
  name: (type_identifier) @class.name
  body: (field_declaration_list) @class.body) @declaration

(union_specifier
  name: (type_identifier) @class.name
  body: (field_declaration_list) @class.body) @declaration

(enum_specifier
  name: (type_identifier) @class.name
  body: (enumerator_list) @class.body) @declaration

(field_declaration_list
  (field_declaration
    declarator: (field_identifier) @field.name) @declaration)

(translation_unit
  (declaration
    declarator: (init_declarator
      declarator: (identifier) @field.name
      value: (_) @field.value)) @declaration)
`
}

func (p *Profile) ImportQuery() string {
	return `(preproc_include path: (_) @import.statement)`
}

// ResolveImport maps an #include path to the included header's stem,
// the closest thing C has to an importable symbol container.
func (p *Profile) ResolveImport(importStmt, currentPackage string) (string, bool) {
	s := strings.TrimSpace(importStmt)
	s = strings.Trim(s, `"<>`)
	if s == "" {
		return "", false
	}
	if idx := strings.LastIndexByte(s, '/'); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(s, ".h")
	return s, s != ""
}

func (p *Profile) ExtractCallReceiver(expression string) string {
	return callreceiver.Extract(callreceiver.Cpp, expression)
}
