// Package cpp provides the C++ language profile: "::" separators,
// first-wins duplicate reconciliation, and function shortNames that
// embed the type-only parameter signature ("add_numbers(int,int)").
package cpp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tscpp "github.com/smacker/go-tree-sitter/cpp"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/callreceiver"
	"github.com/oxhq/codescope/internal/langprofile"
	"github.com/oxhq/codescope/internal/rawdecl"
	"github.com/oxhq/codescope/providers/base"
)

// Profile implements langprofile.Profile for C++.
type Profile struct {
	base.Defaults
}

// New returns the C++ profile.
func New() *Profile { return &Profile{} }

func (p *Profile) Language() string { return "cpp" }

func (p *Profile) Aliases() []string { return []string{"c++", "cxx"} }

func (p *Profile) Extensions() []string {
	return []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".hxx"}
}

func (p *Profile) Grammar() *sitter.Language { return tscpp.GetLanguage() }

func (p *Profile) ClassSeparator() string { return "::" }

func (p *Profile) MemberSeparator() string { return "::" }

func (p *Profile) DuplicatePolicy() langprofile.DuplicatePolicy { return langprofile.FirstWins }

func (p *Profile) DeclarationQuery() string {
	return `
(namespace_definition
  name: (namespace_identifier) @package.name)

(class_specifier
  name: (type_identifier) @class.name
  (base_class_clause (type_identifier) @class.base)?
  body: (field_declaration_list) @class.body) @declaration

((comment) @comment.leading
 .
 (class_specifier
   name: (type_identifier) @class.name
   body: (field_declaration_list) @class.body) @declaration)

(struct_specifier
  name: (type_identifier) @class.name
  (base_class_clause (type_identifier) @class.base)?
  body: (field_declaration_list) @class.body) @declaration

(enum_specifier
  name: (type_identifier) @class.name
  body: (enumerator_list) @class.body) @declaration

(function_definition
  type: (_) @function.returntype
  declarator: (function_declarator
    declarator: [(identifier) (field_identifier) (qualified_identifier)] @function.name
    parameters: (parameter_list) @function.params)
  body: (compound_statement) @function.body) @declaration

((comment) @comment.leading
 .
 (function_definition
   declarator: (function_declarator
     declarator: [(identifier) (field_identifier) (qualified_identifier)] @function.name
     parameters: (parameter_list) @function.params)
   body: (compound_statement) @function.body) @declaration)

(field_declaration_list
  (field_declaration
    declarator: (field_identifier) @field.name) @declaration)

(field_declaration_list
  (declaration
    declarator: (function_declarator
      declarator: (field_identifier) @function.name
      parameters: (parameter_list) @function.params)) @declaration)
`
}

func (p *Profile) ImportQuery() string {
	return `(preproc_include path: (_) @import.statement)`
}

func (p *Profile) ResolveImport(importStmt, currentPackage string) (string, bool) {
	s := strings.TrimSpace(importStmt)
	s = strings.Trim(s, `"<>`)
	if s == "" {
		return "", false
	}
	if idx := strings.LastIndexByte(s, '/'); idx >= 0 {
		s = s[idx+1:]
	}
	for _, suffix := range []string{".hpp", ".hh", ".h"} {
		s = strings.TrimSuffix(s, suffix)
	}
	return s, s != ""
}

func (p *Profile) ExtractCallReceiver(expression string) string {
	return callreceiver.Extract(callreceiver.Cpp, expression)
}

// PostProcess embeds the type-only parameter list into every function's
// simple name, so overloads differ textually in the FQN as well as in
// the signature component").
func (p *Profile) PostProcess(decls []rawdecl.Record) []rawdecl.Record {
	for i := range decls {
		r := &decls[i]
		if r.Kind != codeunit.Function || r.Signature == "" {
			continue
		}
		if strings.ContainsRune(r.SimpleName, '(') {
			continue
		}
		r.SimpleName += base.StripParamNames(r.Signature)
	}
	return decls
}
