// Package csharp provides the C# language profile: namespace-aware "."
// separators and PascalCase receiver rules.
package csharp

import (
	sitter "github.com/smacker/go-tree-sitter"
	tscs "github.com/smacker/go-tree-sitter/csharp"

	"github.com/oxhq/codescope/internal/callreceiver"
	"github.com/oxhq/codescope/providers/base"
)

// Profile implements langprofile.Profile for C#.
type Profile struct {
	base.Defaults
}

// New returns the C# profile.
func New() *Profile { return &Profile{} }

func (p *Profile) Language() string { return "csharp" }

func (p *Profile) Aliases() []string { return []string{"c#", "cs"} }

func (p *Profile) Extensions() []string { return []string{".cs"} }

func (p *Profile) Grammar() *sitter.Language { return tscs.GetLanguage() }

func (p *Profile) ClassSeparator() string { return "." }

func (p *Profile) MemberSeparator() string { return "." }

func (p *Profile) DeclarationQuery() string {
	return `
(namespace_declaration
  name: [(qualified_name) (identifier)] @package.name)

(file_scoped_namespace_declaration
  name: [(qualified_name) (identifier)] @package.name)

(class_declaration
  name: (identifier) @class.name
  (base_list (identifier) @class.base)?
  body: (declaration_list) @class.body) @declaration

((comment) @comment.leading
 .
 (class_declaration
   name: (identifier) @class.name
   body: (declaration_list) @class.body) @declaration)

(interface_declaration
  name: (identifier) @class.name
  body: (declaration_list) @class.body) @declaration

(struct_declaration
  name: (identifier) @class.name
  body: (declaration_list) @class.body) @declaration

(enum_declaration
  name: (identifier) @class.name
  body: (enum_member_declaration_list) @class.body) @declaration

(record_declaration
  name: (identifier) @class.name) @declaration

(method_declaration
  returns: (_) @function.returntype
  name: (identifier) @function.name
  parameters: (parameter_list) @function.params
  body: (block)? @function.body) @declaration

((comment) @comment.leading
 .
 (method_declaration
   name: (identifier) @function.name
   parameters: (parameter_list) @function.params) @declaration)

(constructor_declaration
  name: (identifier) @function.name
  parameters: (parameter_list) @function.params
  body: (block) @function.body) @declaration

(field_declaration
  (variable_declaration
    (variable_declarator
      name: (identifier) @field.name))) @declaration

(property_declaration
  type: (_) @function.returntype
  name: (identifier) @field.name) @declaration
`
}

func (p *Profile) ImportQuery() string {
	return `(using_directive) @import.statement`
}

func (p *Profile) ResolveImport(importStmt, currentPackage string) (string, bool) {
	s := base.TrimImportClause(importStmt, "using static", "using")
	if s == "" {
		return "", false
	}
	return s, true
}

func (p *Profile) ExtractCallReceiver(expression string) string {
	return callreceiver.Extract(callreceiver.CSharp, expression)
}
