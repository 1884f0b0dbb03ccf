// Package php provides the PHP language profile: "::" separators
// (the resolvable static form — instance access "->" never appears in
// declared names) and "$"-prefixed property names kept verbatim.
package php

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsphp "github.com/smacker/go-tree-sitter/php"

	"github.com/oxhq/codescope/internal/callreceiver"
	"github.com/oxhq/codescope/providers/base"
)

// Profile implements langprofile.Profile for PHP.
type Profile struct {
	base.Defaults
}

// New returns the PHP profile.
func New() *Profile { return &Profile{} }

func (p *Profile) Language() string { return "php" }

func (p *Profile) Extensions() []string { return []string{".php"} }

func (p *Profile) Grammar() *sitter.Language { return tsphp.GetLanguage() }

func (p *Profile) ClassSeparator() string { return "::" }

func (p *Profile) MemberSeparator() string { return "::" }

func (p *Profile) DeclarationQuery() string {
	return `
(namespace_definition
  name: (namespace_name) @package.name)

(class_declaration
  name: (name) @class.name
  (base_clause (name) @class.base)?
  body: (declaration_list) @class.body) @declaration

((comment) @comment.leading
 .
 (class_declaration
   name: (name) @class.name
   body: (declaration_list) @class.body) @declaration)

(interface_declaration
  name: (name) @class.name
  body: (declaration_list) @class.body) @declaration

(trait_declaration
  name: (name) @class.name
  body: (declaration_list) @class.body) @declaration

(function_definition
  name: (name) @function.name
  parameters: (formal_parameters) @function.params
  body: (compound_statement) @function.body) @declaration

((comment) @comment.leading
 .
 (function_definition
   name: (name) @function.name
   parameters: (formal_parameters) @function.params
   body: (compound_statement) @function.body) @declaration)

(method_declaration
  name: (name) @function.name
  parameters: (formal_parameters) @function.params
  body: (compound_statement)? @function.body) @declaration

(property_declaration
  (property_element (variable_name) @field.name)) @declaration

(const_declaration
  (const_element (name) @field.name)) @declaration
`
}

func (p *Profile) ImportQuery() string {
	return `(namespace_use_declaration) @import.statement`
}

func (p *Profile) ResolveImport(importStmt, currentPackage string) (string, bool) {
	s := base.TrimImportClause(importStmt, "use function", "use const", "use")
	if name, _, ok := strings.Cut(s, " as "); ok {
		s = strings.TrimSpace(name)
	}
	s = strings.Trim(s, "\\")
	if s == "" {
		return "", false
	}
	// Backslash-qualified names index by their trailing segment.
	if idx := strings.LastIndexByte(s, '\\'); idx >= 0 {
		s = s[idx+1:]
	}
	return s, s != ""
}

func (p *Profile) ExtractCallReceiver(expression string) string {
	return callreceiver.Extract(callreceiver.PHP, expression)
}
