// Package rust provides the Rust language profile: "::" separators,
// and impl blocks captured as a second declaration of their type so
// methods attach to the struct/enum they implement. Last-wins
// reconciliation folds the struct and its impl blocks into one unit.
package rust

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsrust "github.com/smacker/go-tree-sitter/rust"

	"github.com/oxhq/codescope/internal/callreceiver"
	"github.com/oxhq/codescope/internal/langprofile"
	"github.com/oxhq/codescope/providers/base"
)

// Profile implements langprofile.Profile for Rust.
type Profile struct {
	base.Defaults
}

// New returns the Rust profile.
func New() *Profile { return &Profile{} }

func (p *Profile) Language() string { return "rust" }

func (p *Profile) Aliases() []string { return []string{"rs"} }

func (p *Profile) Extensions() []string { return []string{".rs"} }

func (p *Profile) Grammar() *sitter.Language { return tsrust.GetLanguage() }

func (p *Profile) ClassSeparator() string { return "::" }

func (p *Profile) MemberSeparator() string { return "::" }

func (p *Profile) DuplicatePolicy() langprofile.DuplicatePolicy { return langprofile.LastWins }

func (p *Profile) DeclarationQuery() string {
	return `
(mod_item
  name: (identifier) @module.name
  body: (declaration_list) @class.body) @declaration

(struct_item
  name: (type_identifier) @class.name) @declaration

((line_comment) @comment.leading
 .
 (struct_item
   name: (type_identifier) @class.name) @declaration)

(enum_item
  name: (type_identifier) @class.name
  body: (enum_variant_list) @class.body) @declaration

(trait_item
  name: (type_identifier) @class.name
  body: (declaration_list) @class.body) @declaration

(impl_item
  type: (type_identifier) @class.name
  body: (declaration_list) @class.body) @declaration

(function_item
  name: (identifier) @function.name
  parameters: (parameters) @function.params
  return_type: (_)? @function.returntype
  body: (block) @function.body) @declaration

((line_comment) @comment.leading
 .
 (function_item
   name: (identifier) @function.name
   parameters: (parameters) @function.params
   body: (block) @function.body) @declaration)

(function_signature_item
  name: (identifier) @function.name
  parameters: (parameters) @function.params
  return_type: (_)? @function.returntype) @declaration

(const_item
  name: (identifier) @field.name
  value: (_)? @field.value) @declaration

(static_item
  name: (identifier) @field.name
  value: (_)? @field.value) @declaration

(field_declaration_list
  (field_declaration
    name: (field_identifier) @field.name) @declaration)
`
}

func (p *Profile) ImportQuery() string {
	return `(use_declaration) @import.statement`
}

func (p *Profile) ResolveImport(importStmt, currentPackage string) (string, bool) {
	s := base.TrimImportClause(importStmt, "pub use", "use")
	s = strings.TrimSuffix(s, "::*")
	s = strings.Trim(s, "{}")
	if idx := strings.IndexByte(s, ','); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}
	if name, _, ok := strings.Cut(s, " as "); ok {
		s = strings.TrimSpace(name)
	}
	if s == "" {
		return "", false
	}
	return s, true
}

func (p *Profile) ExtractCallReceiver(expression string) string {
	return callreceiver.Extract(callreceiver.Rust, expression)
}
