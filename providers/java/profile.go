// Package java provides the Java language profile.
package java

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/oxhq/codescope/internal/callreceiver"
	"github.com/oxhq/codescope/providers/base"
)

// Profile implements langprofile.Profile for Java. Inner classes use
// "." in FQNs (not "$") unless a caller supplies "$" verbatim; overloads
// are preserved by the signature component of CodeUnit identity.
type Profile struct {
	base.Defaults
}

// New returns the Java profile.
func New() *Profile { return &Profile{} }

func (p *Profile) Language() string { return "java" }

func (p *Profile) Extensions() []string { return []string{".java"} }

func (p *Profile) Grammar() *sitter.Language { return java.GetLanguage() }

func (p *Profile) ClassSeparator() string { return "." }

func (p *Profile) MemberSeparator() string { return "." }

func (p *Profile) DeclarationQuery() string {
	return `
(package_declaration
  [(scoped_identifier) (identifier)] @package.name)

(class_declaration
  (modifiers (marker_annotation) @decorator)?
  name: (identifier) @class.name
  superclass: (superclass (type_identifier) @class.base)?
  interfaces: (super_interfaces (type_list (type_identifier) @class.base))?
  body: (class_body) @class.body) @declaration

((block_comment) @comment.leading
 .
 (class_declaration
   name: (identifier) @class.name
   body: (class_body) @class.body) @declaration)

(interface_declaration
  name: (identifier) @class.name
  body: (interface_body) @class.body) @declaration

(enum_declaration
  name: (identifier) @class.name
  body: (enum_body) @class.body) @declaration

(method_declaration
  (modifiers)? @modifier
  type: (_) @function.returntype
  name: (identifier) @function.name
  parameters: (formal_parameters) @function.params
  body: (block)? @function.body) @declaration

((block_comment) @comment.leading
 .
 (method_declaration
   name: (identifier) @function.name
   parameters: (formal_parameters) @function.params) @declaration)

((line_comment) @comment.leading
 .
 (method_declaration
   name: (identifier) @function.name
   parameters: (formal_parameters) @function.params) @declaration)

(constructor_declaration
  name: (identifier) @function.name
  parameters: (formal_parameters) @function.params
  body: (constructor_body) @function.body) @declaration

(field_declaration
  type: (_) @function.returntype
  declarator: (variable_declarator
    name: (identifier) @field.name)) @declaration
`
}

func (p *Profile) ImportQuery() string {
	return `(import_declaration [(scoped_identifier) (identifier)] @import.statement)`
}

// ResolveImport handles "a.b.C" and on-demand "a.b.*" forms (the query
// captures the scoped name, so the "import" keyword and ";" are already
// gone, but full statements passed from persisted state still resolve).
func (p *Profile) ResolveImport(importStmt, currentPackage string) (string, bool) {
	s := base.TrimImportClause(importStmt, "import static", "import")
	s = strings.TrimSuffix(s, ".*")
	if s == "" {
		return "", false
	}
	return s, true
}

func (p *Profile) ExtractCallReceiver(expression string) string {
	return callreceiver.Extract(callreceiver.Java, expression)
}
