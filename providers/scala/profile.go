// Package scala provides the Scala language profile. Objects receive a
// trailing "$" on their name; traits and classes behave as Java.
package scala

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsscala "github.com/smacker/go-tree-sitter/scala"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/callreceiver"
	"github.com/oxhq/codescope/internal/rawdecl"
	"github.com/oxhq/codescope/providers/base"
)

// Profile implements langprofile.Profile for Scala.
type Profile struct {
	base.Defaults
}

// New returns the Scala profile.
func New() *Profile { return &Profile{} }

func (p *Profile) Language() string { return "scala" }

func (p *Profile) Extensions() []string { return []string{".scala", ".sc"} }

func (p *Profile) Grammar() *sitter.Language { return tsscala.GetLanguage() }

func (p *Profile) ClassSeparator() string { return "." }

func (p *Profile) MemberSeparator() string { return "." }

func (p *Profile) DeclarationQuery() string {
	return `
(package_clause
  name: (package_identifier) @package.name)

(class_definition
  name: (identifier) @class.name
  (extends_clause (type_identifier) @class.base)?
  body: (template_body) @class.body) @declaration

((comment) @comment.leading
 .
 (class_definition
   name: (identifier) @class.name
   body: (template_body) @class.body) @declaration)

(trait_definition
  name: (identifier) @class.name
  body: (template_body) @class.body) @declaration

(object_definition
  "object" @modifier
  name: (identifier) @class.name
  body: (template_body) @class.body) @declaration

(function_definition
  name: (identifier) @function.name
  parameters: (parameters) @function.params
  return_type: (_)? @function.returntype
  body: (_) @function.body) @declaration

((comment) @comment.leading
 .
 (function_definition
   name: (identifier) @function.name
   parameters: (parameters) @function.params) @declaration)

(val_definition
  pattern: (identifier) @field.name
  value: (_) @field.value) @declaration

(var_definition
  pattern: (identifier) @field.name
  value: (_) @field.value) @declaration
`
}

func (p *Profile) ImportQuery() string {
	return `(import_declaration) @import.statement`
}

func (p *Profile) ResolveImport(importStmt, currentPackage string) (string, bool) {
	s := base.TrimImportClause(importStmt, "import")
	s = strings.TrimSuffix(s, "._")
	s = strings.Trim(s, "{}")
	if idx := strings.IndexByte(s, ','); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}
	if s == "" {
		return "", false
	}
	return s, true
}

func (p *Profile) ExtractCallReceiver(expression string) string {
	return callreceiver.Extract(callreceiver.Scala, expression)
}

// PostProcess appends the "$" suffix to object names, mirroring the
// JVM naming of Scala companion/singleton objects.
func (p *Profile) PostProcess(decls []rawdecl.Record) []rawdecl.Record {
	for i := range decls {
		r := &decls[i]
		if r.Kind != codeunit.Class {
			continue
		}
		for _, m := range r.ModifierList {
			if m == "object" && !strings.HasSuffix(r.SimpleName, "$") {
				r.SimpleName += "$"
				break
			}
		}
	}
	return decls
}
