// Package typescript provides the TypeScript language profile,
// including the behaviors that exist nowhere else in the engine:
// interface declaration merging, the "$static" collision suffix, the
// "_module_." prefix for module-scoped constants, and re-export
// capture.
package typescript

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/callreceiver"
	"github.com/oxhq/codescope/internal/langprofile"
	"github.com/oxhq/codescope/internal/rawdecl"
	"github.com/oxhq/codescope/providers/base"
)

// ModuleScopePrefix is the synthetic prefix attached to module-scoped
// constants so they never collide with class members in the
// simple-identifier index.
const ModuleScopePrefix = "_module_."

// StaticSuffix marks a static class member whose name collides with an
// instance member of the same class.
const StaticSuffix = "$static"

// Profile implements langprofile.Profile for TypeScript.
type Profile struct {
	base.Defaults
}

// New returns the TypeScript profile.
func New() *Profile { return &Profile{} }

func (p *Profile) Language() string { return "typescript" }

func (p *Profile) Aliases() []string { return []string{"ts"} }

func (p *Profile) Extensions() []string { return []string{".ts", ".tsx", ".mts", ".cts"} }

func (p *Profile) Grammar() *sitter.Language { return typescript.GetLanguage() }

func (p *Profile) ClassSeparator() string { return "." }

func (p *Profile) MemberSeparator() string { return "." }

func (p *Profile) DuplicatePolicy() langprofile.DuplicatePolicy { return langprofile.LastWins }

func (p *Profile) DeclarationQuery() string {
	return `
(class_declaration
  (decorator)? @decorator
  name: (type_identifier) @class.name
  (class_heritage
    (extends_clause value: (identifier) @class.base))?
  body: (class_body) @class.body) @declaration

((comment) @comment.leading
 .
 (class_declaration
   name: (type_identifier) @class.name
   body: (class_body) @class.body) @declaration)

(interface_declaration
  "interface" @modifier
  name: (type_identifier) @class.name
  body: (interface_body) @class.body) @declaration

(enum_declaration
  name: (identifier) @class.name
  body: (enum_body) @class.body) @declaration

(internal_module
  name: (identifier) @module.name
  body: (statement_block) @class.body) @declaration

(function_declaration
  name: (identifier) @function.name
  parameters: (formal_parameters) @function.params
  return_type: (type_annotation)? @function.returntype
  body: (statement_block) @function.body) @declaration

((comment) @comment.leading
 .
 (function_declaration
   name: (identifier) @function.name
   parameters: (formal_parameters) @function.params
   body: (statement_block) @function.body) @declaration)

(method_definition
  "static"? @modifier
  name: (property_identifier) @function.name
  parameters: (formal_parameters) @function.params
  return_type: (type_annotation)? @function.returntype
  body: (statement_block) @function.body) @declaration

(method_signature
  name: (property_identifier) @function.name
  parameters: (formal_parameters) @function.params) @declaration

(public_field_definition
  "static"? @modifier
  name: (property_identifier) @field.name
  value: (_)? @field.value) @declaration

(property_signature
  name: (property_identifier) @field.name
  type: (type_annotation)? @field.value) @declaration

(program
  (lexical_declaration
    (variable_declarator
      name: (identifier) @field.name
      value: (_)? @field.value) @declaration))

(program
  (export_statement
    declaration: (lexical_declaration
      (variable_declarator
        name: (identifier) @field.name
        value: (_)? @field.value) @declaration)))
`
}

func (p *Profile) ImportQuery() string {
	return `(import_statement) @import.statement`
}

func (p *Profile) ReexportQuery() string {
	return `
(export_statement
  (export_clause
    (export_specifier
      name: (identifier) @reexport.name
      alias: (identifier)? @reexport.alias))
  source: (string) @reexport.source)

(export_statement
  "*" @reexport.wildcard
  source: (string) @reexport.source)

(export_statement
  (namespace_export (identifier) @reexport.namespace)
  source: (string) @reexport.source)
`
}

// ResolveImport recovers the first imported binding from an import
// statement; the module specifier itself names a file, not a symbol,
// so the binding name is what the index can resolve.
func (p *Profile) ResolveImport(importStmt, currentPackage string) (string, bool) {
	s := strings.TrimSpace(importStmt)
	rest, ok := strings.CutPrefix(s, "import ")
	if !ok {
		return "", false
	}
	clause, _, _ := strings.Cut(rest, " from ")
	clause = strings.TrimSpace(clause)
	clause = strings.Trim(clause, "{}")
	if idx := strings.IndexByte(clause, ','); idx >= 0 {
		clause = clause[:idx]
	}
	clause = strings.Trim(strings.TrimSpace(clause), "{}")
	if name, _, found := strings.Cut(clause, " as "); found {
		clause = name
	}
	clause = strings.TrimPrefix(strings.TrimSpace(clause), "* as ")
	clause = strings.TrimSpace(clause)
	if clause == "" || strings.HasPrefix(clause, `"`) || strings.HasPrefix(clause, "'") {
		return "", false
	}
	return clause, true
}

func (p *Profile) ExtractCallReceiver(expression string) string {
	return callreceiver.Extract(callreceiver.TypeScript, expression)
}

// PostProcess applies TypeScript's declaration-merging and naming
// rules, in this order: sibling interface declarations merge into one
// record; a namespace sharing a name with a class or enum folds its
// members into that symbol, while a namespace sharing a name with a
// function keeps the function and drops the namespace members;
// static members colliding with a same-named instance member gain the
// "$static" suffix; module-scoped constants gain the "_module_."
// prefix.
func (p *Profile) PostProcess(decls []rawdecl.Record) []rawdecl.Record {
	decls = mergeInterfaces(decls)
	decls = mergeNamespaces(decls)
	decls = suffixStaticCollisions(decls)
	decls = prefixModuleConstants(decls)
	return decls
}

func hasModifier(r rawdecl.Record, mod string) bool {
	for _, m := range r.ModifierList {
		if m == mod || strings.Contains(m, mod) {
			return true
		}
	}
	return false
}

// mergeInterfaces folds every later sibling interface declaration into
// the first one with the same name and parent: children re-point to the
// survivor, base types union, and the later record disappears. Member
// conflicts resolve by the profile's last-wins duplicate policy once
// the members share one parent.
func mergeInterfaces(decls []rawdecl.Record) []rawdecl.Record {
	type scope struct{ parent, name string }
	first := map[scope]int{}
	drop := map[string]string{} // dropped record key -> surviving key

	for i := range decls {
		r := &decls[i]
		if r.Kind != codeunit.Class || !hasModifier(*r, "interface") {
			continue
		}
		sc := scope{r.ParentKey, r.SimpleName}
		if j, ok := first[sc]; ok {
			drop[r.Key] = decls[j].Key
		} else {
			first[sc] = i
		}
	}
	return fold(decls, drop)
}

// mergeNamespaces attaches a namespace's members to the class or enum
// merged under the same name. A namespace merged with a function keeps
// the function and drops the namespace members entirely.
func mergeNamespaces(decls []rawdecl.Record) []rawdecl.Record {
	type scope struct{ parent, name string }
	classes := map[scope]string{}
	functions := map[scope]bool{}
	for _, r := range decls {
		sc := scope{r.ParentKey, r.SimpleName}
		switch r.Kind {
		case codeunit.Class:
			classes[sc] = r.Key
		case codeunit.Function:
			functions[sc] = true
		}
	}

	drop := map[string]string{}
	discard := map[string]bool{}
	for _, r := range decls {
		if r.Kind != codeunit.Module {
			continue
		}
		sc := scope{r.ParentKey, r.SimpleName}
		if target, ok := classes[sc]; ok {
			drop[r.Key] = target
			continue
		}
		if functions[sc] {
			discard[r.Key] = true
		}
	}
	if len(discard) > 0 {
		kept := make([]rawdecl.Record, 0, len(decls))
		for _, r := range decls {
			if discard[r.Key] || discard[r.ParentKey] {
				continue
			}
			kept = append(kept, r)
		}
		decls = kept
	}
	return fold(decls, drop)
}

// fold removes the records named by drop, re-pointing their children
// and unioning their base types into the surviving record.
func fold(decls []rawdecl.Record, drop map[string]string) []rawdecl.Record {
	if len(drop) == 0 {
		return decls
	}
	surviving := func(key string) string {
		for {
			next, ok := drop[key]
			if !ok {
				return key
			}
			key = next
		}
	}

	byKey := map[string]int{}
	for i, r := range decls {
		byKey[r.Key] = i
	}
	out := make([]rawdecl.Record, 0, len(decls))
	for _, r := range decls {
		if target, dropped := drop[r.Key]; dropped {
			tk := surviving(target)
			if j, ok := byKey[tk]; ok {
				for _, bt := range r.BaseTypeList {
					decls[j].BaseTypeList = append(decls[j].BaseTypeList, bt)
				}
			}
			continue
		}
		if r.ParentKey != "" {
			r.ParentKey = surviving(r.ParentKey)
		}
		out = append(out, r)
	}
	return out
}

// suffixStaticCollisions renames a static member to "name$static" when
// a non-static sibling member of the same name exists on the same
// parent.
func suffixStaticCollisions(decls []rawdecl.Record) []rawdecl.Record {
	type scope struct{ parent, name string }
	instance := map[scope]bool{}
	for _, r := range decls {
		if r.ParentKey != "" && !hasModifier(r, "static") {
			instance[scope{r.ParentKey, r.SimpleName}] = true
		}
	}
	for i := range decls {
		r := &decls[i]
		if r.ParentKey == "" || !hasModifier(*r, "static") {
			continue
		}
		if instance[scope{r.ParentKey, r.SimpleName}] {
			r.SimpleName += StaticSuffix
		}
	}
	return decls
}

// prefixModuleConstants gives top-level constants the "_module_."
// prefix.
func prefixModuleConstants(decls []rawdecl.Record) []rawdecl.Record {
	for i := range decls {
		r := &decls[i]
		if r.Kind == codeunit.Field && r.ParentKey == "" && !strings.HasPrefix(r.SimpleName, ModuleScopePrefix) {
			r.SimpleName = ModuleScopePrefix + r.SimpleName
		}
	}
	return decls
}
