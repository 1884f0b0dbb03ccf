// Package python provides the Python language profile: "$" as the
// class-boundary separator, last-wins duplicate semantics, and module
// names derived from the file path rather than a package declaration.
package python

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/oxhq/codescope/internal/callreceiver"
	"github.com/oxhq/codescope/internal/langprofile"
	"github.com/oxhq/codescope/internal/rawdecl"
	"github.com/oxhq/codescope/providers/base"
)

// Profile implements langprofile.Profile for Python.
type Profile struct {
	base.Defaults
}

// New returns the Python profile.
func New() *Profile { return &Profile{} }

func (p *Profile) Language() string { return "python" }

func (p *Profile) Aliases() []string { return []string{"py"} }

func (p *Profile) Extensions() []string { return []string{".py", ".pyi"} }

func (p *Profile) Grammar() *sitter.Language { return python.GetLanguage() }

// ClassSeparator is "$": nested classes — both function-local and
// class-nested — join to their parent with "$" (module.func$Local).
func (p *Profile) ClassSeparator() string { return "$" }

func (p *Profile) MemberSeparator() string { return "." }

func (p *Profile) DuplicatePolicy() langprofile.DuplicatePolicy { return langprofile.LastWins }

func (p *Profile) BodyPlaceholder() langprofile.BodyKind { return langprofile.ColonBody }

func (p *Profile) DeclarationQuery() string {
	return `
(class_definition
  name: (identifier) @class.name
  superclasses: (argument_list (identifier) @class.base)?
  body: (block) @class.body) @declaration

((comment) @comment.leading
 .
 (class_definition
   name: (identifier) @class.name
   body: (block) @class.body) @declaration)

(function_definition
  name: (identifier) @function.name
  parameters: (parameters) @function.params
  return_type: (type)? @function.returntype
  body: (block) @function.body) @declaration

((comment) @comment.leading
 .
 (function_definition
   name: (identifier) @function.name
   parameters: (parameters) @function.params
   body: (block) @function.body) @declaration)

(decorated_definition
  (decorator) @decorator
  definition: (class_definition
    name: (identifier) @class.name
    body: (block) @class.body) @declaration)

(decorated_definition
  (decorator) @decorator
  definition: (function_definition
    name: (identifier) @function.name
    parameters: (parameters) @function.params
    body: (block) @function.body) @declaration)

(module
  (expression_statement
    (assignment
      left: (identifier) @field.name
      right: (_) @field.value) @declaration))
`
}

func (p *Profile) ImportQuery() string {
	return `
(import_statement) @import.statement
(import_from_statement) @import.statement
`
}

// ResolveImport parses "import a.b" and "from .x import Y" forms.
// Leading dots count as parent hops against the importing file's
// package path: one dot anchors at the current package, each
// further dot climbs one level.
func (p *Profile) ResolveImport(importStmt, currentPackage string) (string, bool) {
	s := strings.TrimSpace(importStmt)

	if rest, ok := strings.CutPrefix(s, "from "); ok {
		module, names, ok := strings.Cut(rest, " import ")
		if !ok {
			return "", false
		}
		module = strings.TrimSpace(module)
		name := firstBinding(names)

		dots := 0
		for strings.HasPrefix(module, ".") {
			dots++
			module = module[1:]
		}
		if dots > 0 {
			segs := []string{}
			if currentPackage != "" {
				segs = strings.Split(currentPackage, ".")
			}
			keep := len(segs) - (dots - 1)
			if keep < 0 {
				return "", false
			}
			module = joinDotted(strings.Join(segs[:keep], "."), module)
		}
		if name == "" || name == "*" {
			if module == "" {
				return "", false
			}
			return module, true
		}
		return joinDotted(module, name), true
	}

	if rest, ok := strings.CutPrefix(s, "import "); ok {
		mod := firstBinding(rest)
		return mod, mod != ""
	}

	return "", false
}

// firstBinding takes the first imported name from a comma-separated
// import list, dropping any "as" alias and grouping parens.
func firstBinding(names string) string {
	s := strings.TrimSpace(names)
	s = strings.Trim(s, "()")
	if idx := strings.IndexByte(s, ','); idx >= 0 {
		s = s[:idx]
	}
	if name, _, ok := strings.Cut(s, " as "); ok {
		s = name
	}
	return strings.TrimSpace(s)
}

func joinDotted(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "." + b
	}
}

func (p *Profile) ExtractCallReceiver(expression string) string {
	return callreceiver.Extract(callreceiver.Python, expression)
}

// PostProcess fills PackageName with the module name derived from the
// file path: the basename without extension, or the parent directory
// for __init__ modules. Python has no package declaration to capture.
func (p *Profile) PostProcess(decls []rawdecl.Record) []rawdecl.Record {
	for i := range decls {
		if decls[i].PackageName == "" {
			decls[i].PackageName = moduleName(decls[i].File)
		}
	}
	return decls
}

func moduleName(file string) string {
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	if name == "__init__" {
		return filepath.Base(filepath.Dir(file))
	}
	return name
}
