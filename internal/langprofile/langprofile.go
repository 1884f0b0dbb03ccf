// Package langprofile defines Profile, the single interface every
// supported language implements once: one surface the capture
// pipeline, skeleton reconstructor, import resolver, and
// type-inference engine all dispatch through.
package langprofile

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/rawdecl"
)

// DuplicatePolicy governs how the symbol index reconciles two raw
// declarations that resolve to the same key within one file.
type DuplicatePolicy int

const (
	// FirstWins keeps the earliest-captured declaration (C++).
	FirstWins DuplicatePolicy = iota
	// LastWins replaces earlier declarations (Python, TypeScript
	// sibling duplicates).
	LastWins
	// PreserveAll keeps every declaration distinct; the default for
	// profiles that do not override DuplicatePolicy. TypeScript interface
	// merging is not a duplicate policy: that profile's PostProcess
	// folds sibling interfaces before reconciliation.
	PreserveAll
)

// BodyKind distinguishes which placeholder a skeleton renderer
// substitutes for an omitted function body.
type BodyKind int

const (
	// BraceBody renders "{...}" (C-family: Java, C/C++, C#, Go,
	// TypeScript/JavaScript, Scala, Rust, PHP).
	BraceBody BodyKind = iota
	// ColonBody renders "..." immediately after a trailing ":"
	// (Python).
	ColonBody
)

// Profile bundles everything the shared engine needs to treat one
// language polymorphically: grammar, queries, naming/separator rules,
// duplicate policy, skeleton formatting, import resolution, and FQN
// normalization.
type Profile interface {
	// Language returns the canonical language tag (e.g. "go", "python").
	Language() string
	// Aliases returns every alternate name this profile answers to
	// (e.g. "golang", "js"/"javascript").
	Aliases() []string
	// Extensions returns the file extensions this profile claims,
	// each beginning with ".".
	Extensions() []string

	// Grammar returns the Tree-sitter grammar handle.
	Grammar() *sitter.Language

	// DeclarationQuery returns the Tree-sitter query text whose
	// captures the capture pipeline classifies into rawdecl.Record
	// fields: @package.name, @class.name, @class.body,
	// @function.name, @function.params, @function.body, @field.name,
	// @field.value, @module.name, @decorator, @comment.leading,
	// @import.statement, @reexport.*. The engine additionally
	// recognizes @declaration (the full declaration node, so ranges
	// keep leading keywords and modifiers) and @function.returntype,
	// @modifier, @class.base.
	DeclarationQuery() string
	// ImportQuery returns the query text for import statements, or ""
	// when the profile collects no imports.
	ImportQuery() string
	// ReexportQuery returns the query text for re-export records, or ""
	// for languages with no re-export concept (every language but
	// TypeScript).
	ReexportQuery() string

	// ClassSeparator returns the class-boundary separator, e.g. "."
	// (Java), "$" (Python), "::" (C++/Rust).
	ClassSeparator() string
	// MemberSeparator returns the member (field/method) separator.
	MemberSeparator() string

	// DuplicatePolicy reports how sibling duplicate declarations in
	// one file are reconciled.
	DuplicatePolicy() DuplicatePolicy
	// BodyPlaceholder reports which placeholder style the skeleton
	// reconstructor uses for this language.
	BodyPlaceholder() BodyKind

	// NormalizeFQN strips generics ("<...>"), location suffixes
	// (":NN"), and anonymous-class digit suffixes ("$1") from a raw
	// FQN candidate.
	NormalizeFQN(raw string) string

	// ResolveImport maps one import statement string to a candidate
	// FQN, given the importing file's own package name. ok is false
	// for syntactically unrecognized imports.
	ResolveImport(importStmt, currentPackage string) (fqn string, ok bool)

	// ExtractCallReceiver returns the receiver segment of a raw
	// member-access expression, or "" when none applies.
	ExtractCallReceiver(expression string) string

	// PostProcess lets a profile adjust a raw declaration batch after
	// capture but before index reconciliation — TypeScript uses this
	// for interface/namespace merging and the "$static" suffix;
	// Scala uses it for the object "$" suffix; most profiles are a
	// no-op (return decls unchanged).
	PostProcess(decls []rawdecl.Record) []rawdecl.Record
}

// KindOf maps a lowercase kind tag ("class", "function", "field",
// "module") to the CodeUnit kind enum.
func KindOf(tag string) (codeunit.Kind, bool) {
	switch tag {
	case "class":
		return codeunit.Class, true
	case "function":
		return codeunit.Function, true
	case "field":
		return codeunit.Field, true
	case "module":
		return codeunit.Module, true
	default:
		return 0, false
	}
}
