// Package extractor returns byte-accurate source text for a CodeUnit
//, built directly on sourcetext.SourceContent.SubstringFromBytes
// rather than Go's own string slicing, since the latter operates on
// rune/byte-confusable indices and silently corrupts extractions from
// files with multi-byte characters.
package extractor

import (
	"strings"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/rawdecl"
	"github.com/oxhq/codescope/sourcetext"
)

// Meta is the subset of symbolindex's per-declaration metadata the
// extractor needs; kept as a plain struct so this package does not
// import symbolindex (avoiding a dependency cycle with callers that
// sit above both).
type Meta struct {
	DeclRange  rawdecl.ByteRange
	DocRange   rawdecl.ByteRange
	HasDoc     bool
	Decorators []string
}

// MetaLookup resolves a CodeUnit's extraction metadata, or false if
// unknown.
type MetaLookup func(unit codeunit.CodeUnit) (Meta, bool)

// Source returns unit's exact declaration text. When
// includeLeadingComments is true, the start is extended backward to
// the leading documentation range if it is contiguous with the
// declaration: only whitespace and at most one blank line may separate
// comment end from declaration start.
func Source(source *sourcetext.SourceContent, unit codeunit.CodeUnit, lookup MetaLookup, includeLeadingComments bool) (string, bool) {
	meta, ok := lookup(unit)
	if !ok {
		return "", false
	}

	start, end := meta.DeclRange.Start, meta.DeclRange.End
	if meta.DeclRange.Empty() {
		return "", false
	}

	if includeLeadingComments && meta.HasDoc && isContiguous(source, meta.DocRange, meta.DeclRange) {
		start = meta.DocRange.Start
	}

	return source.SubstringFromBytes(start, end), true
}

// isContiguous reports whether only whitespace, and at most one blank
// line, separates doc's end from decl's start.
func isContiguous(source *sourcetext.SourceContent, doc, decl rawdecl.ByteRange) bool {
	if doc.Empty() || doc.End > decl.Start {
		return false
	}
	between := source.SubstringFromBytes(doc.End, decl.Start)
	if strings.TrimSpace(between) != "" {
		return false
	}
	return strings.Count(between, "\n") <= 2
}

// MethodSource implements getMethodSource: for a single
// unit it is Source(); for a set of overloads sharing one FQN it
// concatenates each overload's full extracted text in the given
// order, separated by the statement terminator. An overload that is a
// bare signature contributes only that signature; one with a body
// contributes its body too.
func MethodSource(source *sourcetext.SourceContent, overloads []codeunit.CodeUnit, lookup MetaLookup, includeLeadingComments bool, terminator string) (string, bool) {
	if len(overloads) == 0 {
		return "", false
	}
	if len(overloads) == 1 {
		return Source(source, overloads[0], lookup, includeLeadingComments)
	}

	parts := make([]string, 0, len(overloads))
	for _, u := range overloads {
		text, ok := Source(source, u, lookup, includeLeadingComments)
		if !ok {
			continue
		}
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, terminator), true
}

// MethodSources returns the distinct rendered source for every
// overload individually, as a set.
func MethodSources(source *sourcetext.SourceContent, overloads []codeunit.CodeUnit, lookup MetaLookup, includeLeadingComments bool) map[string]struct{} {
	out := map[string]struct{}{}
	for _, u := range overloads {
		if text, ok := Source(source, u, lookup, includeLeadingComments); ok {
			out[text] = struct{}{}
		}
	}
	return out
}
