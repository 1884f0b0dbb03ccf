// Package rawdecl defines the raw declaration record emitted by the
// capture pipeline before it is reconciled into CodeUnits by the
// symbol index.
package rawdecl

import "github.com/oxhq/codescope/codeunit"

// ByteRange is a half-open [Start, End) byte range into a file's
// SourceContent.
type ByteRange struct {
	Start, End int
}

// Empty reports whether the range carries no bytes.
func (r ByteRange) Empty() bool { return r.End <= r.Start }

// Record is one raw declaration captured from a Tree-sitter match,
// before class-chain/signature reconciliation.
type Record struct {
	File        string
	Kind        codeunit.Kind
	PackageName string

	// ClassChain is the nesting of enclosing classes/functions as seen
	// in source, outermost first, not including SimpleName itself.
	ClassChain []string
	SimpleName string

	// Signature is the raw "(...)" literal, or "" for None.
	Signature string

	// ReturnType is the function's declared return type, captured via
	// "@function.returntype" so the type inference engine can resolve
	// a call expression's result type without re-parsing the signature
	// text. Empty when the language has no explicit return-type
	// annotation (e.g. Python) or the query does not track it.
	ReturnType string

	DeclarationByteRange    ByteRange
	DocumentationByteRange  ByteRange
	HasDocumentationByteRange bool

	ModifierList  []string
	DecoratorList []string
	BaseTypeList  []string

	// ParentKey is a pre-resolved synthetic key for parent lookup,
	// letting nested types be reassembled across captures without a
	// second tree walk.
	ParentKey string

	// Key is this record's own synthetic key, referenced by children's
	// ParentKey.
	Key string
}

// IsExported reports whether ModifierList contains "public" or
// "export", the two modifier spellings the language profiles use to
// mark externally visible symbols.
func (r Record) IsExported() bool {
	for _, m := range r.ModifierList {
		if m == "public" || m == "export" {
			return true
		}
	}
	return false
}
