// Package importresolve implements the per-file import resolution
// pass: each import statement string is mapped, via the
// language profile's ResolveImport, to a candidate FQN, which is then
// looked up in the symbol index. Resolution is isolated per file: any
// failure degrades that file's resolved-import set to empty rather
// than aborting the whole update; import-resolution errors from one
// file are isolated.
package importresolve

import (
	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/telemetry"
)

// Lookup resolves an FQN to the CodeUnits that exact-match it
// (symbolindex.Index.Definitions), and finds candidates by simple
// identifier as a fallback for unqualified or partially-qualified
// import forms.
type Lookup interface {
	Definitions(fqName string) []codeunit.CodeUnit
	ByIdentifier(identifier string) []codeunit.CodeUnit
}

// ResolveFunc maps one import statement, given the importing file's
// package name, to a candidate FQN; it is a profile's ResolveImport.
type ResolveFunc func(importStmt, currentPackage string) (fqn string, ok bool)

// Resolve resolves every import statement for one file. It never
// returns an error: a statement that the profile cannot parse, or
// that matches no known symbol, is simply dropped from the resolved
// set and a warning is logged; resolution for the rest of the project
// continues unaffected.
func Resolve(file, language, currentPackage string, imports []string, resolve ResolveFunc, lookup Lookup) []codeunit.CodeUnit {
	var out []codeunit.CodeUnit
	seen := map[string]bool{}

	for _, stmt := range imports {
		fqn, ok := resolve(stmt, currentPackage)
		if !ok {
			telemetry.Warn("importresolve", file, language, malformedImport(stmt))
			continue
		}

		matches := lookup.Definitions(fqn)
		if len(matches) == 0 {
			// Fall back to a simple-identifier match, since
			// ResolveImport may only be able to recover the trailing
			// segment for some import grammars (e.g. wildcard
			// imports, or imports of re-exported names).
			matches = lookup.ByIdentifier(lastSegment(fqn))
		}
		if len(matches) == 0 {
			telemetry.Warn("importresolve", file, language, unresolvedImport(fqn))
			continue
		}

		for _, m := range matches {
			if seen[m.Key()] {
				continue
			}
			seen[m.Key()] = true
			out = append(out, m)
		}
	}
	return out
}

func lastSegment(fqn string) string {
	last := fqn
	for i := len(fqn) - 1; i >= 0; i-- {
		switch fqn[i] {
		case '.', '$', ':', '/':
			return fqn[i+1:]
		}
	}
	return last
}

type importError string

func (e importError) Error() string { return string(e) }

func malformedImport(stmt string) error {
	return importError("malformed import statement: " + stmt)
}

func unresolvedImport(fqn string) error {
	return importError("import target not found: " + fqn)
}
