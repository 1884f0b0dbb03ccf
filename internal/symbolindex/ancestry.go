package symbolindex

import (
	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/telemetry"
)

// DirectAncestors resolves unit's captured base-type names to
// CodeUnits, in this order: (1) same-file simple-name match, (2) the
// file's resolved imports, (3) nothing further — an unresolved base
// type is silently dropped, since the relation is best-effort and a
// missing ancestor is not an error.
func (idx *Index) DirectAncestors(unit codeunit.CodeUnit) []codeunit.CodeUnit {
	names := idx.baseTypes[unit.Key()]
	if len(names) == 0 {
		return nil
	}

	source := unit.Source()
	var sameFile []codeunit.CodeUnit
	var resolvedImports []codeunit.CodeUnit
	if source != nil {
		sameFile = idx.byFile[*source]
		if props := idx.fileProps[*source]; props != nil {
			resolvedImports = props.ResolvedImports
		}
	}

	var out []codeunit.CodeUnit
	seen := map[string]bool{}
	for _, name := range names {
		if cu, ok := findClassByIdentifier(sameFile, name); ok {
			addOnce(&out, seen, cu)
			continue
		}
		if cu, ok := findClassByIdentifier(resolvedImports, name); ok {
			addOnce(&out, seen, cu)
			continue
		}
		// No project-wide fallback: a name found in neither place is
		// dropped. Wildcard-import languages rely on the resolver
		// having already populated resolvedImports with every
		// plausible candidate.
	}
	return out
}

func findClassByIdentifier(candidates []codeunit.CodeUnit, name string) (codeunit.CodeUnit, bool) {
	for _, cu := range candidates {
		if cu.IsClass() && (cu.Identifier() == name || cu.ShortName() == name) {
			return cu, true
		}
	}
	return codeunit.CodeUnit{}, false
}

func addOnce(out *[]codeunit.CodeUnit, seen map[string]bool, cu codeunit.CodeUnit) {
	if seen[cu.Key()] {
		return
	}
	seen[cu.Key()] = true
	*out = append(*out, cu)
}

// Ancestors returns the full transitive ancestor set of unit, walking
// DirectAncestors to a fixed point. The relation is a DAG by
// construction; if a cycle is observed, the offending edge is dropped
// and a warning logged rather than looping forever.
func (idx *Index) Ancestors(unit codeunit.CodeUnit) []codeunit.CodeUnit {
	visited := map[string]bool{unit.Key(): true}
	var out []codeunit.CodeUnit
	var walk func(codeunit.CodeUnit)
	walk = func(cu codeunit.CodeUnit) {
		for _, parent := range idx.DirectAncestors(cu) {
			if visited[parent.Key()] {
				telemetry.Warn("symbolindex", "", "", cycleError(parent.Key()))
				continue
			}
			visited[parent.Key()] = true
			out = append(out, parent)
			walk(parent)
		}
	}
	walk(unit)
	return out
}
