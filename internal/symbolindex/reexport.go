package symbolindex

// ReexportInfo records one TypeScript re-export statement:
// `export * from "./x"`, `export { X as Y } from "./x"`,
// `export * as N from "./x"`, or a combination thereof. It forwards
// symbols from another module without redefining them, so it is never
// itself a CodeUnit.
type ReexportInfo struct {
	// Source is the module specifier string, e.g. "./utils".
	Source string
	// Symbols is the set of exported names for a named re-export.
	// Empty for wildcard and namespace re-exports.
	Symbols map[string]struct{}
	// Renamed maps original name -> exposed name for `export {X as Y}`.
	Renamed map[string]string
	// Namespace is the bound name for `export * as N from`, or "".
	Namespace string
	// ExportAll reports a bare `export * from`.
	ExportAll bool
}

// NewWildcardReexport builds an `export * from "source"` record.
func NewWildcardReexport(source string) ReexportInfo {
	return ReexportInfo{Source: source, ExportAll: true}
}

// NewNamedReexport builds an `export { a, b } from "source"` record.
func NewNamedReexport(source string, symbols []string) ReexportInfo {
	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		set[s] = struct{}{}
	}
	return ReexportInfo{Source: source, Symbols: set}
}

// NewNamespaceReexport builds an `export * as N from "source"` record.
func NewNamespaceReexport(source, namespace string) ReexportInfo {
	return ReexportInfo{Source: source, Namespace: namespace}
}

// NewRenamedReexport builds an `export { original as exposed } from
// "source"` record, carrying both the original symbol set and the
// rename map.
func NewRenamedReexport(source string, renamed map[string]string) ReexportInfo {
	symbols := make(map[string]struct{}, len(renamed))
	for original := range renamed {
		symbols[original] = struct{}{}
	}
	return ReexportInfo{Source: source, Symbols: symbols, Renamed: renamed}
}
