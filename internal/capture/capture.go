// Package capture runs a language profile's Tree-sitter query bundle
// against a parsed file and classifies each match's named captures
// into the fields of a rawdecl.Record.
package capture

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/rawdecl"
	"github.com/oxhq/codescope/internal/symbolindex"
	"github.com/oxhq/codescope/internal/telemetry"
	"github.com/oxhq/codescope/sourcetext"
)

// Run executes profile's declaration query against root and returns one
// raw declaration record per match. ParentKey is resolved by
// byte-range containment: each record's ParentKey names the tightest
// other record in the same file whose declaration range strictly
// contains this one, letting the symbol index reassemble nesting
// (classChain) without a second grammar-aware tree walk.
//
// Every captured byte range must lie inside the file; a query that
// fails to compile is reported as an error (ParseError-adjacent, since
// without a usable query the file contributes zero declarations for
// that pass). A match with no recognized name capture is recorded
// under the synthetic name "(anonymous)" and a warning is logged
// rather than dropped.
func Run(file, language string, grammar *sitter.Language, queryText string, root *sitter.Node, source *sourcetext.SourceContent) ([]rawdecl.Record, error) {
	if queryText == "" {
		return nil, nil
	}

	q, err := sitter.NewQuery([]byte(queryText), grammar)
	if err != nil {
		return nil, fmt.Errorf("capture: invalid query for %s: %w", language, err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	var records []rawdecl.Record
	maxByte := source.ByteLength()
	raw := []byte(source.Text())

	var packageName string

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}

		rec, hasName, isDeclaration := classify(match, q, raw)
		if !isDeclaration {
			// Metadata-only match (e.g. a standalone @package.name
			// capture): not a declaration, never logged as anonymous.
			if rec.PackageName != "" {
				packageName = rec.PackageName
			}
			continue
		}
		if rec.DeclarationByteRange.Start < 0 || rec.DeclarationByteRange.End > maxByte {
			telemetry.Warn("capture", file, language, fmt.Errorf("capture byte range out of bounds"))
			continue
		}
		if !hasName {
			telemetry.Warn("capture", file, language, fmt.Errorf("capture could not be classified: anonymous declaration"))
			rec.SimpleName = "(anonymous)"
		}

		rec.File = file
		rec.Key = fmt.Sprintf("%s\x00%d\x00%d", file, rec.DeclarationByteRange.Start, rec.DeclarationByteRange.End)
		records = append(records, rec)
	}

	if packageName != "" {
		for i := range records {
			if records[i].PackageName == "" {
				records[i].PackageName = packageName
			}
		}
	}

	records = mergeByKey(records)
	resolveParents(records)
	return records, nil
}

// mergeByKey folds matches that captured the same declaration range
// into one record. Query bundles commonly pair each declaration
// pattern with a comment-anchored variant, so a documented declaration
// matches twice; the duplicate differs only in which optional captures
// it carries.
func mergeByKey(records []rawdecl.Record) []rawdecl.Record {
	byKey := map[string]int{}
	out := make([]rawdecl.Record, 0, len(records))

	for _, r := range records {
		i, ok := byKey[r.Key]
		if !ok {
			byKey[r.Key] = len(out)
			out = append(out, r)
			continue
		}

		m := &out[i]
		if !m.HasDocumentationByteRange && r.HasDocumentationByteRange {
			m.DocumentationByteRange = r.DocumentationByteRange
			m.HasDocumentationByteRange = true
		}
		if m.Signature == "" {
			m.Signature = r.Signature
		}
		if m.ReturnType == "" {
			m.ReturnType = r.ReturnType
		}
		if m.PackageName == "" {
			m.PackageName = r.PackageName
		}
		m.ModifierList = appendMissing(m.ModifierList, r.ModifierList)
		m.DecoratorList = appendMissing(m.DecoratorList, r.DecoratorList)
		m.BaseTypeList = appendMissing(m.BaseTypeList, r.BaseTypeList)
	}
	return out
}

func appendMissing(dst, src []string) []string {
	for _, s := range src {
		found := false
		for _, d := range dst {
			if d == s {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, s)
		}
	}
	return dst
}

// classify aggregates one match's captures into a Record. Unknown
// capture names are ignored. isDeclaration reports
// whether this match captured any declaration-shaped node at all
// (name or body/value); a match carrying only metadata captures
// (@package.name, @decorator, @comment.leading) is not a declaration
// and never becomes an "(anonymous)" record.
func classify(match *sitter.QueryMatch, q *sitter.Query, raw []byte) (rawdecl.Record, bool, bool) {
	rec := rawdecl.Record{
		DeclarationByteRange: rawdecl.ByteRange{Start: -1, End: -1},
	}
	hasName := false
	isDeclaration := false

	extend := func(n *sitter.Node) {
		start, end := int(n.StartByte()), int(n.EndByte())
		if rec.DeclarationByteRange.Start == -1 || start < rec.DeclarationByteRange.Start {
			rec.DeclarationByteRange.Start = start
		}
		if end > rec.DeclarationByteRange.End {
			rec.DeclarationByteRange.End = end
		}
	}

	for _, cap := range match.Captures {
		name := q.CaptureNameForId(cap.Index)
		node := cap.Node
		text := node.Content(raw)

		// Leading comments and decorators stay outside the declaration
		// range: the source extractor decides separately whether to
		// include them.
		if name != "comment.leading" && name != "decorator" {
			extend(node)
		}

		switch name {
		case "class.name":
			rec.Kind = codeunit.Class
			rec.SimpleName = text
			hasName = true
			isDeclaration = true
		case "function.name":
			rec.Kind = codeunit.Function
			rec.SimpleName = text
			hasName = true
			isDeclaration = true
		case "field.name":
			rec.Kind = codeunit.Field
			rec.SimpleName = text
			hasName = true
			isDeclaration = true
		case "module.name":
			rec.Kind = codeunit.Module
			rec.SimpleName = text
			hasName = true
			isDeclaration = true
		case "function.params":
			rec.Signature = text
		case "function.returntype":
			rec.ReturnType = text
		case "package.name":
			rec.PackageName = text
		case "decorator":
			rec.DecoratorList = append(rec.DecoratorList, text)
		case "modifier":
			rec.ModifierList = append(rec.ModifierList, text)
		case "class.base":
			rec.BaseTypeList = append(rec.BaseTypeList, text)
		case "comment.leading":
			rec.DocumentationByteRange = rawdecl.ByteRange{Start: int(node.StartByte()), End: int(node.EndByte())}
			rec.HasDocumentationByteRange = true
		case "declaration":
			// The whole declaration node: folds leading keywords and
			// modifiers ("public class", "func") into the range, which
			// name/body captures alone would clip.
			isDeclaration = true
		case "class.body", "function.body", "field.value":
			// Already folded into the range via extend(); these
			// captures exist so the query can anchor on a node whose
			// end byte closes the declaration.
			isDeclaration = true
		default:
			// Unknown capture names are ignored.
		}
	}

	return rec, hasName, isDeclaration
}

// Imports executes profile's import query and returns the import
// statement strings captured as @import.statement, in source order.
// Non-import captures in the same query are ignored.
func Imports(file, language string, grammar *sitter.Language, queryText string, root *sitter.Node, source *sourcetext.SourceContent) ([]string, error) {
	if queryText == "" {
		return nil, nil
	}

	q, err := sitter.NewQuery([]byte(queryText), grammar)
	if err != nil {
		return nil, fmt.Errorf("capture: invalid import query for %s: %w", language, err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	raw := []byte(source.Text())
	var imports []string
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, cap := range match.Captures {
			if q.CaptureNameForId(cap.Index) == "import.statement" {
				imports = append(imports, cap.Node.Content(raw))
			}
		}
	}
	return imports, nil
}

// Reexports executes a re-export query (TypeScript only) and
// classifies each match into a structured ReexportInfo via the
// @reexport.* capture family: @reexport.source (module specifier),
// @reexport.name / @reexport.alias (named and renamed exports),
// @reexport.namespace (export * as N), and @reexport.wildcard (the
// "*" of a bare wildcard re-export).
func Reexports(file, language string, grammar *sitter.Language, queryText string, root *sitter.Node, source *sourcetext.SourceContent) ([]symbolindex.ReexportInfo, error) {
	if queryText == "" {
		return nil, nil
	}

	q, err := sitter.NewQuery([]byte(queryText), grammar)
	if err != nil {
		return nil, fmt.Errorf("capture: invalid reexport query for %s: %w", language, err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	raw := []byte(source.Text())
	var out []symbolindex.ReexportInfo
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}

		var (
			src       string
			namespace string
			wildcard  bool
			names     []string
			aliases   []string
		)
		for _, cap := range match.Captures {
			text := cap.Node.Content(raw)
			switch q.CaptureNameForId(cap.Index) {
			case "reexport.source":
				src = trimQuotes(text)
			case "reexport.name":
				names = append(names, text)
			case "reexport.alias":
				aliases = append(aliases, text)
			case "reexport.namespace":
				namespace = text
			case "reexport.wildcard":
				wildcard = true
			}
		}
		if src == "" {
			continue
		}

		switch {
		case namespace != "":
			out = append(out, symbolindex.NewNamespaceReexport(src, namespace))
		case wildcard && len(names) == 0:
			out = append(out, symbolindex.NewWildcardReexport(src))
		case len(aliases) > 0:
			renamed := make(map[string]string, len(names))
			for i, n := range names {
				if i < len(aliases) {
					renamed[n] = aliases[i]
				} else {
					renamed[n] = n
				}
			}
			out = append(out, symbolindex.NewRenamedReexport(src, renamed))
		case len(names) > 0:
			out = append(out, symbolindex.NewNamedReexport(src, names))
		}
	}
	return out, nil
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '`' && s[len(s)-1] == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func resolveParents(records []rawdecl.Record) {
	for i := range records {
		best := -1
		bestWidth := -1
		for j := range records {
			if i == j {
				continue
			}
			if encloses(records[j].DeclarationByteRange, records[i].DeclarationByteRange) {
				width := records[j].DeclarationByteRange.End - records[j].DeclarationByteRange.Start
				if best == -1 || width < bestWidth {
					best = j
					bestWidth = width
				}
			}
		}
		if best >= 0 {
			records[i].ParentKey = records[best].Key
		}
	}
}

func encloses(outer, inner rawdecl.ByteRange) bool {
	if outer.Start == inner.Start && outer.End == inner.End {
		return false
	}
	return outer.Start <= inner.Start && outer.End >= inner.End
}
