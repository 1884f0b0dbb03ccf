// Package typeinfer resolves the identifier chain at a byte offset to
// a declared CodeUnit. It is intentionally a best-effort heuristic:
// intra-file scope walking plus one hop through resolved imports, not
// a type checker.
package typeinfer

import (
	"regexp"
	"strings"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/symbolindex"
	"github.com/oxhq/codescope/sourcetext"
)

// Index is the symbolindex.Index surface the engine needs.
type Index = *symbolindex.Index

// identifierChain matches a dotted identifier chain, optionally
// prefixed by "new " and optionally ending in "()" call parens per
// segment, e.g. "n.getLeaf().value", "new Node()", "this.f", "super.m()".
var identifierChain = regexp.MustCompile(`(?:new\s+)?[A-Za-z_]\w*(?:\s*\(\s*\))?(?:\.[A-Za-z_]\w*(?:\s*\(\s*\))?)*`)

// localDecl recognizes two common local-declaration shapes across the
// supported languages: "Type name = ..." (Java/C++/C#/Scala/PHP-ish)
// and constructor-call assignment "name = new Type(" / "name = Type(" /
// "name := Type{". Each yields (name, type).
var (
	typedDecl  = regexp.MustCompile(`\b([A-Z]\w*)\s+([a-zA-Z_]\w*)\s*=`)
	newAssign  = regexp.MustCompile(`\b([a-zA-Z_]\w*)\s*(?::=|=)\s*new\s+([A-Z]\w*)\s*\(`)
	callAssign = regexp.MustCompile(`\b([a-zA-Z_]\w*)\s*(?::=|=)\s*([A-Z]\w*)\s*[\(\{]`)
	goVarDecl  = regexp.MustCompile(`\bvar\s+([a-zA-Z_]\w*)\s+\*?([A-Z]\w*)\b`)
	instOf     = regexp.MustCompile(`\binstanceof\s+([A-Z]\w*)\s+([a-zA-Z_]\w*)\b`)
)

// GetIdentifierAt returns the longest identifier chain covering
// offset, or ("", false) if offset lands outside any
// identifier-shaped text.
func GetIdentifierAt(source *sourcetext.SourceContent, offset int) (string, bool) {
	text := source.Text()
	for _, loc := range identifierChain.FindAllStringIndex(text, -1) {
		if loc[0] <= offset && offset <= loc[1] {
			return strings.TrimSpace(text[loc[0]:loc[1]]), true
		}
	}
	return "", false
}

// InferTypeAt resolves the expression at (file, offset) to a declared
// CodeUnit, or returns (zero, false) when the chain's head or one of
// its members matches nothing. Each lookup takes the first candidate
// it finds (locals, then fields of the enclosing class and its
// ancestors, then classes by name, then resolved imports); candidates
// that share a name are not checked for ambiguity. A call whose return
// type resolves to no class yields the function unit itself.
func InferTypeAt(idx Index, source *sourcetext.SourceContent, file string, offset int) (codeunit.CodeUnit, bool) {
	chain, ok := GetIdentifierAt(source, offset)
	if !ok {
		return codeunit.CodeUnit{}, false
	}
	segments, isNew := splitChain(chain)
	if len(segments) == 0 {
		return codeunit.CodeUnit{}, false
	}

	enclosingClass, enclosingMethod := enclosingScope(idx, file, offset)
	locals := scanLocals(idx, source, enclosingMethod)

	var current codeunit.CodeUnit
	var haveCurrent bool

	head := segments[0]
	switch {
	case isNew:
		current, haveCurrent = resolveTypeName(idx, file, enclosingClass, head)
	case head == "this" || head == "self":
		current, haveCurrent = enclosingClass, !isZero(enclosingClass)
	case head == "super" || head == "parent":
		if !isZero(enclosingClass) {
			ancestors := idx.Ancestors(enclosingClass)
			if len(ancestors) > 0 {
				current, haveCurrent = ancestors[0], true
			}
		}
	default:
		if t, ok := locals[head]; ok {
			current, haveCurrent = resolveTypeName(idx, file, enclosingClass, t)
		} else if !isZero(enclosingClass) {
			if field, ok := findChildByIdentifier(idx, enclosingClass, head, codeunit.Field); ok {
				current, haveCurrent = field, true
			} else {
				for _, anc := range idx.Ancestors(enclosingClass) {
					if field, ok := findChildByIdentifier(idx, anc, head, codeunit.Field); ok {
						current, haveCurrent = field, true
						break
					}
				}
			}
		}
		if !haveCurrent {
			current, haveCurrent = resolveTypeName(idx, file, enclosingClass, head)
		}
		if !haveCurrent {
			current, haveCurrent = resolveFromImports(idx, file, head)
		}
	}

	if !haveCurrent {
		return codeunit.CodeUnit{}, false
	}

	for _, seg := range segments[1:] {
		if current.IsField() {
			return codeunit.CodeUnit{}, false
		}
		member, ok := findMemberAcrossAncestors(idx, current, seg)
		if !ok {
			return codeunit.CodeUnit{}, false
		}
		if member.IsFunction() {
			rt := idx.ReturnType(member)
			if rt == "" {
				return member, true
			}
			nextType, ok := resolveTypeName(idx, file, enclosingClass, rt)
			if !ok {
				return member, true
			}
			current = nextType
			continue
		}
		current = member
	}

	return current, true
}

func isZero(u codeunit.CodeUnit) bool { return u == (codeunit.CodeUnit{}) }

// splitChain splits a dotted chain into segments, stripping "new " and
// call parens, and reports whether the chain began with "new".
func splitChain(chain string) ([]string, bool) {
	isNew := strings.HasPrefix(chain, "new ")
	chain = strings.TrimPrefix(chain, "new ")
	raw := strings.Split(chain, ".")
	segs := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		s = strings.TrimSuffix(s, "()")
		s = strings.TrimSpace(s)
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs, isNew
}

// enclosingScope picks the tightest enclosing class and function at
// offset: EnclosingDeclarations isn't sorted by range width, so the
// smallest-range match per kind wins.
func enclosingScope(idx Index, file string, offset int) (class, method codeunit.CodeUnit) {
	classWidth, methodWidth := -1, -1
	for _, u := range idx.EnclosingDeclarations(file, offset) {
		r, _, _, _, ok := idx.DeclMeta(u)
		if !ok {
			continue
		}
		width := r.End - r.Start
		switch u.Kind() {
		case codeunit.Class:
			if classWidth == -1 || width < classWidth {
				class, classWidth = u, width
			}
		case codeunit.Function:
			if methodWidth == -1 || width < methodWidth {
				method, methodWidth = u, width
			}
		}
	}
	return
}

func scanLocals(idx Index, source *sourcetext.SourceContent, method codeunit.CodeUnit) map[string]string {
	if isZero(method) {
		return map[string]string{}
	}
	declRange, _, _, _, ok := idx.DeclMeta(method)
	if !ok {
		return map[string]string{}
	}
	text := source.SubstringFromBytes(declRange.Start, declRange.End)
	return ScanLocalsInRange(text)
}

// ScanLocalsInRange extracts "name -> declared type" bindings by
// regex-scanning methodText for the declaration shapes recognized
// across the supported languages. This is a textual heuristic, not a
// grammar walk; it covers the declaration shapes the chain resolver
// needs and nothing more.
func ScanLocalsInRange(methodText string) map[string]string {
	locals := map[string]string{}
	add := func(name, typ string) {
		if _, exists := locals[name]; !exists {
			locals[name] = typ
		}
	}
	for _, m := range typedDecl.FindAllStringSubmatch(methodText, -1) {
		add(m[2], m[1])
	}
	for _, m := range newAssign.FindAllStringSubmatch(methodText, -1) {
		add(m[1], m[2])
	}
	for _, m := range callAssign.FindAllStringSubmatch(methodText, -1) {
		add(m[1], m[2])
	}
	for _, m := range goVarDecl.FindAllStringSubmatch(methodText, -1) {
		add(m[1], m[2])
	}
	for _, m := range instOf.FindAllStringSubmatch(methodText, -1) {
		add(m[2], m[1])
	}
	return locals
}

func resolveTypeName(idx Index, file string, enclosingClass codeunit.CodeUnit, name string) (codeunit.CodeUnit, bool) {
	for _, u := range idx.Declarations(file) {
		if u.IsClass() && (u.Identifier() == name || u.ShortName() == name) {
			return u, true
		}
	}
	return resolveFromImports(idx, file, name)
}

func resolveFromImports(idx Index, file, name string) (codeunit.CodeUnit, bool) {
	props := idx.FileProperties(file)
	if props == nil {
		return codeunit.CodeUnit{}, false
	}
	for _, u := range props.Imported() {
		if u.Identifier() == name || u.ShortName() == name {
			return u, true
		}
	}
	return codeunit.CodeUnit{}, false
}

func findChildByIdentifier(idx Index, parent codeunit.CodeUnit, name string, kind codeunit.Kind) (codeunit.CodeUnit, bool) {
	for _, c := range idx.Children(parent) {
		if c.Kind() == kind && c.Identifier() == name {
			return c, true
		}
	}
	return codeunit.CodeUnit{}, false
}

func findMemberAcrossAncestors(idx Index, parent codeunit.CodeUnit, name string) (codeunit.CodeUnit, bool) {
	for _, c := range idx.Children(parent) {
		if c.Identifier() == name {
			return c, true
		}
	}
	for _, anc := range idx.Ancestors(parent) {
		for _, c := range idx.Children(anc) {
			if c.Identifier() == name {
				return c, true
			}
		}
	}
	return codeunit.CodeUnit{}, false
}
