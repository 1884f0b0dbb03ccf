// Package base carries the profile behaviors shared by every language
// provider: FQN normalization and the default no-op hooks. Each
// providers/<lang> package embeds Defaults and overrides only what its
// language needs.
package base

import (
	"regexp"
	"strings"

	"github.com/oxhq/codescope/internal/langprofile"
	"github.com/oxhq/codescope/internal/rawdecl"
)

var (
	genericArgs    = regexp.MustCompile(`<[^<>]*>`)
	locationSuffix = regexp.MustCompile(`:\d+$`)
	anonSuffix     = regexp.MustCompile(`\$\d+\b`)
)

// NormalizeFQN strips generic type arguments ("<...>", innermost-out so
// nested generics collapse fully), trailing location suffixes (":NN"),
// and anonymous-class digit suffixes ("$1") from a raw FQN candidate.
func NormalizeFQN(raw string) string {
	for {
		stripped := genericArgs.ReplaceAllString(raw, "")
		if stripped == raw {
			break
		}
		raw = stripped
	}
	raw = locationSuffix.ReplaceAllString(raw, "")
	raw = anonSuffix.ReplaceAllString(raw, "")
	return raw
}

// Defaults supplies the profile hooks most languages share: no aliases,
// no separate import or re-export query, overload-preserving duplicate
// reconciliation, brace-style body placeholders, the shared FQN
// normalization, and a pass-through PostProcess.
type Defaults struct{}

func (Defaults) Aliases() []string { return nil }

func (Defaults) ImportQuery() string { return "" }

func (Defaults) ReexportQuery() string { return "" }

func (Defaults) DuplicatePolicy() langprofile.DuplicatePolicy { return langprofile.PreserveAll }

func (Defaults) BodyPlaceholder() langprofile.BodyKind { return langprofile.BraceBody }

func (Defaults) NormalizeFQN(raw string) string { return NormalizeFQN(raw) }

func (Defaults) PostProcess(decls []rawdecl.Record) []rawdecl.Record { return decls }

// TrimImportClause strips a leading keyword ("import", "using",
// "use", ...), surrounding quotes, and a trailing statement terminator
// from one captured import statement, the shared first step of most
// profiles' ResolveImport.
func TrimImportClause(stmt string, keywords ...string) string {
	s := strings.TrimSpace(stmt)
	for _, kw := range keywords {
		if strings.HasPrefix(s, kw+" ") {
			s = strings.TrimSpace(strings.TrimPrefix(s, kw+" "))
			break
		}
	}
	s = strings.TrimSuffix(s, ";")
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`+"`")
	return s
}

// StripParamNames reduces a raw parameter list literal like
// "(int a, const char *name)" to its type-only form "(int,constchar*)"
// (whitespace inside a type is removed),
// the shape C++ function shortNames embed.
func StripParamNames(params string) string {
	inner := strings.TrimSpace(params)
	inner = strings.TrimPrefix(inner, "(")
	inner = strings.TrimSuffix(inner, ")")
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return "()"
	}

	parts := strings.Split(inner, ",")
	types := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		// Drop the trailing identifier; pointer/reference markers stay
		// with the type.
		if idx := strings.LastIndexAny(p, " \t*&"); idx >= 0 {
			tail := p[idx+1:]
			if isIdentifier(tail) {
				p = strings.TrimSpace(p[:idx+1])
			}
		}
		p = strings.ReplaceAll(p, " ", "")
		types = append(types, p)
	}
	return "(" + strings.Join(types, ",") + ")"
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
