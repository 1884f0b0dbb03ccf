// Package callreceiver implements extractCallReceiver: a
// collection of per-language heuristics over raw expression strings,
// expressed as one compiled rule table per language rather than
// ad-hoc inline patterns.
package callreceiver

import (
	"regexp"
	"strings"
)

// Language tags understood by Extract.
const (
	Java       = "java"
	Scala      = "scala"
	Python     = "python"
	Go         = "go"
	Cpp        = "cpp"
	Rust       = "rust"
	PHP        = "php"
	TypeScript = "typescript"
	JavaScript = "javascript"
	CSharp     = "csharp"
)

var (
	genericArgs   = regexp.MustCompile(`<[^<>]*>`)
	bracketAccess = regexp.MustCompile(`\[[^\[\]]*\]`)
	pascalCase    = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)
)

// Extract returns the receiver segment of a member-access expression
// for the given language tag, or "" if no receiver applies.
func Extract(language, expression string) string {
	expr := strings.TrimSpace(expression)
	if expr == "" {
		return ""
	}

	switch language {
	case Java:
		return dottedReceiver(expr, true)
	case Scala, Python, Go:
		return dottedReceiver(expr, false)
	case Cpp, Rust:
		return scopedReceiver(expr)
	case PHP:
		return phpReceiver(expr)
	case TypeScript, JavaScript:
		return jsReceiver(expr)
	case CSharp:
		return csharpReceiver(expr)
	default:
		return ""
	}
}

// dottedReceiver returns the longest dotted prefix before the last ".".
// When requireUppercase is true (Java), the first simple-name segment
// must start with an uppercase ASCII letter. A call expression's
// argument list ("GitRepo.sanitizeBranchName(...)") is cut at the first
// "(" so dots inside the arguments never shift the receiver/member
// split.
func dottedReceiver(expr string, requireUppercase bool) string {
	if paren := strings.IndexByte(expr, '('); paren >= 0 {
		expr = expr[:paren]
	}
	idx := strings.LastIndex(expr, ".")
	if idx <= 0 {
		return ""
	}
	receiver := expr[:idx]
	if !requireUppercase {
		return receiver
	}
	first := receiver
	if dot := strings.Index(receiver, "."); dot >= 0 {
		first = receiver[:dot]
	}
	if first == "" || !isUpperASCII(first[0]) {
		return ""
	}
	return receiver
}

func isUpperASCII(b byte) bool { return b >= 'A' && b <= 'Z' }

// scopedReceiver returns the text before the last "::" (C++/Rust).
// Templated scopes are unsupported and yield empty.
func scopedReceiver(expr string) string {
	idx := strings.LastIndex(expr, "::")
	if idx <= 0 {
		return ""
	}
	receiver := expr[:idx]
	if strings.ContainsAny(receiver, "<>") {
		return ""
	}
	return receiver
}

// phpReceiver implements PHP's "::"/"->" boundary rule, keeping the
// leading "$" on variable receivers and conservatively returning empty
// for chained instance calls.
func phpReceiver(expr string) string {
	staticIdx := strings.LastIndex(expr, "::")
	arrowIdx := strings.LastIndex(expr, "->")

	if strings.Count(expr, "->") > 1 {
		return ""
	}
	if arrowIdx < 0 && staticIdx < 0 {
		return ""
	}

	var idx int
	if arrowIdx > staticIdx {
		idx = arrowIdx
	} else {
		idx = staticIdx
	}
	if idx <= 0 {
		return ""
	}
	return expr[:idx]
}

// jsReceiver strips generic arguments and bracket access, then selects
// the last PascalCase segment before the final ".". Bare PascalCase
// names resolve to themselves; lowercase built-ins do not.
func jsReceiver(expr string) string {
	cleaned := genericArgs.ReplaceAllString(expr, "")
	cleaned = bracketAccess.ReplaceAllString(cleaned, "")

	idx := strings.LastIndex(cleaned, ".")
	if idx < 0 {
		if pascalCase.MatchString(cleaned) {
			return cleaned
		}
		return ""
	}
	receiver := cleaned[:idx]

	segments := strings.Split(receiver, ".")
	for i := len(segments) - 1; i >= 0; i-- {
		if pascalCase.MatchString(segments[i]) {
			return segments[i]
		}
	}
	return ""
}

// csharpReceiver requires both receiver and member to be PascalCase,
// after stripping generics.
func csharpReceiver(expr string) string {
	cleaned := genericArgs.ReplaceAllString(expr, "")

	idx := strings.LastIndex(cleaned, ".")
	if idx <= 0 {
		return ""
	}
	receiver, member := cleaned[:idx], cleaned[idx+1:]

	if !pascalCase.MatchString(receiver) || !pascalCase.MatchString(member) {
		return ""
	}
	return receiver
}
