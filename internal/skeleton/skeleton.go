// Package skeleton reconstructs a nested, signature-only rendering of
// a file's declarations from captured CodeUnits. Function bodies are
// replaced by a per-language placeholder and children are rendered
// recursively in capture order.
package skeleton

import (
	"fmt"
	"strings"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/langprofile"
)

const indentUnit = "    "

// BodyFormat is the narrow slice of langprofile.Profile the renderer
// needs: which placeholder token a language uses for an omitted body.
// langprofile.Profile implementations satisfy this automatically.
type BodyFormat interface {
	BodyPlaceholder() langprofile.BodyKind
}

// ChildrenFunc resolves a CodeUnit's direct children, in capture
// order — normally symbolindex.Index.Children.
type ChildrenFunc func(parent codeunit.CodeUnit) []codeunit.CodeUnit

// Render builds the full, nested skeleton of unit and everything
// beneath it. Imports and comments are never part of the output;
// child ordering matches capture order.
func Render(profile BodyFormat, unit codeunit.CodeUnit, children ChildrenFunc) string {
	var b strings.Builder
	renderUnit(&b, profile, unit, children, 0, false)
	return strings.TrimRight(b.String(), "\n")
}

// RenderHeader renders only unit's header: a single body-placeholder
// line stands in for the entire body, and only field children are
// shown (no methods) — getSkeletonHeader.
func RenderHeader(profile BodyFormat, unit codeunit.CodeUnit, children ChildrenFunc) string {
	var b strings.Builder
	renderUnit(&b, profile, unit, children, 0, true)
	return strings.TrimRight(b.String(), "\n")
}

func renderUnit(b *strings.Builder, profile BodyFormat, unit codeunit.CodeUnit, children ChildrenFunc, depth int, headerOnly bool) {
	indent := strings.Repeat(indentUnit, depth)

	switch unit.Kind() {
	case codeunit.Function:
		renderFunctionGroup(b, profile, indent, []codeunit.CodeUnit{unit})
	case codeunit.Field:
		renderField(b, indent, unit)
	default: // Class, Module
		renderContainer(b, profile, unit, children, depth, headerOnly)
	}
}

func renderContainer(b *strings.Builder, profile BodyFormat, unit codeunit.CodeUnit, children ChildrenFunc, depth int, headerOnly bool) {
	indent := strings.Repeat(indentUnit, depth)
	keyword := "class"
	if unit.IsModule() {
		keyword = "module"
	}

	switch profile.BodyPlaceholder() {
	case langprofile.ColonBody:
		fmt.Fprintf(b, "%s%s %s:\n", indent, keyword, unit.UILabel())
	default:
		fmt.Fprintf(b, "%s%s %s {\n", indent, keyword, unit.UILabel())
	}

	if headerOnly {
		childIndent := strings.Repeat(indentUnit, depth+1)
		for _, c := range children(unit) {
			if c.IsField() {
				renderField(b, childIndent, c)
			}
		}
		fmt.Fprintf(b, "%s[...]\n", strings.Repeat(indentUnit, depth+1))
	} else {
		renderChildren(b, profile, unit, children, depth+1)
	}

	if profile.BodyPlaceholder() != langprofile.ColonBody {
		fmt.Fprintf(b, "%s}\n", indent)
	}
}

// renderChildren groups every overload of the same function FQN among
// a parent's children, adjacent or not, into a single signature block
// at the position of the first one, so "method2(String)" and
// "method2(String,int)" render as two signature lines followed by one
// implementation placeholder, not two separate bodies.
func renderChildren(b *strings.Builder, profile BodyFormat, parent codeunit.CodeUnit, children ChildrenFunc, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	kids := children(parent)

	rendered := map[string]bool{}
	for i, c := range kids {
		if rendered[c.Key()] {
			continue
		}
		switch c.Kind() {
		case codeunit.Field:
			renderField(b, indent, c)
			rendered[c.Key()] = true
		case codeunit.Function:
			group := []codeunit.CodeUnit{c}
			for _, other := range kids[i+1:] {
				if other.FQName() == c.FQName() && other.Kind() == codeunit.Function {
					group = append(group, other)
				}
			}
			for _, g := range group {
				rendered[g.Key()] = true
			}
			renderFunctionGroup(b, profile, indent, group)
		default: // nested Class/Module
			renderContainer(b, profile, c, children, depth, false)
			rendered[c.Key()] = true
		}
	}
}

// renderFunctionGroup renders one line per overload signature, with
// the body-placeholder attached inline on the last line only — the
// earlier signatures are declaration-only lines: one signature per
// line plus the implementation once.
func renderFunctionGroup(b *strings.Builder, profile BodyFormat, indent string, overloads []codeunit.CodeUnit) {
	for i, o := range overloads {
		sig, _ := o.Signature().Value()
		last := i == len(overloads)-1

		switch profile.BodyPlaceholder() {
		case langprofile.ColonBody:
			if last {
				fmt.Fprintf(b, "%sdef %s%s: ...\n", indent, o.UILabel(), sig)
			} else {
				fmt.Fprintf(b, "%sdef %s%s\n", indent, o.UILabel(), sig)
			}
		default:
			if last {
				fmt.Fprintf(b, "%s%s%s {...}\n", indent, o.UILabel(), sig)
			} else {
				fmt.Fprintf(b, "%s%s%s;\n", indent, o.UILabel(), sig)
			}
		}
	}
}

func renderField(b *strings.Builder, indent string, unit codeunit.CodeUnit) {
	fmt.Fprintf(b, "%s%s;\n", indent, unit.UILabel())
}
