// Package codeunit defines CodeUnit, the immutable identity of one
// declared symbol (class, function, field, or module) produced by the
// capture pipeline and held in the symbol index.
package codeunit

import (
	"fmt"
	"strings"

	"github.com/oxhq/codescope/signature"
)

// Kind classifies a declared symbol.
type Kind int

const (
	Class Kind = iota
	Function
	Field
	Module
)

func (k Kind) String() string {
	switch k {
	case Class:
		return "CLASS"
	case Function:
		return "FUNCTION"
	case Field:
		return "FIELD"
	case Module:
		return "MODULE"
	default:
		return "UNKNOWN"
	}
}

// separators lists every class/member separator used across the
// supported languages' naming conventions: Python/Java/C#/Go/Scala
// use ".", nested Python classes use "$", C++/Rust use "::", PHP
// static members use "::" and instance members "->".
var separators = []string{"::", "->", "$", "."}

// CodeUnit is the identity of one declared symbol. Two CodeUnits are
// equal iff they are structurally equal over (source, kind,
// packageName, shortName, signature) — invariant I5.
type CodeUnit struct {
	source      *string
	kind        Kind
	packageName string
	shortName   string
	sig         signature.Signature
}

// New constructs a CodeUnit. shortName is preserved verbatim — never
// re-split, even if it contains '.' or '$' (invariant I6). sig must be
// signature.None for everything but Function.
func New(source *string, kind Kind, packageName, shortName string, sig signature.Signature) CodeUnit {
	return CodeUnit{
		source:      source,
		kind:        kind,
		packageName: packageName,
		shortName:   shortName,
		sig:         sig,
	}
}

// Source returns the file containing the declaration, or nil for a
// UI-only synthetic unit.
func (c CodeUnit) Source() *string { return c.source }

// Kind returns the symbol kind.
func (c CodeUnit) Kind() Kind { return c.kind }

// PackageName returns the enclosing package/namespace, possibly empty.
func (c CodeUnit) PackageName() string { return c.packageName }

// ShortName returns the in-file identifier path, verbatim.
func (c CodeUnit) ShortName() string { return c.shortName }

// Signature returns the parameter signature, always None outside Function.
func (c CodeUnit) Signature() signature.Signature { return c.sig }

func (c CodeUnit) IsClass() bool    { return c.kind == Class }
func (c CodeUnit) IsFunction() bool { return c.kind == Function }
func (c CodeUnit) IsField() bool    { return c.kind == Field }
func (c CodeUnit) IsModule() bool   { return c.kind == Module }

// FQName returns packageName + "." + shortName when packageName is
// non-empty and shortName does not already contain it; otherwise
// shortName verbatim.
func (c CodeUnit) FQName() string {
	if c.packageName == "" {
		return c.shortName
	}
	if strings.Contains(c.shortName, c.packageName) {
		return c.shortName
	}
	return c.packageName + "." + c.shortName
}

// Identifier returns the substring of shortName after the last
// class/member separator (invariant I7).
func (c CodeUnit) Identifier() string {
	cut := -1
	cutLen := 0
	for _, sep := range separators {
		if idx := strings.LastIndex(c.shortName, sep); idx > cut {
			cut = idx
			cutLen = len(sep)
		}
	}
	if cut < 0 {
		return c.shortName
	}
	return c.shortName[cut+cutLen:]
}

// UILabel returns shortName for CLASS/MODULE and Identifier() for
// FUNCTION/FIELD (invariant I7).
func (c CodeUnit) UILabel() string {
	switch c.kind {
	case Class, Module:
		return c.shortName
	default:
		return c.Identifier()
	}
}

// Equals reports structural equality over (source, kind, packageName,
// shortName, signature) — invariant I5. Two functions sharing an
// fqName but differing in signature are distinct, preserving overloads.
func (c CodeUnit) Equals(other CodeUnit) bool {
	return c.sourceKey() == other.sourceKey() &&
		c.kind == other.kind &&
		c.packageName == other.packageName &&
		c.shortName == other.shortName &&
		c.sig == other.sig
}

func (c CodeUnit) sourceKey() string {
	if c.source == nil {
		return ""
	}
	return *c.source
}

// Key returns a stable string identity usable as a map key, encoding
// the same fields as Equals so that two structurally-equal CodeUnits
// hash to the same key even when constructed independently.
func (c CodeUnit) Key() string {
	return fmt.Sprintf("%s\x00%s\x00%s\x00%s\x00%s", c.sourceKey(), c.kind, c.packageName, c.shortName, c.sig.String())
}

func (c CodeUnit) String() string {
	return fmt.Sprintf("%s %s%s", c.kind, c.FQName(), c.sig.String())
}
