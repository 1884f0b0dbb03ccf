// Package symbolindex maintains the four semantic maps over CodeUnits
// over declared symbols: by fully-qualified name, by
// simple identifier, by file, and parent->children. It also owns
// per-file FileProperties (imports, resolved imports, re-exports) and
// the parent-class (ancestor) relation built from captured base-type
// lists.
//
// An Index is built once by a Builder from a batch of per-file raw
// declaration records and is immutable afterwards — consistent with
// the snapshot-swap publication model: mutable global state becomes
// immutable snapshots swapped atomically. The update controller (internal/update)
// constructs a new Index per update and publishes it atomically.
package symbolindex

import (
	"strings"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/langprofile"
	"github.com/oxhq/codescope/internal/rawdecl"
	"github.com/oxhq/codescope/internal/telemetry"
	"github.com/oxhq/codescope/signature"
)

// FileProperties bundles the per-file metadata the index maintains
// alongside CodeUnits: the raw import statement list, the resolved set
// of imported CodeUnits, and (TypeScript only) structured re-export
// records.
type FileProperties struct {
	Language        string
	Imports         []string
	ResolvedImports []codeunit.CodeUnit
	Reexports       []ReexportInfo
}

// declMeta carries the source-extraction and documentation metadata a
// CodeUnit doesn't itself hold (it is an identity, not a location).
type declMeta struct {
	DeclRange  rawdecl.ByteRange
	DocRange   rawdecl.ByteRange
	HasDoc     bool
	Decorators []string
	Overloads  []rawdecl.ByteRange // extra signature ranges for overload concatenation
}

// declInfo is one reconciled declaration, prior to insertion into the
// global maps.
type declInfo struct {
	unit       codeunit.CodeUnit
	declRange  rawdecl.ByteRange
	docRange   rawdecl.ByteRange
	hasDoc     bool
	decorators []string
	baseTypes  []string
	returnType string
	parentKey  string
	order      int
}

// Index is the immutable, queryable symbol index.
type Index struct {
	byFQN        map[string][]codeunit.CodeUnit
	byIdentifier map[string][]codeunit.CodeUnit
	byFile       map[string][]codeunit.CodeUnit
	topLevel     map[string][]codeunit.CodeUnit
	children     map[string][]codeunit.CodeUnit
	parentOf     map[string]codeunit.CodeUnit
	baseTypes    map[string][]string
	returnTypes  map[string]string
	declMeta     map[string]declMeta
	fileProps    map[string]*FileProperties
	all          []codeunit.CodeUnit
}

// Empty returns a zero-declaration Index, useful as the analyzer's
// initial snapshot before the first update.
func Empty() *Index {
	return &Index{
		byFQN:        map[string][]codeunit.CodeUnit{},
		byIdentifier: map[string][]codeunit.CodeUnit{},
		byFile:       map[string][]codeunit.CodeUnit{},
		topLevel:     map[string][]codeunit.CodeUnit{},
		children:     map[string][]codeunit.CodeUnit{},
		parentOf:     map[string]codeunit.CodeUnit{},
		baseTypes:    map[string][]string{},
		returnTypes:  map[string]string{},
		declMeta:     map[string]declMeta{},
		fileProps:    map[string]*FileProperties{},
	}
}

// Builder accumulates per-file declarations into a new Index. Not safe
// for concurrent use; the update controller runs one Builder per
// update on its single logical writer.
type Builder struct {
	idx   *Index
	seen  map[string]bool
	files []string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{idx: Empty(), seen: map[string]bool{}}
}

// AddFile reconciles one file's post-capture records (after the
// language profile's PostProcess hook has run) into the builder,
// together with its FileProperties. records need not be sorted; nested
// shortNames are resolved by walking each record's ParentKey chain.
func (b *Builder) AddFile(profile langprofile.Profile, file string, records []rawdecl.Record, props *FileProperties) {
	infos := buildDeclInfos(profile, records)
	infos = applyDuplicatePolicy(profile.DuplicatePolicy(), infos)

	unitByKey := make(map[string]codeunit.CodeUnit, len(infos))
	for _, info := range infos {
		unitByKey[info.unit.Key()] = info.unit
	}

	var allInFile, topLevel []codeunit.CodeUnit
	for _, info := range infos {
		allInFile = append(allInFile, info.unit)
		key := info.unit.Key()

		if info.parentKey == "" {
			topLevel = append(topLevel, info.unit)
		} else {
			b.idx.children[info.parentKey] = append(b.idx.children[info.parentKey], info.unit)
			if parentUnit, ok := unitByKey[info.parentKey]; ok {
				b.idx.parentOf[key] = parentUnit
			}
		}

		b.idx.byFQN[info.unit.FQName()] = append(b.idx.byFQN[info.unit.FQName()], info.unit)
		b.idx.byIdentifier[info.unit.Identifier()] = append(b.idx.byIdentifier[info.unit.Identifier()], info.unit)
		b.idx.declMeta[key] = declMeta{
			DeclRange:  info.declRange,
			DocRange:   info.docRange,
			HasDoc:     info.hasDoc,
			Decorators: info.decorators,
		}
		if len(info.baseTypes) > 0 {
			b.idx.baseTypes[key] = info.baseTypes
		}
		if info.returnType != "" {
			b.idx.returnTypes[key] = info.returnType
		}
		if !b.seen[key] {
			b.seen[key] = true
			b.idx.all = append(b.idx.all, info.unit)
		}
	}

	b.idx.byFile[file] = allInFile
	b.idx.topLevel[file] = topLevel
	if props != nil {
		b.idx.fileProps[file] = props
	}
	b.files = append(b.files, file)
}

// Build finalizes and returns the Index. The Builder must not be
// reused afterwards.
func (b *Builder) Build() *Index {
	return b.idx
}

// buildDeclInfos resolves each record's nested shortName by walking its
// ParentKey chain (memoized), constructs its CodeUnit, and resolves the
// final parent identity key used by the children map.
func buildDeclInfos(profile langprofile.Profile, records []rawdecl.Record) []declInfo {
	byKey := make(map[string]*rawdecl.Record, len(records))
	for i := range records {
		byKey[records[i].Key] = &records[i]
	}

	units := map[string]codeunit.CodeUnit{}
	resolving := map[string]bool{}

	var resolve func(key string) (codeunit.CodeUnit, bool)
	resolve = func(key string) (codeunit.CodeUnit, bool) {
		if u, ok := units[key]; ok {
			return u, true
		}
		r, ok := byKey[key]
		if !ok {
			return codeunit.CodeUnit{}, false
		}
		if resolving[key] {
			// Cycle in the parent chain (should not happen from
			// byte-range containment, but guarded anyway).
			telemetry.Warn("symbolindex", r.File, profile.Language(), errCycle(key))
			return codeunit.CodeUnit{}, false
		}
		resolving[key] = true
		defer delete(resolving, key)

		shortName := r.SimpleName
		if r.ParentKey != "" {
			if parentUnit, ok := resolve(r.ParentKey); ok {
				sep := profile.MemberSeparator()
				if r.Kind == codeunit.Class {
					sep = profile.ClassSeparator()
				}
				shortName = parentUnit.ShortName() + sep + r.SimpleName
			}
		}
		shortName = profile.NormalizeFQN(shortName)

		var sig signature.Signature
		if r.Kind == codeunit.Function && r.Signature != "" {
			parsed, err := signature.Parse(r.Signature)
			if err != nil {
				telemetry.Warn("symbolindex", r.File, profile.Language(), err)
			} else {
				sig = parsed
			}
		}

		fileCopy := r.File
		u := codeunit.New(&fileCopy, r.Kind, r.PackageName, shortName, sig)
		units[key] = u
		return u, true
	}

	infos := make([]declInfo, 0, len(records))
	for i := range records {
		r := &records[i]
		u, _ := resolve(r.Key)
		parentKey := ""
		if r.ParentKey != "" {
			if pu, ok := resolve(r.ParentKey); ok {
				parentKey = pu.Key()
			}
		}
		infos = append(infos, declInfo{
			unit:       u,
			declRange:  r.DeclarationByteRange,
			docRange:   r.DocumentationByteRange,
			hasDoc:     r.HasDocumentationByteRange,
			decorators: r.DecoratorList,
			baseTypes:  r.BaseTypeList,
			returnType: r.ReturnType,
			parentKey:  parentKey,
			order:      i,
		})
	}
	return infos
}

type cycleError string

func (c cycleError) Error() string { return "parent-key cycle detected at " + string(c) }
func errCycle(key string) error    { return cycleError(key) }

// applyDuplicatePolicy reconciles sibling declarations sharing the same
// structural identity. FirstWins keeps the
// earliest; LastWins keeps the position of the first occurrence but
// its content is replaced by the latest; PreserveAll (the default for
// overloaded functions and profiles that pre-merge siblings in
// PostProcess) keeps every entry.
func applyDuplicatePolicy(policy langprofile.DuplicatePolicy, infos []declInfo) []declInfo {
	switch policy {
	case langprofile.FirstWins:
		seen := map[string]bool{}
		out := make([]declInfo, 0, len(infos))
		for _, info := range infos {
			k := info.unit.Key()
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, info)
		}
		return out
	case langprofile.LastWins:
		posOf := map[string]int{}
		out := make([]declInfo, 0, len(infos))
		for _, info := range infos {
			k := info.unit.Key()
			if pos, ok := posOf[k]; ok {
				out[pos] = info
				continue
			}
			posOf[k] = len(out)
			out = append(out, info)
		}
		return out
	default: // PreserveAll
		return infos
	}
}

// --- Queries ---

// Declarations returns every CodeUnit declared anywhere in file.
func (idx *Index) Declarations(file string) []codeunit.CodeUnit {
	return idx.byFile[file]
}

// TopLevelDeclarations returns file's top-level CodeUnits in capture
// order.
func (idx *Index) TopLevelDeclarations(file string) []codeunit.CodeUnit {
	return idx.topLevel[file]
}

// AllDeclarations returns every CodeUnit in the project, deduplicated.
func (idx *Index) AllDeclarations() []codeunit.CodeUnit {
	return idx.all
}

// Definitions returns every CodeUnit with the given exact FQN (all
// overloads for a function).
func (idx *Index) Definitions(fqName string) []codeunit.CodeUnit {
	return idx.byFQN[fqName]
}

// ByIdentifier returns every CodeUnit whose simple identifier matches
// exactly.
func (idx *Index) ByIdentifier(identifier string) []codeunit.CodeUnit {
	return idx.byIdentifier[identifier]
}

// Autocomplete returns every CodeUnit whose simple identifier contains
// prefix as a case-insensitive substring, preserving distinct
// overloads.
func (idx *Index) Autocomplete(prefix string) []codeunit.CodeUnit {
	needle := strings.ToLower(prefix)
	var out []codeunit.CodeUnit
	seen := map[string]bool{}
	for ident, units := range idx.byIdentifier {
		if !strings.Contains(strings.ToLower(ident), needle) {
			continue
		}
		for _, u := range units {
			if seen[u.Key()] {
				continue
			}
			seen[u.Key()] = true
			out = append(out, u)
		}
	}
	return out
}

// Children returns the direct children of parent, in capture order.
func (idx *Index) Children(parent codeunit.CodeUnit) []codeunit.CodeUnit {
	return idx.children[parent.Key()]
}

// Parent returns unit's direct enclosing declaration, if any.
func (idx *Index) Parent(unit codeunit.CodeUnit) (codeunit.CodeUnit, bool) {
	p, ok := idx.parentOf[unit.Key()]
	return p, ok
}

// TopLevelAncestor walks Parent until reaching a unit with no parent,
// returning that root declaration. A unit with no parent is its own
// top-level ancestor.
func (idx *Index) TopLevelAncestor(unit codeunit.CodeUnit) codeunit.CodeUnit {
	cur := unit
	for {
		p, ok := idx.parentOf[cur.Key()]
		if !ok {
			return cur
		}
		cur = p
	}
}

// DeclMeta exposes the extraction metadata for unit: declaration byte
// range, optional leading-documentation range, and decorator texts.
func (idx *Index) DeclMeta(unit codeunit.CodeUnit) (declRange, docRange rawdecl.ByteRange, hasDoc bool, decorators []string, ok bool) {
	m, ok := idx.declMeta[unit.Key()]
	if !ok {
		return rawdecl.ByteRange{}, rawdecl.ByteRange{}, false, nil, false
	}
	return m.DeclRange, m.DocRange, m.HasDoc, m.Decorators, true
}

// FileProperties returns the stored import/resolved-import/re-export
// metadata for file, or nil if the file is unknown.
func (idx *Index) FileProperties(file string) *FileProperties {
	return idx.fileProps[file]
}

// Imported returns the file's resolved imports, or nil for a nil
// *FileProperties (e.g. an unknown file), so callers can chain
// idx.FileProperties(file).Imported() without a nil check.
func (p *FileProperties) Imported() []codeunit.CodeUnit {
	if p == nil {
		return nil
	}
	return p.ResolvedImports
}

// BaseTypes returns the raw base-type simple names captured for unit
//, before cross-file resolution.
func (idx *Index) BaseTypes(unit codeunit.CodeUnit) []string {
	return idx.baseTypes[unit.Key()]
}

// ReturnType returns the raw return-type name captured for a function
// unit, or "" if none was captured.
func (idx *Index) ReturnType(unit codeunit.CodeUnit) string {
	return idx.returnTypes[unit.Key()]
}

// EnclosingDeclarations returns every declaration in file whose
// DeclMeta byte range contains offset, used by the type inference
// engine to find the tightest enclosing class/method.
func (idx *Index) EnclosingDeclarations(file string, offset int) []codeunit.CodeUnit {
	var out []codeunit.CodeUnit
	for _, u := range idx.byFile[file] {
		m, ok := idx.declMeta[u.Key()]
		if !ok {
			continue
		}
		if m.DeclRange.Start <= offset && offset < m.DeclRange.End {
			out = append(out, u)
		}
	}
	return out
}

// PersistedUnit is the flat shape internal/stateio persists and reloads
// one CodeUnit's identity and structural metadata from. Byte
// ranges and the parent link are already resolved by the time a unit is
// persisted, so reconstruction bypasses the capture/Builder pipeline
// entirely (no profile, no rawdecl.Record, no NormalizeFQN re-run).
type PersistedUnit struct {
	Unit       codeunit.CodeUnit
	ParentKey  string // Key() of this unit's parent, or "" for top-level
	DeclRange  rawdecl.ByteRange
	DocRange   rawdecl.ByteRange
	HasDoc     bool
	BaseTypes  []string
	ReturnType string
}

// Rehydrate rebuilds an Index directly from previously-persisted units
// and file properties, the inverse of what Builder.AddFile does from
// fresh captures. Units whose ParentKey does not resolve to another
// unit in the same batch are treated as top-level, matching the
// best-effort parent resolution Builder itself already applies.
func Rehydrate(units []PersistedUnit, fileProps map[string]*FileProperties) *Index {
	idx := Empty()

	unitByKey := make(map[string]codeunit.CodeUnit, len(units))
	for _, pu := range units {
		unitByKey[pu.Unit.Key()] = pu.Unit
	}

	seen := map[string]bool{}
	for _, pu := range units {
		key := pu.Unit.Key()
		file := ""
		if s := pu.Unit.Source(); s != nil {
			file = *s
		}

		idx.byFile[file] = append(idx.byFile[file], pu.Unit)
		idx.byFQN[pu.Unit.FQName()] = append(idx.byFQN[pu.Unit.FQName()], pu.Unit)
		idx.byIdentifier[pu.Unit.Identifier()] = append(idx.byIdentifier[pu.Unit.Identifier()], pu.Unit)
		idx.declMeta[key] = declMeta{DeclRange: pu.DeclRange, DocRange: pu.DocRange, HasDoc: pu.HasDoc}
		if len(pu.BaseTypes) > 0 {
			idx.baseTypes[key] = pu.BaseTypes
		}
		if pu.ReturnType != "" {
			idx.returnTypes[key] = pu.ReturnType
		}

		if parentUnit, ok := unitByKey[pu.ParentKey]; pu.ParentKey != "" && ok {
			idx.children[pu.ParentKey] = append(idx.children[pu.ParentKey], pu.Unit)
			idx.parentOf[key] = parentUnit
		} else {
			idx.topLevel[file] = append(idx.topLevel[file], pu.Unit)
		}

		if !seen[key] {
			seen[key] = true
			idx.all = append(idx.all, pu.Unit)
		}
	}

	for f, props := range fileProps {
		idx.fileProps[f] = props
	}
	return idx
}

// Files returns every file the index holds an entry for, for
// diagnostics and state persistence: each file added through the
// Builder (including one with no declarations) or, for a rehydrated
// index, each file with at least one persisted unit.
func (idx *Index) Files() []string {
	out := make([]string, 0, len(idx.byFile))
	for f := range idx.byFile {
		out = append(out, f)
	}
	return out
}
