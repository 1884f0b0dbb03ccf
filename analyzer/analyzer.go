// Package analyzer exposes the public analyzer API: structural
// queries over a project's symbol index, skeleton and source
// reconstruction, call-receiver extraction, type inference, and
// incremental update. All read operations return empty results for
// unknown or unsupported inputs; they never fail on bad input.
package analyzer

import (
	"context"
	"os"
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/appconfig"
	"github.com/oxhq/codescope/internal/extractor"
	"github.com/oxhq/codescope/internal/langprofile"
	"github.com/oxhq/codescope/internal/parsecache"
	"github.com/oxhq/codescope/internal/skeleton"
	"github.com/oxhq/codescope/internal/stateio"
	"github.com/oxhq/codescope/internal/symbolindex"
	"github.com/oxhq/codescope/internal/telemetry"
	"github.com/oxhq/codescope/internal/typeinfer"
	"github.com/oxhq/codescope/internal/update"
	"github.com/oxhq/codescope/providers/catalog"
	"github.com/oxhq/codescope/signature"
	"github.com/oxhq/codescope/sourcetext"
)

// Analyzer is the passively shared engine facade: many concurrent
// readers, one logical writer driving Update. Snapshots are
// immutable; every query reads one consistent snapshot for its whole
// duration.
type Analyzer struct {
	project    Project
	registry   *langprofile.Registry
	cache      *parsecache.Cache
	controller *update.Controller
	config     *appconfig.Config
}

// New builds an Analyzer over project with every built-in language
// profile registered. No files are read until the first Update.
func New(project Project) *Analyzer {
	cfg := appconfig.LoadConfig()
	telemetry.Configure(cfg.LogLevel)

	registry := catalog.NewRegistry()
	cache := parsecache.NewWithTTL(time.Duration(cfg.ParseCacheTTLMs) * time.Millisecond)
	controller := update.New(registry, cache)
	controller.SetParallelism(cfg.ParseWorkers)
	return &Analyzer{
		project:    project,
		registry:   registry,
		cache:      cache,
		controller: controller,
		config:     cfg,
	}
}

func (a *Analyzer) snapshot() *symbolindex.Index { return a.controller.Current() }

// Registry exposes the language profile registry, for collaborators
// that need extension/alias resolution (the CLI, the project scanner).
func (a *Analyzer) Registry() *langprofile.Registry { return a.registry }

// --- declaration lookups ---

// GetDeclarations returns every declaration anywhere in file.
func (a *Analyzer) GetDeclarations(file string) []codeunit.CodeUnit {
	return a.snapshot().Declarations(file)
}

// GetTopLevelDeclarations returns file's top-level declarations in
// capture order. A non-existent or non-supported file yields empty.
func (a *Analyzer) GetTopLevelDeclarations(file string) []codeunit.CodeUnit {
	return a.snapshot().TopLevelDeclarations(file)
}

// GetAllDeclarations returns every declaration in the project,
// deduplicated.
func (a *Analyzer) GetAllDeclarations() []codeunit.CodeUnit {
	return a.snapshot().AllDeclarations()
}

// GetDefinitions returns every CodeUnit with exactly the given FQN —
// all overloads, for a function name.
func (a *Analyzer) GetDefinitions(fqName string) []codeunit.CodeUnit {
	return a.snapshot().Definitions(fqName)
}

// GetFunctionDefinition returns the overload of fqName matching sig
// exactly when a non-None sig is supplied and such an overload exists;
// otherwise any overload of that FQN. False when the symbol is not a
// function.
func (a *Analyzer) GetFunctionDefinition(fqName string, sig signature.Signature) (codeunit.CodeUnit, bool) {
	var fallback codeunit.CodeUnit
	found := false
	for _, u := range a.snapshot().Definitions(fqName) {
		if !u.IsFunction() {
			continue
		}
		if !sig.IsNone() && u.Signature() == sig {
			return u, true
		}
		if !found {
			fallback, found = u, true
		}
	}
	return fallback, found
}

// AutocompleteDefinitions returns every declaration whose simple
// identifier contains prefix case-insensitively, preserving distinct
// overloads.
func (a *Analyzer) AutocompleteDefinitions(prefix string) []codeunit.CodeUnit {
	return a.snapshot().Autocomplete(prefix)
}

// SearchDefinitions returns every declaration whose FQN contains
// pattern case-insensitively.
func (a *Analyzer) SearchDefinitions(pattern string) []codeunit.CodeUnit {
	needle := strings.ToLower(pattern)
	var out []codeunit.CodeUnit
	for _, u := range a.snapshot().AllDeclarations() {
		if strings.Contains(strings.ToLower(u.FQName()), needle) {
			out = append(out, u)
		}
	}
	return out
}

// SignaturesOf returns the signatures of every overload sharing unit's
// FQN.
func (a *Analyzer) SignaturesOf(unit codeunit.CodeUnit) []signature.Signature {
	var out []signature.Signature
	for _, u := range a.snapshot().Definitions(unit.FQName()) {
		if u.IsFunction() {
			out = append(out, u.Signature())
		}
	}
	return out
}

// --- skeletons ---

// GetSkeleton reconstructs the signature-only rendering of fqName's
// top-level ancestor: requesting a nested unit returns the full
// reconstruction of the declaration that encloses it.
func (a *Analyzer) GetSkeleton(fqName string) (string, bool) {
	idx := a.snapshot()
	units := idx.Definitions(fqName)
	if len(units) == 0 {
		return "", false
	}
	unit := idx.TopLevelAncestor(units[0])
	profile, ok := a.profileForUnit(unit)
	if !ok {
		return "", false
	}
	return skeleton.Render(profile, unit, idx.Children), true
}

// GetSkeletons renders the skeleton of each top-level declaration in
// file, keyed by the declaration.
func (a *Analyzer) GetSkeletons(file string) map[codeunit.CodeUnit]string {
	idx := a.snapshot()
	profile, ok := a.registry.ForFile(file)
	if !ok {
		return map[codeunit.CodeUnit]string{}
	}
	out := map[codeunit.CodeUnit]string{}
	for _, u := range idx.TopLevelDeclarations(file) {
		out[u] = skeleton.Render(profile, u, idx.Children)
	}
	return out
}

// GetSkeletonHeader renders only the header of a class or module, a
// single "[...]" standing in for the body; fields appear, methods do
// not.
func (a *Analyzer) GetSkeletonHeader(fqName string) (string, bool) {
	idx := a.snapshot()
	for _, u := range idx.Definitions(fqName) {
		if !u.IsClass() && !u.IsModule() {
			continue
		}
		profile, ok := a.profileForUnit(u)
		if !ok {
			return "", false
		}
		return skeleton.RenderHeader(profile, u, idx.Children), true
	}
	return "", false
}

// --- source extraction ---

// GetClassSource returns the byte-accurate source of the class or
// module named fqName, optionally extended to its contiguous leading
// comment.
func (a *Analyzer) GetClassSource(fqName string, includeLeadingComments bool) (string, bool) {
	idx := a.snapshot()
	for _, u := range idx.Definitions(fqName) {
		if !u.IsClass() && !u.IsModule() {
			continue
		}
		source, ok := a.sourceOfUnit(u)
		if !ok {
			return "", false
		}
		return extractor.Source(source, u, a.metaLookup(idx), includeLeadingComments)
	}
	return "", false
}

// GetMethodSource returns the source of the function named fqName. For
// overloaded functions every overload's text is concatenated with the
// language's statement terminator.
func (a *Analyzer) GetMethodSource(fqName string, includeLeadingComments bool) (string, bool) {
	idx := a.snapshot()
	var overloads []codeunit.CodeUnit
	for _, u := range idx.Definitions(fqName) {
		if u.IsFunction() {
			overloads = append(overloads, u)
		}
	}
	if len(overloads) == 0 {
		return "", false
	}
	source, ok := a.sourceOfUnit(overloads[0])
	if !ok {
		return "", false
	}
	profile, _ := a.profileForUnit(overloads[0])
	return extractor.MethodSource(source, overloads, a.metaLookup(idx), includeLeadingComments, terminatorOf(profile))
}

// GetMethodSources returns the rendered source of each overload of
// unit's FQN individually, as a set.
func (a *Analyzer) GetMethodSources(unit codeunit.CodeUnit, includeLeadingComments bool) map[string]struct{} {
	idx := a.snapshot()
	var overloads []codeunit.CodeUnit
	for _, u := range idx.Definitions(unit.FQName()) {
		if u.IsFunction() {
			overloads = append(overloads, u)
		}
	}
	if len(overloads) == 0 {
		return map[string]struct{}{}
	}
	source, ok := a.sourceOfUnit(overloads[0])
	if !ok {
		return map[string]struct{}{}
	}
	return extractor.MethodSources(source, overloads, a.metaLookup(idx), includeLeadingComments)
}

// --- structural traversal ---

// GetDirectChildren returns unit's direct children in capture order.
func (a *Analyzer) GetDirectChildren(unit codeunit.CodeUnit) []codeunit.CodeUnit {
	return a.snapshot().Children(unit)
}

// GetDirectAncestors resolves unit's declared base types.
func (a *Analyzer) GetDirectAncestors(unit codeunit.CodeUnit) []codeunit.CodeUnit {
	return a.snapshot().DirectAncestors(unit)
}

// GetAncestors returns the transitive ancestor set of unit.
func (a *Analyzer) GetAncestors(unit codeunit.CodeUnit) []codeunit.CodeUnit {
	return a.snapshot().Ancestors(unit)
}

// --- expression-level queries ---

// ExtractCallReceiver applies language's receiver heuristic to
// a raw member-access expression. An unknown language yields "".
func (a *Analyzer) ExtractCallReceiver(language, expression string) string {
	profile, ok := a.registry.Lookup(language)
	if !ok {
		return ""
	}
	return profile.ExtractCallReceiver(expression)
}

// GetIdentifierAt returns the longest identifier chain covering the
// byte offset in file.
func (a *Analyzer) GetIdentifierAt(file string, byteOffset int) (string, bool) {
	source, ok := a.sourceOf(file)
	if !ok {
		return "", false
	}
	return typeinfer.GetIdentifierAt(source, byteOffset)
}

// InferTypeAt resolves the expression at the byte offset to a declared
// CodeUnit.
func (a *Analyzer) InferTypeAt(file string, byteOffset int) (codeunit.CodeUnit, bool) {
	source, ok := a.sourceOf(file)
	if !ok {
		return codeunit.CodeUnit{}, false
	}
	return typeinfer.InferTypeAt(a.snapshot(), source, file, byteOffset)
}

// --- file properties ---

// GetReexports returns file's structured re-export records.
func (a *Analyzer) GetReexports(file string) []symbolindex.ReexportInfo {
	props := a.snapshot().FileProperties(file)
	if props == nil {
		return nil
	}
	return props.Reexports
}

// ImportedCodeUnitsOf returns file's resolved imports.
func (a *Analyzer) ImportedCodeUnitsOf(file string) []codeunit.CodeUnit {
	return a.snapshot().FileProperties(file).Imported()
}

// ImportsOf returns file's raw import statement strings.
func (a *Analyzer) ImportsOf(file string) []string {
	props := a.snapshot().FileProperties(file)
	if props == nil {
		return nil
	}
	return props.Imports
}

// --- update & persistence ---

// Update re-analyzes changedFiles (or, with none given, every file the
// project enumerates), atomically publishing the new snapshot.
// The returned Analyzer serves the updated view; it is the same
// underlying engine, since snapshots are swapped, not analyzers.
func (a *Analyzer) Update(ctx context.Context, changedFiles ...string) (*Analyzer, update.Delta, error) {
	files := changedFiles
	if len(files) == 0 {
		enumerated, err := a.project.Files(ctx)
		if err != nil {
			return a, update.Delta{}, err
		}
		files = enumerated
	} else {
		files = a.withUntouchedFiles(files)
	}

	_, delta, err := a.controller.Update(ctx, files)
	return a, delta, err
}

// withUntouchedFiles widens an explicit changed-file list with every
// file already indexed, so re-analyzing one file never drops the rest
// of the project from the rebuilt snapshot. Unsupported files are
// filtered here at the boundary.
func (a *Analyzer) withUntouchedFiles(changed []string) []string {
	seen := map[string]bool{}
	var files []string
	for _, f := range changed {
		if _, ok := a.registry.ForFile(f); !ok {
			continue
		}
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	for _, f := range a.snapshot().Files() {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	return files
}

// SaveState persists the current snapshot to the project's state
// file. Parse trees and SourceContent are never persisted.
func (a *Analyzer) SaveState() error {
	store, err := stateio.Open(stateio.PathFor(a.project.Root()))
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(a.snapshot())
}

// LoadState restores the most recent persisted snapshot, if a
// compatible one exists. Queries serve the restored view immediately;
// parse trees are rebuilt lazily on first access.
func (a *Analyzer) LoadState() (bool, error) {
	store, err := stateio.Open(stateio.PathFor(a.project.Root()))
	if err != nil {
		return false, err
	}
	defer store.Close()

	idx, ok, err := store.Load()
	if err != nil || !ok {
		return false, err
	}
	a.controller.Publish(idx)
	return true, nil
}

// --- helpers ---

func (a *Analyzer) profileForUnit(unit codeunit.CodeUnit) (langprofile.Profile, bool) {
	src := unit.Source()
	if src == nil {
		return nil, false
	}
	return a.registry.ForFile(*src)
}

func (a *Analyzer) sourceOfUnit(unit codeunit.CodeUnit) (*sourcetext.SourceContent, bool) {
	src := unit.Source()
	if src == nil {
		return nil, false
	}
	return a.sourceOf(*src)
}

// sourceOf reads and (via the parse cache) parses file, returning its
// SourceContent. A cache hit skips the parse; a miss — including the
// first access after a state reload — re-parses transparently.
func (a *Analyzer) sourceOf(file string) (*sourcetext.SourceContent, bool) {
	profile, ok := a.registry.ForFile(file)
	if !ok {
		return nil, false
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, false
	}
	_, source, err := a.cache.TreeOf(file, raw, func(raw []byte) (*sitter.Tree, error) {
		parser := sitter.NewParser()
		parser.SetLanguage(profile.Grammar())
		return parser.ParseCtx(context.Background(), nil, raw)
	})
	if err != nil {
		telemetry.Warn("analyzer", file, profile.Language(), err)
		return nil, false
	}
	return source, true
}

func (a *Analyzer) metaLookup(idx *symbolindex.Index) extractor.MetaLookup {
	return func(unit codeunit.CodeUnit) (extractor.Meta, bool) {
		declRange, docRange, hasDoc, decorators, ok := idx.DeclMeta(unit)
		if !ok {
			return extractor.Meta{}, false
		}
		return extractor.Meta{
			DeclRange:  declRange,
			DocRange:   docRange,
			HasDoc:     hasDoc,
			Decorators: decorators,
		}, true
	}
}

// terminatorOf picks the statement terminator used when concatenating
// overload sources: ";" for brace-body languages, a newline for
// Python's colon-body form.
func terminatorOf(profile langprofile.Profile) string {
	if profile == nil {
		return ";"
	}
	if profile.BodyPlaceholder() == langprofile.ColonBody {
		return "\n"
	}
	return ";"
}
