// Package update implements the update controller: it computes a file
// delta against the last-known content hashes, re-parses and
// re-captures the changed files, and republishes a brand-new
// symbolindex.Index atomically. One logical writer runs updates; any
// number of readers keep serving the previous snapshot until the swap.
package update

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/codescope/internal/capture"
	"github.com/oxhq/codescope/internal/importresolve"
	"github.com/oxhq/codescope/internal/langprofile"
	"github.com/oxhq/codescope/internal/parsecache"
	"github.com/oxhq/codescope/internal/rawdecl"
	"github.com/oxhq/codescope/internal/symbolindex"
	"github.com/oxhq/codescope/internal/telemetry"
	"github.com/oxhq/codescope/sourcetext"
)

// Delta reports how one update call classified the project's files
// relative to the previous snapshot.
type Delta struct {
	Added    []string
	Modified []string
	Deleted  []string
	Unchanged []string
}

// Empty reports whether the delta touches no files.
func (d Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Modified) == 0 && len(d.Deleted) == 0
}

// Controller owns the project's live symbol index and republishes a
// new immutable snapshot on every Update call. The zero value is not
// usable; construct with New.
type Controller struct {
	registry *langprofile.Registry
	cache    *parsecache.Cache

	current atomic.Pointer[symbolindex.Index]

	mu        sync.Mutex // guards hashes, serializes Update (single logical writer)
	hashes    map[string]string
	languages map[string]string

	workers int // per-file parallelism; <= 0 means NumCPU
}

// New returns a Controller with an empty initial snapshot.
func New(registry *langprofile.Registry, cache *parsecache.Cache) *Controller {
	c := &Controller{
		registry:  registry,
		cache:     cache,
		hashes:    map[string]string{},
		languages: map[string]string{},
	}
	c.current.Store(symbolindex.Empty())
	return c
}

// Current returns the latest published snapshot. Safe to call
// concurrently with Update.
func (c *Controller) Current() *symbolindex.Index {
	return c.current.Load()
}

// Languages returns a copy of the last-known file->language map.
func (c *Controller) Languages() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.languages))
	for f, lang := range c.languages {
		out[f] = lang
	}
	return out
}

// SetParallelism bounds the number of files read, parsed, and captured
// concurrently during Update. Zero or negative selects NumCPU. The
// per-file work is pure given the file's bytes; only the index build
// afterwards is serialized.
func (c *Controller) SetParallelism(workers int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.workers = workers
}

// Publish installs idx as the current snapshot without recording any
// file hashes, used when adopting a reloaded persisted index:
// queries serve the restored view immediately, while the next Update
// still classifies every on-disk file as added/modified and rebuilds
// from source, re-populating the parse cache lazily.
func (c *Controller) Publish(idx *symbolindex.Index) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.Store(idx)
}

// Update recomputes the delta between files (the full current project
// file list) and the last-known hash set; when the delta is not empty
// it re-captures every supported file in files (unchanged files reuse
// their cached parse tree), drops every deleted file, rebuilds the
// index from those records, and atomically publishes the result. Per-file work runs on a bounded goroutine pool (see
// SetParallelism); ctx is checked before each file is dispatched and
// again before the index build, so a long update can be cancelled
// without corrupting the published snapshot — Update either completes
// and swaps, or returns early leaving Current() unchanged.
//
// Calling Update with the same file list as the previous call, with no
// file's content changed, is a no-op: the delta is empty and the
// previously published snapshot is returned unchanged.
func (c *Controller) Update(ctx context.Context, files []string) (*symbolindex.Index, Delta, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delta := c.computeDelta(files)
	if delta.Empty() {
		return c.current.Load(), delta, nil
	}

	results := c.processFiles(ctx, files)
	if err := ctx.Err(); err != nil {
		// Cancelled mid-flight: the previous snapshot and hash set
		// stay current, so the next Update recomputes the same delta.
		return c.current.Load(), delta, err
	}

	for _, f := range delta.Deleted {
		c.cache.Invalidate(f)
		delete(c.hashes, f)
		delete(c.languages, f)
	}

	builder := symbolindex.NewBuilder()
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.err != nil {
			telemetry.Warn("update", r.file, r.profile.Language(), r.err)
			continue
		}
		c.hashes[r.file] = r.source.Hash()
		c.languages[r.file] = r.profile.Language()

		records := r.profile.PostProcess(r.records)
		builder.AddFile(r.profile, r.file, records, r.props)
	}

	idx := builder.Build()
	c.resolveImports(idx, files)
	c.current.Store(idx)
	return idx, delta, nil
}

// fileResult carries one file's per-file phase output into the
// serialized index build.
type fileResult struct {
	file    string
	profile langprofile.Profile
	records []rawdecl.Record
	source  *sourcetext.SourceContent
	props   *symbolindex.FileProperties
	err     error
}

// processFiles reads, parses, and captures every supported file, at
// most c.workers at a time. Results keep the order of files, so the
// index build downstream is deterministic regardless of goroutine
// scheduling. Unsupported files leave a nil slot; launching stops once
// ctx is cancelled, and already-launched work is drained before
// returning.
func (c *Controller) processFiles(ctx context.Context, files []string) []*fileResult {
	workers := c.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	results := make([]*fileResult, len(files))

	for i, f := range files {
		profile, ok := c.registry.ForFile(f)
		if !ok {
			continue
		}

		select {
		case <-ctx.Done():
			wg.Wait()
			return results
		default:
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, f string, profile langprofile.Profile) {
			defer wg.Done()
			defer func() { <-sem }()

			raw, err := os.ReadFile(f)
			if err != nil {
				results[i] = &fileResult{file: f, profile: profile, err: fmt.Errorf("read failed: %w", err)}
				return
			}
			records, source, props, err := c.processFile(profile, f, raw)
			results[i] = &fileResult{file: f, profile: profile, records: records, source: source, props: props, err: err}
		}(i, f, profile)
	}

	wg.Wait()
	return results
}

// computeDelta classifies files against the controller's last-known
// hash set without touching it; hashes are only mutated once a file's
// reprocessing succeeds, so a failed read never silently marks a file
// "unchanged".
func (c *Controller) computeDelta(files []string) Delta {
	present := make(map[string]bool, len(files))
	var delta Delta

	for _, f := range files {
		present[f] = true
		raw, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		hash := sourcetext.New(f, raw).Hash()
		old, known := c.hashes[f]
		switch {
		case !known:
			delta.Added = append(delta.Added, f)
		case old != hash:
			delta.Modified = append(delta.Modified, f)
		default:
			delta.Unchanged = append(delta.Unchanged, f)
		}
	}

	for f := range c.hashes {
		if !present[f] {
			delta.Deleted = append(delta.Deleted, f)
		}
	}
	return delta
}

// processFile parses (via the cache) and captures one file's raw
// declarations, returning its FileProperties with Imports populated
// (ResolvedImports is filled in separately once every file's
// declarations are known, by resolveImports).
func (c *Controller) processFile(profile langprofile.Profile, file string, raw []byte) ([]rawdecl.Record, *sourcetext.SourceContent, *symbolindex.FileProperties, error) {
	tree, source, err := c.cache.TreeOf(file, raw, func(raw []byte) (*sitter.Tree, error) {
		parser := sitter.NewParser()
		parser.SetLanguage(profile.Grammar())
		return parser.ParseCtx(context.Background(), nil, raw)
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse failed: %w", err)
	}

	records, err := capture.Run(file, profile.Language(), profile.Grammar(), profile.DeclarationQuery(), tree.RootNode(), source)
	if err != nil {
		return nil, nil, nil, err
	}

	imports, err := capture.Imports(file, profile.Language(), profile.Grammar(), profile.ImportQuery(), tree.RootNode(), source)
	if err != nil {
		telemetry.Warn("update", file, profile.Language(), err)
	}

	reexports, err := capture.Reexports(file, profile.Language(), profile.Grammar(), profile.ReexportQuery(), tree.RootNode(), source)
	if err != nil {
		telemetry.Warn("update", file, profile.Language(), err)
	}

	props := &symbolindex.FileProperties{Language: profile.Language(), Imports: imports, Reexports: reexports}
	return records, source, props, nil
}

// resolveImports runs the per-file import resolution pass over
// every file now represented in idx, replacing each FileProperties'
// ResolvedImports in place. Isolated per file: a resolution failure for
// one file never blocks another (importresolve.Resolve already never
// errors; this just wires it in per file).
func (c *Controller) resolveImports(idx *symbolindex.Index, files []string) {
	for _, f := range files {
		props := idx.FileProperties(f)
		if props == nil || len(props.Imports) == 0 {
			continue
		}
		profile, ok := c.registry.Lookup(props.Language)
		if !ok {
			continue
		}
		pkg := currentPackageOf(idx, f)
		props.ResolvedImports = importresolve.Resolve(f, props.Language, pkg, props.Imports, profile.ResolveImport, idx)
	}
}

func currentPackageOf(idx *symbolindex.Index, file string) string {
	for _, u := range idx.TopLevelDeclarations(file) {
		if u.PackageName() != "" {
			return u.PackageName()
		}
	}
	return ""
}
