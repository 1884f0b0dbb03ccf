package update

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	golang "github.com/smacker/go-tree-sitter/golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/codescope/internal/langprofile"
	"github.com/oxhq/codescope/internal/parsecache"
	"github.com/oxhq/codescope/internal/rawdecl"
)

// goProfile is a minimal Go profile double: a real grammar so parsing
// succeeds, and a declaration query that only ever captures the
// package clause, keeping the test focused on
// delta/lifecycle behavior rather than full declaration capture.
type goProfile struct{}

func (goProfile) Language() string    { return "go" }
func (goProfile) Aliases() []string   { return []string{"golang"} }
func (goProfile) Extensions() []string { return []string{".go"} }
func (goProfile) Grammar() *sitter.Language { return golang.GetLanguage() }
func (goProfile) DeclarationQuery() string {
	return `(package_clause (package_identifier) @package.name)`
}
func (goProfile) ImportQuery() string                              { return "" }
func (goProfile) ReexportQuery() string                            { return "" }
func (goProfile) ClassSeparator() string                           { return "." }
func (goProfile) MemberSeparator() string                          { return "." }
func (goProfile) DuplicatePolicy() langprofile.DuplicatePolicy      { return langprofile.PreserveAll }
func (goProfile) BodyPlaceholder() langprofile.BodyKind             { return langprofile.BraceBody }
func (goProfile) NormalizeFQN(raw string) string                    { return raw }
func (goProfile) ResolveImport(stmt, pkg string) (string, bool)     { return "", false }
func (goProfile) ExtractCallReceiver(expr string) string            { return "" }
func (goProfile) PostProcess(decls []rawdecl.Record) []rawdecl.Record { return decls }

func newController(t *testing.T) *Controller {
	t.Helper()
	reg := langprofile.NewRegistry()
	require.NoError(t, reg.Register(goProfile{}))
	return New(reg, parsecache.New())
}

func TestUpdate_FirstCallIsAllAdded(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(f, []byte("package main\n"), 0o644))

	c := newController(t)
	idx, delta, err := c.Update(context.Background(), []string{f})
	require.NoError(t, err)
	assert.Equal(t, []string{f}, delta.Added)
	assert.Empty(t, delta.Modified)
	assert.Empty(t, delta.Deleted)
	assert.Same(t, idx, c.Current())
}

func TestUpdate_SecondCallWithNoChangesIsEmptyDelta(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(f, []byte("package main\n"), 0o644))

	c := newController(t)
	first, _, err := c.Update(context.Background(), []string{f})
	require.NoError(t, err)

	second, delta, err := c.Update(context.Background(), []string{f})
	require.NoError(t, err)
	assert.True(t, delta.Empty())
	assert.Same(t, first, second)
}

func TestUpdate_ModifiedFileReparsed(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(f, []byte("package main\n"), 0o644))

	c := newController(t)
	_, _, err := c.Update(context.Background(), []string{f})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(f, []byte("package other\n"), 0o644))
	_, delta, err := c.Update(context.Background(), []string{f})
	require.NoError(t, err)
	assert.Equal(t, []string{f}, delta.Modified)
}

func TestUpdate_DeletedFileDroppedFromIndex(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(f, []byte("package main\n"), 0o644))

	c := newController(t)
	_, _, err := c.Update(context.Background(), []string{f})
	require.NoError(t, err)

	idx, delta, err := c.Update(context.Background(), []string{})
	require.NoError(t, err)
	assert.Equal(t, []string{f}, delta.Deleted)
	assert.Empty(t, idx.Files())
}

func TestUpdate_ParallelismKeepsFileOrderDeterministic(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"a.go", "b.go", "c.go", "d.go"} {
		f := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(f, []byte("package "+name[:1]+"\n"), 0o644))
		files = append(files, f)
	}

	c := newController(t)
	c.SetParallelism(4)

	idx, delta, err := c.Update(context.Background(), files)
	require.NoError(t, err)
	assert.Len(t, delta.Added, 4)
	assert.Len(t, idx.Files(), 4)

	// Same inputs with a single worker produce the same view.
	single := newController(t)
	single.SetParallelism(1)
	idx2, _, err := single.Update(context.Background(), files)
	require.NoError(t, err)
	assert.ElementsMatch(t, idx.Files(), idx2.Files())
}

func TestUpdate_CancelledContextKeepsPreviousSnapshot(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(f, []byte("package main\n"), 0o644))

	c := newController(t)
	first, _, err := c.Update(context.Background(), []string{f})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(f, []byte("package other\n"), 0o644))
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = c.Update(cancelled, []string{f})
	assert.Error(t, err)
	assert.Same(t, first, c.Current())
}
