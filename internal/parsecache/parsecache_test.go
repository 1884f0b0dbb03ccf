package parsecache

import (
	"context"
	"testing"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goParser() ParseFunc {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	return func(raw []byte) (*sitter.Tree, error) {
		return parser.ParseCtx(context.Background(), nil, raw)
	}
}

func TestTreeOf_MissThenHit(t *testing.T) {
	c := New()
	parse := goParser()
	src := []byte("package main\n\nfunc main() {}\n")

	tree1, sc1, err := c.TreeOf("a.go", src, parse)
	require.NoError(t, err)
	require.NotNil(t, tree1)
	require.NotNil(t, sc1)

	hits, misses := c.Stats()
	assert.Equal(t, int64(0), hits)
	assert.Equal(t, int64(1), misses)

	tree2, sc2, err := c.TreeOf("a.go", src, parse)
	require.NoError(t, err)
	assert.Same(t, tree1, tree2)
	assert.Same(t, sc1, sc2)

	hits, misses = c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestTreeOf_ContentChangeIsAMiss(t *testing.T) {
	c := New()
	parse := goParser()

	_, _, err := c.TreeOf("a.go", []byte("package main\n"), parse)
	require.NoError(t, err)

	_, _, err = c.TreeOf("a.go", []byte("package other\n"), parse)
	require.NoError(t, err)

	_, misses := c.Stats()
	assert.Equal(t, int64(2), misses)
}

func TestInvalidate_ForcesReparse(t *testing.T) {
	c := New()
	parse := goParser()
	src := []byte("package main\n")

	tree1, _, err := c.TreeOf("a.go", src, parse)
	require.NoError(t, err)

	c.Invalidate("a.go")

	tree2, _, err := c.TreeOf("a.go", src, parse)
	require.NoError(t, err)

	assert.NotSame(t, tree1, tree2)
	_, misses := c.Stats()
	assert.Equal(t, int64(2), misses)
}

func TestTreeOf_DistinctFilesAreIndependentEntries(t *testing.T) {
	c := New()
	parse := goParser()

	_, scA, err := c.TreeOf("a.go", []byte("package a\n"), parse)
	require.NoError(t, err)
	_, scB, err := c.TreeOf("b.go", []byte("package b\n"), parse)
	require.NoError(t, err)

	assert.Equal(t, "a.go", scA.File())
	assert.Equal(t, "b.go", scB.File())
}

func TestNewWithTTL_EvictsIdleEntries(t *testing.T) {
	c := NewWithTTL(20 * time.Millisecond)
	parse := goParser()
	src := []byte("package main\n")

	_, _, err := c.TreeOf("a.go", src, parse)
	require.NoError(t, err)

	// Several sweep ticks pass with no access; the entry is evicted
	// and the next call re-parses.
	time.Sleep(200 * time.Millisecond)

	_, _, err = c.TreeOf("a.go", src, parse)
	require.NoError(t, err)

	_, misses := c.Stats()
	assert.Equal(t, int64(2), misses)
}

func TestNewWithTTL_ZeroDisablesEviction(t *testing.T) {
	c := NewWithTTL(0)
	parse := goParser()
	src := []byte("package main\n")

	_, _, err := c.TreeOf("a.go", src, parse)
	require.NoError(t, err)
	_, _, err = c.TreeOf("a.go", src, parse)
	require.NoError(t, err)

	hits, _ := c.Stats()
	assert.Equal(t, int64(1), hits)
}
