package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_AllLanguagesRegistered(t *testing.T) {
	r := NewRegistry()
	for _, lang := range []string{
		"go", "python", "javascript", "typescript", "java",
		"c", "cpp", "csharp", "scala", "php", "rust",
	} {
		_, ok := r.Lookup(lang)
		assert.True(t, ok, "missing profile %q", lang)
	}
}

func TestNewRegistry_ExtensionRouting(t *testing.T) {
	r := NewRegistry()
	cases := map[string]string{
		"main.go":     "go",
		"app.py":      "python",
		"index.ts":    "typescript",
		"index.jsx":   "javascript",
		"Main.java":   "java",
		"lib.rs":      "rust",
		"util.hpp":    "cpp",
		"legacy.c":    "c",
		"Program.cs":  "csharp",
		"Build.scala": "scala",
		"site.php":    "php",
	}
	for file, want := range cases {
		p, ok := r.ForFile(file)
		require.True(t, ok, "no profile for %s", file)
		assert.Equal(t, want, p.Language(), file)
	}
}

func TestNewRegistry_UnsupportedExtension(t *testing.T) {
	r := NewRegistry()
	_, ok := r.ForFile("README.md")
	assert.False(t, ok)
}

func TestAll_QueriesNonEmpty(t *testing.T) {
	for _, p := range All() {
		assert.NotEmpty(t, p.DeclarationQuery(), p.Language())
		assert.NotEmpty(t, p.ImportQuery(), p.Language())
		assert.NotNil(t, p.Grammar(), p.Language())
	}
}
