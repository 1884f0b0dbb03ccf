package javascript

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/codescope/internal/langprofile"
)

func TestProfile_Identity(t *testing.T) {
	p := New()
	assert.Equal(t, "javascript", p.Language())
	assert.Contains(t, p.Aliases(), "js")
	assert.Equal(t, langprofile.LastWins, p.DuplicatePolicy())
}

func TestResolveImport(t *testing.T) {
	p := New()
	fqn, ok := p.ResolveImport(`import { render } from "./dom"`, "")
	assert.True(t, ok)
	assert.Equal(t, "render", fqn)
}

func TestExtractCallReceiver(t *testing.T) {
	p := New()
	assert.Equal(t, "Array", p.ExtractCallReceiver("Array.isArray"))
	assert.Equal(t, "", p.ExtractCallReceiver("console.log"))
}
