package python

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/langprofile"
	"github.com/oxhq/codescope/internal/rawdecl"
)

func TestProfile_Identity(t *testing.T) {
	p := New()
	assert.Equal(t, "python", p.Language())
	assert.Contains(t, p.Extensions(), ".py")
	assert.Equal(t, "$", p.ClassSeparator())
	assert.Equal(t, ".", p.MemberSeparator())
	assert.Equal(t, langprofile.LastWins, p.DuplicatePolicy())
	assert.Equal(t, langprofile.ColonBody, p.BodyPlaceholder())
}

func TestResolveImport_Plain(t *testing.T) {
	p := New()

	fqn, ok := p.ResolveImport("import os.path", "")
	require.True(t, ok)
	assert.Equal(t, "os.path", fqn)

	fqn, ok = p.ResolveImport("from utils import helper", "")
	require.True(t, ok)
	assert.Equal(t, "utils.helper", fqn)
}

func TestResolveImport_RelativeDots(t *testing.T) {
	p := New()

	// One dot anchors at the current package.
	fqn, ok := p.ResolveImport("from .sibling import Thing", "pkg.sub")
	require.True(t, ok)
	assert.Equal(t, "pkg.sub.sibling.Thing", fqn)

	// Each further dot climbs one level.
	fqn, ok = p.ResolveImport("from ..shared import Base", "pkg.sub")
	require.True(t, ok)
	assert.Equal(t, "pkg.shared.Base", fqn)

	_, ok = p.ResolveImport("from ....nowhere import X", "pkg")
	assert.False(t, ok)
}

func TestResolveImport_AliasAndWildcard(t *testing.T) {
	p := New()

	fqn, ok := p.ResolveImport("from utils import helper as h", "")
	require.True(t, ok)
	assert.Equal(t, "utils.helper", fqn)

	fqn, ok = p.ResolveImport("from utils import *", "")
	require.True(t, ok)
	assert.Equal(t, "utils", fqn)
}

func TestPostProcess_DerivesModuleName(t *testing.T) {
	p := New()
	decls := []rawdecl.Record{
		{File: "proj/local_classes.py", Kind: codeunit.Class, SimpleName: "LocalClass"},
		{File: "proj/pkg/__init__.py", Kind: codeunit.Function, SimpleName: "setup"},
	}
	out := p.PostProcess(decls)
	assert.Equal(t, "local_classes", out[0].PackageName)
	assert.Equal(t, "pkg", out[1].PackageName)
}

func TestExtractCallReceiver_SelfAllowed(t *testing.T) {
	p := New()
	assert.Equal(t, "self", p.ExtractCallReceiver("self.value"))
}
