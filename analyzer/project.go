package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/oxhq/codescope/internal/appconfig"
	"github.com/oxhq/codescope/internal/langprofile"
	"github.com/oxhq/codescope/internal/scanner"
)

// Project is the collaborator the engine consumes: it knows the
// project root, enumerates analyzable files, reads file content, and
// names the directories to exclude. The engine never writes to source
// files.
type Project interface {
	// Root returns the project root path.
	Root() string
	// Files enumerates every analyzable file under the root.
	Files(ctx context.Context) ([]string, error)
	// ReadFile returns a file's bytes and content hash.
	ReadFile(path string) (content []byte, hash string, err error)
	// ExcludedDirs lists directory names never descended into.
	ExcludedDirs() []string
}

// DirProject is the filesystem-backed Project used outside of tests:
// gitignore-aware enumeration rooted at a directory, filtered to the
// extensions the registry claims.
type DirProject struct {
	root     string
	registry *langprofile.Registry
	excluded []string
	scan     *scanner.Scanner
}

// NewDirProject returns a Project rooted at root, enumerating only
// files whose extension some profile in registry claims. excluded
// directory globs are skipped in addition to the scanner's built-in
// list and .gitignore rules.
func NewDirProject(root string, registry *langprofile.Registry, excluded ...string) *DirProject {
	cfg := appconfig.LoadConfig()
	return &DirProject{
		root:     root,
		registry: registry,
		excluded: excluded,
		scan: scanner.New(scanner.Config{
			MaxBytes:     cfg.MaxFileBytes,
			ExcludeGlobs: excluded,
			Registry:     registry,
		}),
	}
}

func (p *DirProject) Root() string { return p.root }

func (p *DirProject) Files(ctx context.Context) ([]string, error) {
	return p.scan.ScanTargets(ctx, []string{p.root})
}

func (p *DirProject) ReadFile(path string) ([]byte, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	sum := sha256.Sum256(content)
	return content, hex.EncodeToString(sum[:]), nil
}

func (p *DirProject) ExcludedDirs() []string { return p.excluded }
