// Package scanner discovers source files under a project root for the
// initial index build and for update-delta detection: fs.WalkDir
// traversal with gitignore awareness and a directory-skip list, with
// file eligibility decided by the langprofile Registry's extension
// map.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/oxhq/codescope/internal/langprofile"
)

// Config holds scanner configuration options.
type Config struct {
	MaxBytes       int64
	FollowSymlinks bool
	IncludeGlobs   []string
	ExcludeGlobs   []string
	NoGitignore    bool
	Registry       *langprofile.Registry
}

// Scanner handles recursive directory traversal with filtering.
type Scanner struct {
	maxBytes       int64
	followSymlinks bool
	includeGlobs   []string
	excludeGlobs   []string
	registry       *langprofile.Registry
	gitignore      *ignore.GitIgnore
}

// New creates a new scanner with the given configuration.
func New(cfg Config) *Scanner {
	s := &Scanner{
		maxBytes:       cfg.MaxBytes,
		followSymlinks: cfg.FollowSymlinks,
		includeGlobs:   cfg.IncludeGlobs,
		excludeGlobs:   cfg.ExcludeGlobs,
		registry:       cfg.Registry,
	}
	if !cfg.NoGitignore {
		s.loadGitignore()
	}
	return s
}

// loadGitignore loads .gitignore patterns from the current directory
// and every parent directory, root-first so closer files take
// precedence.
func (s *Scanner) loadGitignore() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	var gitignoreFiles []string
	dir := cwd
	for {
		gitignorePath := filepath.Join(dir, ".gitignore")
		if _, err := os.Stat(gitignorePath); err == nil {
			gitignoreFiles = append(gitignoreFiles, gitignorePath)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if len(gitignoreFiles) == 0 {
		return
	}
	slices.Reverse(gitignoreFiles)

	if len(gitignoreFiles) == 1 {
		if gi, err := ignore.CompileIgnoreFile(gitignoreFiles[0]); err == nil {
			s.gitignore = gi
		}
		return
	}
	var lines []string
	for _, path := range gitignoreFiles[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		lines = append(lines, strings.Split(string(data), "\n")...)
	}
	if gi, err := ignore.CompileIgnoreFileAndLines(gitignoreFiles[0], lines...); err == nil {
		s.gitignore = gi
	}
}

// ScanTargets processes a list of file and directory targets, returning
// every eligible file discovered. Targets default to the working
// directory when empty.
func (s *Scanner) ScanTargets(ctx context.Context, targets []string) ([]string, error) {
	if len(targets) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("scanner: getting current directory: %w", err)
		}
		targets = []string{cwd}
	}

	var all []string
	for _, target := range targets {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		files, err := s.scanTarget(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("scanner: scanning target %s: %w", target, err)
		}
		all = append(all, files...)
	}
	return dedup(all), nil
}

func (s *Scanner) scanTarget(ctx context.Context, target string) ([]string, error) {
	info, err := os.Lstat(target)
	if err != nil {
		return nil, fmt.Errorf("accessing target %s: %w", target, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if !s.followSymlinks {
			return nil, nil
		}
		resolved, err := filepath.EvalSymlinks(target)
		if err != nil {
			return nil, fmt.Errorf("resolving symlink %s: %w", target, err)
		}
		return s.scanTarget(ctx, resolved)
	}

	if info.Mode().IsRegular() {
		if s.shouldProcessFile(target, info) {
			return []string{target}, nil
		}
		return nil, nil
	}

	if info.IsDir() {
		return s.scanDirectory(ctx, target)
	}
	return nil, nil
}

func (s *Scanner) scanDirectory(ctx context.Context, dir string) ([]string, error) {
	var files []string

	err := fs.WalkDir(os.DirFS(dir), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fullPath := filepath.Join(dir, path)

		if d.IsDir() {
			if s.shouldSkipDirectory(path) {
				return fs.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return fmt.Errorf("getting file info for %s: %w", fullPath, err)
			}
			if s.shouldProcessFile(fullPath, info) {
				files = append(files, fullPath)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", dir, err)
	}
	return files, nil
}

func (s *Scanner) shouldProcessFile(path string, info os.FileInfo) bool {
	if s.gitignore != nil {
		if relPath, err := filepath.Rel(".", path); err == nil && s.gitignore.MatchesPath(relPath) {
			return false
		}
	}

	if s.maxBytes > 0 && info.Size() > s.maxBytes {
		return false
	}

	if s.registry != nil {
		if _, ok := s.registry.ForFile(path); !ok {
			return false
		}
	}

	if len(s.includeGlobs) > 0 {
		matched := false
		for _, pattern := range s.includeGlobs {
			if matchGlob(pattern, path) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, pattern := range s.excludeGlobs {
		if matchGlob(pattern, path) {
			return false
		}
	}
	return true
}

// matchGlob matches pattern against both the full (slash-normalized)
// path and its basename, so "**/testdata/**" and "*_gen.go" both work
// as exclusions.
func matchGlob(pattern, path string) bool {
	normalized := filepath.ToSlash(path)
	if ok, _ := doublestar.Match(pattern, normalized); ok {
		return true
	}
	ok, _ := doublestar.Match(pattern, filepath.Base(path))
	return ok
}

var skipDirs = []string{".git", "vendor", "node_modules", "dist", "build", ".codescope", "target", "__pycache__", "bin", "obj"}

func (s *Scanner) shouldSkipDirectory(path string) bool {
	if s.gitignore != nil {
		if relPath, err := filepath.Rel(".", path); err == nil && s.gitignore.MatchesPath(relPath) {
			return true
		}
	}

	dirname := filepath.Base(path)
	if slices.Contains(skipDirs, dirname) {
		return true
	}
	if strings.HasPrefix(dirname, ".") && dirname != "." {
		return true
	}
	return false
}

func dedup(files []string) []string {
	seen := make(map[string]bool, len(files))
	out := make([]string, 0, len(files))
	for _, f := range files {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
