package langprofile

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Registry looks up a Profile by canonical name, alias, or file
// extension. There is no plugin-loading path: the language set is
// fixed at startup, so providers register statically via Register.
type Registry struct {
	mu         sync.RWMutex
	profiles   map[string]Profile
	aliases    map[string]string
	extensions map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		profiles:   make(map[string]Profile),
		aliases:    make(map[string]string),
		extensions: make(map[string]string),
	}
}

// Register adds a profile under its canonical language name, aliases,
// and extensions. Returns an error on a nil profile, an empty language
// name, or a name/alias/extension collision with an already-registered
// profile.
func (r *Registry) Register(p Profile) error {
	if p == nil {
		return fmt.Errorf("langprofile: profile cannot be nil")
	}
	lang := p.Language()
	if lang == "" {
		return fmt.Errorf("langprofile: profile must have a non-empty language name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[lang]; exists {
		return fmt.Errorf("langprofile: profile for %q already registered", lang)
	}
	r.profiles[lang] = p

	for _, alias := range p.Aliases() {
		if alias == "" {
			continue
		}
		if existing, exists := r.aliases[alias]; exists {
			return fmt.Errorf("langprofile: alias %q conflicts with existing mapping to %q", alias, existing)
		}
		r.aliases[alias] = lang
	}

	for _, ext := range p.Extensions() {
		if ext == "" {
			continue
		}
		if ext[0] != '.' {
			ext = "." + ext
		}
		if existing, exists := r.extensions[ext]; exists {
			return fmt.Errorf("langprofile: extension %q conflicts with existing mapping to %q", ext, existing)
		}
		r.extensions[ext] = lang
	}
	return nil
}

// Lookup resolves a profile by canonical name or alias.
func (r *Registry) Lookup(identifier string) (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.profiles[identifier]; ok {
		return p, true
	}
	if canonical, ok := r.aliases[identifier]; ok {
		p, ok := r.profiles[canonical]
		return p, ok
	}
	return nil, false
}

// ForFile resolves a profile from a filename's extension. An
// unrecognized or missing extension yields (nil, false) — callers must
// treat this as UnsupportedFile, not an error.
func (r *Registry) ForFile(filename string) (Profile, bool) {
	ext := filepath.Ext(filename)
	if ext == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	canonical, ok := r.extensions[ext]
	if !ok {
		return nil, false
	}
	p, ok := r.profiles[canonical]
	return p, ok
}

// Languages returns every registered canonical language name.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.profiles))
	for lang := range r.profiles {
		out = append(out, lang)
	}
	return out
}
