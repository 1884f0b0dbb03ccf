// Package catalog wires every built-in language profile into a
// registry. The language set is static; there is no
// plugin loading.
package catalog

import (
	"github.com/oxhq/codescope/internal/langprofile"
	"github.com/oxhq/codescope/providers/c"
	"github.com/oxhq/codescope/providers/cpp"
	"github.com/oxhq/codescope/providers/csharp"
	"github.com/oxhq/codescope/providers/golang"
	"github.com/oxhq/codescope/providers/java"
	"github.com/oxhq/codescope/providers/javascript"
	"github.com/oxhq/codescope/providers/php"
	"github.com/oxhq/codescope/providers/python"
	"github.com/oxhq/codescope/providers/rust"
	"github.com/oxhq/codescope/providers/scala"
	"github.com/oxhq/codescope/providers/typescript"
)

// All returns every built-in profile in registration order.
func All() []langprofile.Profile {
	return []langprofile.Profile{
		golang.New(),
		python.New(),
		javascript.New(),
		typescript.New(),
		java.New(),
		c.New(),
		cpp.New(),
		csharp.New(),
		scala.New(),
		php.New(),
		rust.New(),
	}
}

// NewRegistry returns a registry with every built-in profile
// registered. Registration of the static set cannot collide; an error
// here means two built-in profiles claim the same name or extension
// and is a programming error, so it panics.
func NewRegistry() *langprofile.Registry {
	r := langprofile.NewRegistry()
	for _, p := range All() {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}
