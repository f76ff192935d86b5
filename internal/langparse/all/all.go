// Package all wires the nine built-in language parsers into a single
// registry in a fixed registration order. Kept separate from
// internal/langparse itself so that package has no dependency on its own
// implementations (avoiding an import cycle).
package all

import (
	"github.com/tsugix/tsugix/internal/langparse"
	"github.com/tsugix/tsugix/internal/langparse/dotnet"
	"github.com/tsugix/tsugix/internal/langparse/golang"
	"github.com/tsugix/tsugix/internal/langparse/javalang"
	"github.com/tsugix/tsugix/internal/langparse/node"
	"github.com/tsugix/tsugix/internal/langparse/php"
	"github.com/tsugix/tsugix/internal/langparse/python"
	"github.com/tsugix/tsugix/internal/langparse/rustlang"
	"github.com/tsugix/tsugix/internal/langparse/ruby"
	"github.com/tsugix/tsugix/internal/langparse/swift"
)

// NewRegistry returns a registry with all nine language parsers registered.
// Registration order is fixed so that confidence ties resolve deterministically
// across runs; it has no bearing on correctness when parsers disagree.
func NewRegistry() *langparse.Registry {
	return langparse.NewDefaultRegistry(
		python.NewParser(),
		node.NewParser(),
		golang.NewParser(),
		javalang.NewParser(),
		dotnet.NewParser(),
		rustlang.NewParser(),
		ruby.NewParser(),
		php.NewParser(),
		swift.NewParser(),
	)
}
