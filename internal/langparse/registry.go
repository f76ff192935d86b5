package langparse

import (
	"strings"
	"sync"
)

// Registry holds an ordered list of language parsers, selecting by highest
// confidence over a whole stderr blob and breaking ties by registration
// order so the result is stable across runs on the same input.
type Registry struct {
	mu      sync.RWMutex
	parsers []Parser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a parser. Registration order is the tie-break order for
// Best, so callers should register parsers in a fixed, deliberate sequence.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers = append(r.parsers, p)
}

// Parsers returns the parsers in registration order.
func (r *Registry) Parsers() []Parser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Parser, len(r.parsers))
	copy(out, r.parsers)
	return out
}

// Best returns the parser with the highest confidence for stderr, breaking
// ties by earlier registration. Returns nil if every parser reports None.
func (r *Registry) Best(stderr string) Parser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best Parser
	bestConf := None
	for _, p := range r.parsers {
		conf := p.CanParse(stderr)
		if conf > bestConf {
			bestConf = conf
			best = p
		}
	}
	if bestConf == None {
		return nil
	}
	return best
}

// NewDefaultRegistry builds a registry from parsers in the order given. The
// order matters only for tie-breaking between parsers that report equal
// confidence on the same input. See internal/langparse/all for the concrete
// nine-parser construction (kept in a separate package to avoid this
// package importing its own implementations).
func NewDefaultRegistry(parsers ...Parser) *Registry {
	r := NewRegistry()
	for _, p := range parsers {
		r.Register(p)
	}
	return r
}

// knownLibraryPrefixes lists substrings that mark a frame's file path as
// belonging to a library or runtime rather than user code, shared across
// language parsers (spec.md §4.2's "well-known library prefixes").
var knownLibraryPrefixes = []string{
	"site-packages/",
	"node_modules/",
	"node:internal/",
	"/rustc/",
	"/.cargo/",
	"registry/src/",
	"/vendor/",
	"/gems/",
	"java.",
	"javax.",
	"jdk.",
	"sun.",
	"System.",
	"Microsoft.",
	"libswift",
	"/go/src/",
	"/go/pkg/mod/",
	"/usr/lib/",
	"/usr/local/lib/",
}

// IsUserCode reports whether path looks like application code rather than a
// library/runtime path, using the shared prefix list.
func IsUserCode(path string) bool {
	if path == "" {
		return true
	}
	for _, prefix := range knownLibraryPrefixes {
		if strings.Contains(path, prefix) {
			return false
		}
	}
	return true
}
