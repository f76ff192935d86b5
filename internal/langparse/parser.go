// Package langparse defines the capability set every per-language error
// parser (C2) implements: C4 hands a parser the complete stderr blob for
// one failed run and expects a confidence tier plus best-effort structured
// extraction back, never a streamed log.
package langparse

import "github.com/tsugix/tsugix/internal/model"

// Confidence is the tier a parser reports for a given stderr blob.
type Confidence int

// Confidence tiers, ordered so higher values always mean a stronger match.
const (
	None Confidence = iota
	Low
	Medium
	High
)

// Parser is implemented by each of the nine language-specific error parsers.
// Implementations must never panic; internal failures degrade to a
// ParseResult with Success=false.
type Parser interface {
	// Language returns the human-readable language name, e.g. "Python".
	Language() string

	// CanParse does a cheap scan of stderr and returns a confidence tier.
	CanParse(stderr string) Confidence

	// Parse performs the best-effort structured extraction.
	Parse(stderr string) model.ParseResult
}
