package stream

import (
	"fmt"
	"strings"

	"tamiz/internal/match"
)

// DefaultVocabularies are the tag names extracted when a session does not
// configure its own set.
var DefaultVocabularies = []string{"think", "plan", "status"}

// TagPatterns builds the delimiter patterns for an XML-style vocabulary:
// the opening delimiter tolerates attribute text (<name ...>), the closing
// delimiter is the exact literal </name>.
func TagPatterns(name string) (open, close *match.Pattern, err error) {
	if name == "" || strings.ContainsAny(name, "<>/ \t\n") {
		return nil, nil, fmt.Errorf("stream: invalid tag name %q", name)
	}
	open, err = match.NewPattern(
		match.Literal("<"+name),
		match.GreedyRun(match.Not('>')),
		match.Char(match.Eq('>')),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("stream: opening pattern for %q: %w", name, err)
	}
	close, err = match.NewPattern(match.Literal("</" + name + ">"))
	if err != nil {
		return nil, nil, fmt.Errorf("stream: closing pattern for %q: %w", name, err)
	}
	return open, close, nil
}

// NewTagPlugin builds a plugin recognizing <name ...>...</name> blocks.
func NewTagPlugin(name string, includeTags bool) (*Plugin, error) {
	open, close, err := TagPatterns(name)
	if err != nil {
		return nil, err
	}
	return NewPlugin(name, open, close, includeTags), nil
}
