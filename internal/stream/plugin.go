// Package stream filters tag blocks (e.g. <plan>...</plan>) out of
// incrementally arriving text, deciding for every character whether it is
// forwarded downstream, without buffering and without backtracking.
package stream

import "tamiz/internal/match"

// State is the plugin's position in its recognition lifecycle.
type State int

const (
	// Idle: not inside a block and not attempting a delimiter match.
	Idle State = iota
	// Trying: a partial match of the opening delimiter is in progress.
	Trying
	// Processing: the opening delimiter matched; scanning for the closer.
	Processing
)

// Plugin recognizes one tag vocabulary in a character stream. It owns two
// automatons (opening and closing delimiter) and is consumed character by
// character for the lifetime of a single stream; instances are never shared
// across streams or vocabularies.
//
// An anchored plugin (the default) only recognizes opening delimiters at
// the start of a logical line, or immediately after a previous block closed
// on the same line (the adjacency window, which survives intervening spaces
// and tabs).
//
// There is no error state: an opening delimiter that never closes leaves
// the plugin in Processing for the rest of the stream, treating everything
// after it as block content. That is documented behavior, not a fault.
type Plugin struct {
	Name string

	// IncludeTags controls whether delimiter characters are kept in the
	// output stream. Block content is always kept.
	IncludeTags bool

	// Anchored restricts opening delimiters to the start of a logical line
	// (or the adjacency window after a block closes). When false, an
	// opening delimiter is attempted anywhere in the stream.
	Anchored bool

	// OnContent, when set, receives every character recognized as block
	// content. Characters consumed as part of a partial closing delimiter
	// that later broke are not reported; that one-character-class lag
	// mirrors the matcher's restart approximation.
	OnContent func(r rune)

	// OnBlockEnd, when set, fires on the character that completes the
	// closing delimiter.
	OnBlockEnd func()

	// OnUnterminated, when set, is called by Finish if the stream ended
	// while still inside a block.
	OnUnterminated func()

	opener   *match.Automaton
	closer   *match.Automaton
	state    State
	adjacent bool
}

// NewPlugin builds a plugin from explicit opening and closing delimiter
// patterns. Most callers want NewTagPlugin instead.
func NewPlugin(name string, open, close *match.Pattern, includeTags bool) *Plugin {
	return &Plugin{
		Name:        name,
		IncludeTags: includeTags,
		Anchored:    true,
		opener:      match.NewAutomaton(open),
		closer:      match.NewAutomaton(close),
	}
}

// State returns the current lifecycle state.
func (p *Plugin) State() State { return p.state }

// InBlock reports whether the cursor is currently inside a recognized block.
func (p *Plugin) InBlock() bool { return p.state == Processing }

// Reset returns the plugin to Idle with both automatons at their start
// states and the adjacency window closed. Call it before reusing a plugin
// on a new stream.
func (p *Plugin) Reset() {
	p.opener.Reset()
	p.closer.Reset()
	p.state = Idle
	p.adjacent = false
}

// ProcessChar decides whether c stays in the output stream. atLineStart
// must be true when c is the first character of the stream or follows a
// newline; the caller tracks that.
func (p *Plugin) ProcessChar(c rune, atLineStart bool) bool {
	switch p.state {
	case Processing:
		return p.scanClose(c)
	case Trying:
		return p.feedOpen(c)
	default:
		return p.idle(c, atLineStart)
	}
}

// Finish signals end of stream. An unterminated block is reported to
// OnUnterminated; the plugin then resets.
func (p *Plugin) Finish() {
	if p.state == Processing && p.OnUnterminated != nil {
		p.OnUnterminated()
	}
	p.Reset()
}

func (p *Plugin) idle(c rune, atLineStart bool) bool {
	if p.Anchored {
		if !atLineStart && !p.adjacent {
			// Plain mid-line content; never the start of a delimiter.
			return true
		}
		if p.adjacent && (c == ' ' || c == '\t') {
			// Whitespace riding the adjacency window is delimiter padding,
			// not content; it follows the include-tags decision and leaves
			// the window open.
			return p.IncludeTags
		}
	}
	p.adjacent = false
	return p.feedOpen(c)
}

func (p *Plugin) feedOpen(c rune) bool {
	switch p.opener.ProcessChar(c) {
	case match.Match:
		p.state = Processing
		return p.IncludeTags
	case match.InProgress:
		p.state = Trying
		return p.IncludeTags
	default:
		// Abandoned prefix characters were already emitted or suppressed
		// as they arrived; they are not retroactively changed.
		p.state = Idle
		return true
	}
}

func (p *Plugin) scanClose(c rune) bool {
	switch p.closer.ProcessChar(c) {
	case match.Match:
		p.state = Idle
		p.adjacent = true
		if p.OnBlockEnd != nil {
			p.OnBlockEnd()
		}
		return p.IncludeTags
	case match.InProgress:
		return p.IncludeTags
	default:
		if p.OnContent != nil {
			p.OnContent(c)
		}
		return true
	}
}
