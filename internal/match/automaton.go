package match

// Result is the per-character verdict of an Automaton.
type Result int

const (
	// NoMatch means the character broke the current attempt; the automaton
	// is back in its start state.
	NoMatch Result = iota
	// InProgress means the character extended a partial match.
	InProgress
	// Match fires on the single character that completes the pattern.
	Match
)

func (r Result) String() string {
	switch r {
	case NoMatch:
		return "no_match"
	case InProgress:
		return "in_progress"
	case Match:
		return "match"
	default:
		return "unknown"
	}
}

// Automaton matches one Pattern incrementally, one character per call.
// Total work over a stream is O(characters): each character is inspected
// against at most a couple of atoms and never revisited.
//
// Automatons are not safe for concurrent use and must not be shared
// between logical matches; Reset is the only supported way to reuse one.
type Automaton struct {
	pattern *Pattern
	atom    int // index of the atom currently being satisfied
	pos     int // characters consumed of a literal atom
}

// NewAutomaton compiles p into a fresh matcher positioned at the start.
func NewAutomaton(p *Pattern) *Automaton {
	return &Automaton{pattern: p}
}

// Reset abandons any partial match and returns to the start state.
func (a *Automaton) Reset() {
	a.atom, a.pos = 0, 0
}

// Started reports whether at least one character of the pattern has been
// consumed since the last restart.
func (a *Automaton) Started() bool {
	return a.atom > 0 || a.pos > 0
}

// ProcessChar advances the match by one character. After Match or NoMatch
// the cursor is back at the start, so the next call begins a fresh attempt.
//
// On a mismatch mid-pattern the automaton does not re-feed the offending
// character to a restarted attempt (no failure-function restart); at most
// one character of lag is lost, which callers accept.
func (a *Automaton) ProcessChar(r rune) Result {
	for {
		atom := &a.pattern.atoms[a.atom]
		switch atom.kind {
		case atomLiteral:
			if r != atom.text[a.pos] {
				a.Reset()
				return NoMatch
			}
			a.pos++
			if a.pos < len(atom.text) {
				return InProgress
			}
			return a.advance()

		case atomChar:
			if !atom.pred(r) {
				a.Reset()
				return NoMatch
			}
			return a.advance()

		default: // atomGreedyRun
			if atom.pred(r) {
				return InProgress
			}
			// Run over. The same character is offered to the next atom
			// in this same call; validation guarantees one exists.
			a.atom++
			a.pos = 0
		}
	}
}

// advance moves past a completed atom, reporting Match when it was the last.
func (a *Automaton) advance() Result {
	a.atom++
	a.pos = 0
	if a.atom == len(a.pattern.atoms) {
		a.Reset()
		return Match
	}
	return InProgress
}
