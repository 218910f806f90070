// Package match implements single-pass, incremental matching of short
// delimiter patterns against a character stream. A pattern is a sequence
// of atoms (literal text, a one-character class, or a greedy run of a
// character class); the compiled automaton accepts one character at a time
// and never looks back.
package match

import "fmt"

// Predicate reports whether a rune belongs to a character class.
type Predicate func(r rune) bool

type atomKind int

const (
	atomLiteral atomKind = iota
	atomChar
	atomGreedyRun
)

// Atom is a single element of a Pattern.
type Atom struct {
	kind atomKind
	text []rune    // atomLiteral
	pred Predicate // atomChar, atomGreedyRun
}

// Literal matches text exactly, character by character, in order.
func Literal(text string) Atom {
	return Atom{kind: atomLiteral, text: []rune(text)}
}

// Char matches exactly one character satisfying pred.
func Char(pred Predicate) Atom {
	return Atom{kind: atomChar, pred: pred}
}

// GreedyRun matches zero or more consecutive characters satisfying pred.
// The run ends on the first character that fails pred; that character is
// handed to the next atom within the same step, so the boundary costs no
// extra input.
func GreedyRun(pred Predicate) Atom {
	return Atom{kind: atomGreedyRun, pred: pred}
}

// Eq returns a predicate matching exactly r.
func Eq(r rune) Predicate {
	return func(c rune) bool { return c == r }
}

// Not returns a predicate matching any character except r.
func Not(r rune) Predicate {
	return func(c rune) bool { return c != r }
}

// Pattern is an ordered sequence of atoms, immutable once built.
//
// Callers must choose predicates so that the end of a GreedyRun is
// decidable from the current character alone; the automaton does not
// backtrack to resolve overlaps between a run and the atom after it.
type Pattern struct {
	atoms []Atom
}

// NewPattern validates the atom sequence and builds a Pattern. Invalid
// shapes are caller programming errors and fail here, never while matching.
func NewPattern(atoms ...Atom) (*Pattern, error) {
	if len(atoms) == 0 {
		return nil, fmt.Errorf("pattern: no atoms")
	}
	for i, a := range atoms {
		switch a.kind {
		case atomLiteral:
			if len(a.text) == 0 {
				return nil, fmt.Errorf("pattern: empty literal at atom %d", i)
			}
		case atomChar:
			if a.pred == nil {
				return nil, fmt.Errorf("pattern: nil predicate at atom %d", i)
			}
		case atomGreedyRun:
			if a.pred == nil {
				return nil, fmt.Errorf("pattern: nil predicate at atom %d", i)
			}
			// A trailing run could never fire an edge-triggered Match:
			// there is no character on which the pattern is known complete.
			if i == len(atoms)-1 {
				return nil, fmt.Errorf("pattern: greedy run at atom %d must be followed by another atom", i)
			}
			if atoms[i+1].kind == atomGreedyRun {
				return nil, fmt.Errorf("pattern: adjacent greedy runs at atom %d", i)
			}
		}
	}
	cp := make([]Atom, len(atoms))
	copy(cp, atoms)
	return &Pattern{atoms: cp}, nil
}

// MustPattern is NewPattern for patterns known to be valid; it panics on
// construction errors.
func MustPattern(atoms ...Atom) *Pattern {
	p, err := NewPattern(atoms...)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the number of atoms in the pattern.
func (p *Pattern) Len() int { return len(p.atoms) }
