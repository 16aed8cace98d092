package automaton

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/motifsim/internal/alphabet"
)

// MaxSpacer bounds the upper spacer length of a gap pattern.
const MaxSpacer = 4096

// Gap recognizes LEFT, then a spacer of min..max arbitrary bases, then
// RIGHT, written "TATA{1,10}TATA".
//
// State layout for a left arm of length a, right arm of length b and upper
// bound max:
//
//	Q0                   start, loops on every base
//	Q1..Qa               left arm; Qa is also "spacer length 0"
//	Q(a+k), k in 0..max  k spacer bases consumed
//	Q(a+max+1)           spacer closed, right arm expected
//	following b states   right arm; the last one accepts
//
// Consuming edges extend the spacer while k < max. A non-consuming edge from
// every spacer state with min <= k <= max to the closing state lets the right
// arm start on the very next base. Each live thread remembers where its left
// arm began, so every completion reports the full window.
type Gap struct {
	pattern        string
	left, right    string
	minGap, maxGap int

	delta   table
	epsilon map[State]StateSet
	closing State
	accept  State

	threads []thread
	pos     int
}

type thread struct {
	state State
	start int
}

// NewGap parses pattern and builds the automaton. Malformed patterns yield a
// *PatternError.
func NewGap(pattern string) (*Gap, error) {
	left, right, lo, hi, err := parseGap(pattern)
	if err != nil {
		return nil, &PatternError{Kind: KindGap, Pattern: pattern, Reason: err.Error()}
	}

	g := &Gap{
		pattern: fmt.Sprintf("%s{%d,%d}%s", left, lo, hi, right),
		left:    left,
		right:   right,
		minGap:  lo,
		maxGap:  hi,
		epsilon: make(map[State]StateSet),
	}

	a, b := len(left), len(right)
	g.closing = State(a + hi + 1)
	g.accept = g.closing + State(b)
	g.delta = newTable(int(g.accept) + 1)

	for _, c := range alphabet.Bases {
		g.delta.add(0, c, 0)
	}
	g.delta.add(0, left[0], 1)
	for j := 1; j < a; j++ {
		g.delta.add(State(j), left[j], State(j+1))
	}
	for k := 0; k <= hi; k++ {
		s := State(a + k)
		if k < hi {
			for _, c := range alphabet.Bases {
				g.delta.add(s, c, s+1)
			}
		}
		if k >= lo {
			g.epsilon[s] = StateSet{g.closing}
		}
	}
	for j := 0; j < b; j++ {
		g.delta.add(g.closing+State(j), right[j], g.closing+State(j+1))
	}
	g.delta.freeze()
	g.Reset()
	return g, nil
}

func parseGap(pattern string) (left, right string, lo, hi int, err error) {
	p := alphabet.Normalize(strings.TrimSpace(pattern))

	left, rest, ok := strings.Cut(p, "{")
	if !ok {
		return "", "", 0, 0, fmt.Errorf("expected LEFT{min,max}RIGHT")
	}
	bounds, right, ok := strings.Cut(rest, "}")
	if !ok {
		return "", "", 0, 0, fmt.Errorf("unterminated spacer bounds")
	}
	left, right = strings.TrimSpace(left), strings.TrimSpace(right)
	if left == "" || right == "" {
		return "", "", 0, 0, fmt.Errorf("both literals must be non-empty")
	}

	loText, hiText, ranged := strings.Cut(bounds, ",")
	loText = strings.TrimSpace(loText)
	if loText == "" && ranged {
		loText = "0"
	}
	if lo, err = strconv.Atoi(loText); err != nil {
		return "", "", 0, 0, fmt.Errorf("spacer minimum %q is not a number", loText)
	}
	hi = lo
	if ranged {
		hiText = strings.TrimSpace(hiText)
		if hi, err = strconv.Atoi(hiText); err != nil {
			return "", "", 0, 0, fmt.Errorf("spacer maximum %q is not a number", hiText)
		}
	}

	switch {
	case lo < 0:
		return "", "", 0, 0, fmt.Errorf("spacer minimum %d is negative", lo)
	case lo > hi:
		return "", "", 0, 0, fmt.Errorf("spacer minimum %d exceeds maximum %d", lo, hi)
	case hi > MaxSpacer:
		return "", "", 0, 0, fmt.Errorf("spacer maximum %d exceeds limit %d", hi, MaxSpacer)
	}
	return left, right, lo, hi, nil
}

func (g *Gap) sealed() {}

// Kind returns KindGap.
func (g *Gap) Kind() Kind { return KindGap }

// Pattern returns the normalized "LEFT{min,max}RIGHT" form.
func (g *Gap) Pattern() string { return g.pattern }

// Bounds returns the inclusive spacer bounds.
func (g *Gap) Bounds() (lo, hi int) { return g.minGap, g.maxGap }

func (g *Gap) States() []State         { return stateRange(len(g.delta)) }
func (g *Gap) InitialStates() StateSet { return StateSet{0} }
func (g *Gap) AcceptStates() StateSet  { return StateSet{g.accept} }
func (g *Gap) Symbols() []byte         { return symbols() }

// Transitions includes the non-consuming spacer exits under Epsilon.
func (g *Gap) Transitions() Transitions {
	return g.delta.export(g.epsilon)
}

// CurrentStates returns the distinct states of the live threads.
func (g *Gap) CurrentStates() StateSet {
	states := make([]State, len(g.threads))
	for i, t := range g.threads {
		states[i] = t.state
	}
	return NewStateSet(states...)
}

// Reset leaves a single thread at Q0.
func (g *Gap) Reset() {
	g.threads = []thread{{state: 0, start: -1}}
	g.pos = 0
}

// Step advances every thread by one base and follows spacer exits.
func (g *Gap) Step(symbol byte) StepResult {
	symbol = alphabet.Upper(symbol)
	old := g.CurrentStates()
	pos := g.pos
	g.pos++

	col := alphabet.Index(symbol)
	if col < 0 {
		g.threads = []thread{{state: 0, start: -1}}
		return StepResult{
			States:      StateSet{0},
			Description: narrate(symbol, old, StateSet{0}, foreignNote(symbol)),
		}
	}

	var (
		next   []thread
		seen   = make(map[thread]bool)
		closed bool
	)
	var add func(t thread)
	add = func(t thread) {
		if seen[t] {
			return
		}
		seen[t] = true
		next = append(next, t)
		for _, e := range g.epsilon[t.state] {
			closed = true
			add(thread{state: e, start: t.start})
		}
	}

	for _, t := range g.threads {
		for _, dst := range g.delta[t.state][col] {
			start := t.start
			if t.state == 0 && dst != 0 {
				start = pos
			}
			add(thread{state: dst, start: start})
		}
	}
	add(thread{state: 0, start: -1})

	slices.SortFunc(next, func(x, y thread) int {
		if x.state != y.state {
			return int(x.state - y.state)
		}
		return x.start - y.start
	})
	g.threads = next

	var matches []Match
	for _, t := range next {
		if t.state == g.accept {
			matches = append(matches, Match{Start: t.start, End: pos})
		}
	}

	now := g.CurrentStates()
	var note string
	switch {
	case len(matches) > 0:
		spans := make([]string, len(matches))
		for i, m := range matches {
			spans[i] = fmt.Sprintf("%s spacer %d", m, m.Len()-len(g.left)-len(g.right))
		}
		note = " [MOTIF MATCHED: " + strings.Join(spans, ", ") + "]"
	case closed:
		note = " (ε: spacer may end here)"
	case len(now) > 1:
		note = fmt.Sprintf(" (%d active threads)", len(next)-1)
	case len(old) > 1:
		note = " (Reset to start)"
	}

	return StepResult{
		States:      now,
		Accepted:    len(matches) > 0,
		Description: narrate(symbol, old, now, note),
		Matches:     matches,
	}
}

// FindAllMatches reports every (left start, right end) window whose spacer
// length lies within the bounds.
func (g *Gap) FindAllMatches(sequence string) []Match {
	return scan(g, sequence)
}

// StateDescription explains a state's role in the left arm, spacer or right
// arm.
func (g *Gap) StateDescription(s State) string {
	a := State(len(g.left))
	switch {
	case s == 0:
		return fmt.Sprintf("Start State: looking for left arm '%s'", g.left)
	case s > 0 && s < a:
		return fmt.Sprintf("Left Arm: '%s' (need '%s')", g.left[:s], g.left[s:])
	case s >= a && s < g.closing:
		k := int(s - a)
		may := "no"
		if k >= g.minGap {
			may = "yes"
		}
		return fmt.Sprintf("Spacer: %d base(s) after '%s', allowed %d-%d (may close: %s)", k, g.left, g.minGap, g.maxGap, may)
	case s == g.closing:
		return fmt.Sprintf("Spacer Closed: expecting right arm '%s'", g.right)
	case s > g.closing && s < g.accept:
		j := int(s - g.closing)
		return fmt.Sprintf("Right Arm: '%s' (need '%s')", g.right[:j], g.right[j:])
	case s == g.accept:
		return fmt.Sprintf("Accept: '%s' + spacer + '%s' matched", g.left, g.right)
	default:
		return fmt.Sprintf("Unknown state %s", s.Label())
	}
}
