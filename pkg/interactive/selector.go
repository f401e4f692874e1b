// Package interactive walks a list of update candidates with a human in
// the loop.
//
// The [Selector] is a small state machine. Each candidate is presented and
// the [Prompter] answers with a [Decision]; ApplyAll accepts the current
// candidate and every remaining one without further prompts, and Cancel
// discards every decision made so far.
package interactive

import (
	"context"
	"fmt"

	"github.com/matzehuels/gvc/pkg/errors"
	"github.com/matzehuels/gvc/pkg/resolve"
)

// State is the selector's position in the decision loop.
type State int

const (
	Presenting State = iota
	AwaitingDecision
	Accepted
	Skipped
	AllRemainingAccepted
	Cancelled
	Done
)

func (s State) String() string {
	switch s {
	case Presenting:
		return "presenting"
	case AwaitingDecision:
		return "awaiting-decision"
	case Accepted:
		return "accepted"
	case Skipped:
		return "skipped"
	case AllRemainingAccepted:
		return "all-remaining-accepted"
	case Cancelled:
		return "cancelled"
	case Done:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Decision is the answer to one presented candidate.
type Decision int

const (
	Accept Decision = iota
	Skip
	ApplyAll
	Cancel
)

func (d Decision) String() string {
	switch d {
	case Accept:
		return "accept"
	case Skip:
		return "skip"
	case ApplyAll:
		return "apply-all"
	case Cancel:
		return "cancel"
	}
	return fmt.Sprintf("decision(%d)", int(d))
}

// Prompt is what a Prompter shows for one candidate.
type Prompt struct {
	Candidate resolve.Candidate
	Index     int // Zero-based position
	Total     int
}

// Prompter asks for a decision on one candidate. It blocks until the user
// answers or ctx ends.
type Prompter interface {
	Decide(ctx context.Context, p Prompt) (Decision, error)
}

// PrompterFunc adapts a function to [Prompter].
type PrompterFunc func(ctx context.Context, p Prompt) (Decision, error)

// Decide calls f.
func (f PrompterFunc) Decide(ctx context.Context, p Prompt) (Decision, error) { return f(ctx, p) }

// Selector holds the state of one decision loop. The zero value is not
// usable; create one with [NewSelector].
type Selector struct {
	cands    []resolve.Candidate
	pos      int
	state    State
	accepted []resolve.Candidate
}

// NewSelector starts a loop over cands in the given order.
func NewSelector(cands []resolve.Candidate) *Selector {
	s := &Selector{cands: cands, state: Presenting}
	if len(cands) == 0 {
		s.state = Done
	}
	return s
}

// State returns the current state.
func (s *Selector) State() State { return s.state }

// Current returns the candidate being presented.
func (s *Selector) Current() (Prompt, bool) {
	if s.state != Presenting && s.state != AwaitingDecision {
		return Prompt{}, false
	}
	return Prompt{Candidate: s.cands[s.pos], Index: s.pos, Total: len(s.cands)}, true
}

// Present moves from Presenting to AwaitingDecision.
func (s *Selector) Present() (Prompt, error) {
	if s.state != Presenting {
		return Prompt{}, errors.New(errors.ErrCodeInternal, "cannot present in state %s", s.state)
	}
	s.state = AwaitingDecision
	p, _ := s.Current()
	return p, nil
}

// Decide applies d to the awaiting candidate and advances. It returns the
// transient state the candidate ended in (Accepted, Skipped,
// AllRemainingAccepted or Cancelled).
func (s *Selector) Decide(d Decision) (State, error) {
	if s.state != AwaitingDecision {
		return s.state, errors.New(errors.ErrCodeInternal, "cannot decide in state %s", s.state)
	}
	var outcome State
	switch d {
	case Accept:
		s.accepted = append(s.accepted, s.cands[s.pos])
		outcome = Accepted
	case Skip:
		outcome = Skipped
	case ApplyAll:
		s.accepted = append(s.accepted, s.cands[s.pos:]...)
		s.pos = len(s.cands)
		s.state = Done
		return AllRemainingAccepted, nil
	case Cancel:
		s.accepted = nil
		s.state = Cancelled
		return Cancelled, nil
	default:
		return s.state, errors.New(errors.ErrCodeInvalidInput, "unknown decision %d", int(d))
	}

	s.pos++
	if s.pos >= len(s.cands) {
		s.state = Done
	} else {
		s.state = Presenting
	}
	return outcome, nil
}

// Accepted returns the accepted candidates once the loop is Done. A
// cancelled loop returns a CANCELLED error and no candidates.
func (s *Selector) Accepted() ([]resolve.Candidate, error) {
	switch s.state {
	case Done:
		return s.accepted, nil
	case Cancelled:
		return nil, errors.New(errors.ErrCodeCancelled, "update cancelled, no changes were made")
	}
	return nil, errors.New(errors.ErrCodeInternal, "selection still in progress (%s)", s.state)
}

// Run drives a full loop with p and returns the accepted subset in
// candidate order. A prompter error or a Cancel decision yields no
// candidates.
func Run(ctx context.Context, cands []resolve.Candidate, p Prompter) ([]resolve.Candidate, error) {
	s := NewSelector(cands)
	for s.State() == Presenting {
		prompt, err := s.Present()
		if err != nil {
			return nil, err
		}
		d, err := p.Decide(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Wrap(errors.ErrCodeCancelled, ctx.Err(), "update interrupted, no changes were made")
			}
			return nil, err
		}
		if _, err := s.Decide(d); err != nil {
			return nil, err
		}
	}
	return s.Accepted()
}

// FirstOnly accepts the first candidate and nothing else. Filtered
// non-interactive updates use it.
func FirstOnly(cands []resolve.Candidate) []resolve.Candidate {
	if len(cands) == 0 {
		return nil
	}
	return cands[:1:1]
}
