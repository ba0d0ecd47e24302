package domain

import (
	"fmt"
	"strings"
)

// TransitionKind is the outcome category of a Decision.
type TransitionKind int

const (
	// KindUndecided is the zero value: the policy did not reach a decision.
	KindUndecided TransitionKind = iota
	// KindStay keeps the agent where it is. Nothing is scheduled.
	KindStay
	// KindMovement schedules a move to the named connected bubble.
	KindMovement
)

func (k TransitionKind) String() string {
	switch k {
	case KindStay:
		return "stay"
	case KindMovement:
		return "movement"
	default:
		return "none"
	}
}

// ParseTransitionKind maps a configuration string to a TransitionKind.
// Empty and "none" map to KindUndecided. Unrecognized values are an ErrConfiguration.
func ParseTransitionKind(s string) (TransitionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stay":
		return KindStay, nil
	case "movement", "move":
		return KindMovement, nil
	case "", "none":
		return KindUndecided, nil
	}
	return KindUndecided, fmt.Errorf("%w: unknown transition kind %q", ErrConfiguration, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k TransitionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TransitionKind) UnmarshalText(text []byte) error {
	parsed, err := ParseTransitionKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Decision is the result of resolving a policy entry.
type Decision struct {
	// Next is the slug of the destination bubble. Ignored for KindStay.
	Next string
	Kind TransitionKind
	// Delay is added to the base time of the scheduled movement.
	Delay float64
}

func (d Decision) String() string {
	if d.Delay > 0 {
		return fmt.Sprintf("(%s, %s, +%g)", d.Next, d.Kind, d.Delay)
	}
	return fmt.Sprintf("(%s, %s)", d.Next, d.Kind)
}

// Stay returns a decision to remain in the current bubble.
func Stay() Decision {
	return Decision{Kind: KindStay}
}

// MoveTo returns a decision to move to slug at the base time.
func MoveTo(slug string) Decision {
	return Decision{Next: slug, Kind: KindMovement}
}

// MoveAfter returns a decision to move to slug delay time units after the base time.
func MoveAfter(slug string, delay float64) Decision {
	return Decision{Next: slug, Kind: KindMovement, Delay: delay}
}

// Decider resolves the next decision for the bubble it is registered under.
type Decider func() Decision

// Policy maps a bubble slug to its Decider.
// It must cover every bubble the agent can occupy.
type Policy map[string]Decider
