// Package biometric wraps the device unlock ceremony behind a narrow gate
// interface: a capability probe plus a single challenge/response
// authentication. On a phone this is fingerprint/face hardware; the desktop
// client stands it in with an enrolled device PIN verified over the terminal.
package biometric

import (
	"context"
	"errors"
)

// Capability reports what the device offers. Available requires both
// hardware and at least one enrolled credential. It is re-probed at process
// start, never cached across restarts.
type Capability struct {
	HardwarePresent bool
	Enrolled        bool
}

// Available reports whether a challenge can be issued at all.
func (c Capability) Available() bool {
	return c.HardwarePresent && c.Enrolled
}

// Outcome is the result of one authentication ceremony.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeCancelled
	OutcomeSuccess
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// ErrChallengeInFlight is returned when a second ceremony is requested while
// one is already running. Ceremonies are inherently exclusive.
var ErrChallengeInFlight = errors.New("biometric challenge already in flight")

// ErrNotEnrolled is returned by Challenge when no credential is enrolled.
var ErrNotEnrolled = errors.New("no biometric credential enrolled")

// Gate is the platform biometric facade.
//
// Contract:
//   - Probe: pure query, no side effects, no prompts.
//   - Challenge: runs exactly one ceremony and suspends until the user
//     completes or cancels it. Never retried automatically. A concurrent
//     second call fails with ErrChallengeInFlight.
type Gate interface {
	Probe(ctx context.Context) Capability
	Challenge(ctx context.Context, prompt string) (Outcome, error)
}
