// Package ratelimit decides claim eligibility for the one-claim-per-hour
// rule. The decision is a pure function of the last successful claim time
// and the current time; persistence of claim times is the caller's concern.
package ratelimit

import (
	"fmt"
	"time"
)

// Window is the minimum spacing between two successful claims by the same
// session.
const Window = time.Hour

// Decision is the outcome of an eligibility check.
type Decision struct {
	Allowed bool
	// RemainingMinutes is the minutes until the next allowed claim, rounded
	// up. Zero when Allowed.
	RemainingMinutes int
	// Wait is the operator-facing wait message, empty when Allowed.
	Wait string
}

// Check returns the eligibility decision for a session whose most recent
// successful claim happened at lastClaim (nil when the session has never
// claimed). The boundary is inclusive: exactly one hour elapsed is eligible.
func Check(lastClaim *time.Time, now time.Time) Decision {
	if lastClaim == nil {
		return Decision{Allowed: true}
	}

	elapsed := now.Sub(*lastClaim)
	if elapsed >= Window {
		return Decision{Allowed: true}
	}

	remaining := Window - elapsed
	minutes := int((remaining + time.Minute - 1) / time.Minute)

	return Decision{
		RemainingMinutes: minutes,
		Wait:             waitMessage(minutes),
	}
}

// waitMessage renders the remaining wait. A remainder above the window
// itself means the recorded claim time is in the future (client clock skew);
// report a flat hour rather than a nonsense minute count.
func waitMessage(minutes int) string {
	switch {
	case minutes > 60:
		return "1 hour"
	case minutes == 1:
		return "1 minute"
	default:
		return fmt.Sprintf("%d minutes", minutes)
	}
}
