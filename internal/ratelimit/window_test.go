package ratelimit

import (
	"testing"
	"time"
)

func TestCheck_NoPriorClaim(t *testing.T) {
	d := Check(nil, time.Now())
	if !d.Allowed {
		t.Fatal("expected first-time session to be eligible")
	}
	if d.Wait != "" {
		t.Fatalf("expected empty wait message, got %q", d.Wait)
	}
}

func TestCheck_Boundary(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	exactlyOneHour := now.Add(-Window)
	if d := Check(&exactlyOneHour, now); !d.Allowed {
		t.Fatal("expected exactly one hour elapsed to be eligible")
	}

	justUnder := now.Add(-Window + time.Second)
	if d := Check(&justUnder, now); d.Allowed {
		t.Fatal("expected 59m59s elapsed to be denied")
	}

	over := now.Add(-Window - time.Minute)
	if d := Check(&over, now); !d.Allowed {
		t.Fatal("expected 61 minutes elapsed to be eligible")
	}
}

func TestCheck_WaitMessages(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name        string
		elapsed     time.Duration
		wantMinutes int
		wantWait    string
	}{
		{"45 minutes in", 45 * time.Minute, 15, "15 minutes"},
		{"1 minute in", 1 * time.Minute, 59, "59 minutes"},
		{"59 minutes in", 59 * time.Minute, 1, "1 minute"},
		{"partial minute rounds up", 44*time.Minute + 30*time.Second, 16, "16 minutes"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			last := now.Add(-tc.elapsed)
			d := Check(&last, now)
			if d.Allowed {
				t.Fatal("expected claim to be denied")
			}
			if d.RemainingMinutes != tc.wantMinutes {
				t.Fatalf("expected %d remaining minutes, got %d", tc.wantMinutes, d.RemainingMinutes)
			}
			if d.Wait != tc.wantWait {
				t.Fatalf("expected wait %q, got %q", tc.wantWait, d.Wait)
			}
		})
	}
}

func TestCheck_FutureClaimTimeFallsBackToOneHour(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	future := now.Add(30 * time.Minute)

	d := Check(&future, now)
	if d.Allowed {
		t.Fatal("expected future claim time to be denied")
	}
	if d.Wait != "1 hour" {
		t.Fatalf("expected stale-clock fallback message, got %q", d.Wait)
	}
}
