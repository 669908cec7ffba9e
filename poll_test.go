package md2png

import (
	"context"
	"errors"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestPollUntil - Bounded poll outcomes
// ---------------------------------------------------------------------------

func TestPollUntil(t *testing.T) {
	t.Parallel()

	boom := errors.New("transport closed")

	tests := []struct {
		name      string
		readyAt   int // call number that reports true; 0 never
		failAt    int // call number that returns boom; 0 never
		want      SettleOutcome
		wantErr   error
		wantCalls int // exact; 0 means "at least 2"
	}{
		{name: "ready on first call", readyAt: 1, want: SettledInTime, wantCalls: 1},
		{name: "ready on third call", readyAt: 3, want: SettledInTime, wantCalls: 3},
		{name: "never ready", want: SettledByDeadline},
		{name: "error stops polling", failAt: 2, wantErr: boom, wantCalls: 2},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			calls := 0
			check := func(context.Context) (bool, error) {
				calls++
				if calls == tt.failAt {
					return false, boom
				}
				return tt.readyAt != 0 && calls >= tt.readyAt, nil
			}

			got, err := pollUntil(context.Background(), 2*time.Millisecond, 40*time.Millisecond, check)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("pollUntil() error = %v, want %v", err, tt.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("pollUntil() error = %v", err)
				}
				if got != tt.want {
					t.Errorf("pollUntil() = %s, want %s", got, tt.want)
				}
			}

			if tt.wantCalls != 0 && calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantCalls == 0 && calls < 2 {
				t.Errorf("calls = %d, want at least 2", calls)
			}
		})
	}
}

func TestPollUntil_Bounds(t *testing.T) {
	t.Parallel()

	interval := 20 * time.Millisecond
	ceiling := 200 * time.Millisecond

	var stamps []time.Time
	check := func(context.Context) (bool, error) {
		stamps = append(stamps, time.Now())
		return false, nil
	}

	start := time.Now()
	got, err := pollUntil(context.Background(), interval, ceiling, check)
	elapsed := time.Since(start)

	if err != nil || got != SettledByDeadline {
		t.Fatalf("pollUntil() = %s, %v; want deadline, nil", got, err)
	}
	if elapsed < ceiling {
		t.Errorf("returned after %s, before the %s ceiling", elapsed, ceiling)
	}
	if limit := ceiling + interval + 500*time.Millisecond; elapsed > limit {
		t.Errorf("returned after %s, want under %s", elapsed, limit)
	}
	// No busy spinning: at most one call per interval, plus the final check.
	if maxCalls := int(ceiling/interval) + 2; len(stamps) > maxCalls {
		t.Errorf("calls = %d, want at most %d", len(stamps), maxCalls)
	}
}

func TestPollUntil_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	check := func(context.Context) (bool, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return false, nil
	}

	_, err := pollUntil(ctx, time.Millisecond, time.Hour, check)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("pollUntil() error = %v, want context.Canceled", err)
	}
}

func TestSettleOutcome_String(t *testing.T) {
	t.Parallel()

	if SettledInTime.String() != "settled" || SettledByDeadline.String() != "deadline" {
		t.Errorf("String() = %q, %q", SettledInTime, SettledByDeadline)
	}
	if got := SettleOutcome(7).String(); got != "SettleOutcome(7)" {
		t.Errorf("String() = %q", got)
	}
}
