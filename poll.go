package md2png

import (
	"context"
	"time"
)

// pollUntil calls check every interval until it reports true or ceiling has
// elapsed since the first call. Running out of time is the SettledByDeadline
// outcome, not an error; only an error from check or ctx ends the poll with
// an error. check runs at least once, and the call returns no later than
// ceiling+interval after it started (plus the duration of the last check).
func pollUntil(ctx context.Context, interval, ceiling time.Duration, check func(context.Context) (bool, error)) (SettleOutcome, error) {
	deadline := time.Now().Add(ceiling)

	for {
		done, err := check(ctx)
		if err != nil {
			return SettledByDeadline, err
		}
		if done {
			return SettledInTime, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return SettledByDeadline, nil
		}

		wait := interval
		if wait > remaining {
			wait = remaining
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return SettledByDeadline, ctx.Err()
		case <-timer.C:
		}
	}
}
