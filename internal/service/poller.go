package service

import (
	"context"
	"fmt"
	"time"

	"github.com/avoronova/tally/internal/store"
)

// PollState is the verification poller's lifecycle state.
type PollState int

const (
	PollIdle PollState = iota
	PollPolling
	PollConfirmed
	PollTimedOut
)

func (s PollState) String() string {
	switch s {
	case PollIdle:
		return "idle"
	case PollPolling:
		return "polling"
	case PollConfirmed:
		return "confirmed"
	case PollTimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("PollState(%d)", int(s))
	}
}

// Clock abstracts time for the poller so tests run without real delays.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Poller confirms that an upserted batch became visible in the store. It
// reads the batch's first touched date at a fixed interval until a record
// shows up or the attempt budget runs out. Read errors count as empty
// results; only the budget ends the poll.
type Poller struct {
	records  store.RecordStore
	attempts int
	interval time.Duration
	clock    Clock

	// OnAttempt, when set, receives a countdown after each unconfirmed
	// attempt: the number of attempts still remaining.
	OnAttempt func(remaining int)

	state PollState
}

// NewPoller creates a poller with the given attempt budget and interval.
func NewPoller(records store.RecordStore, attempts int, interval time.Duration) *Poller {
	return &Poller{
		records:  records,
		attempts: attempts,
		interval: interval,
		clock:    realClock{},
	}
}

// WithClock replaces the poller's clock. For tests.
func (p *Poller) WithClock(c Clock) *Poller {
	p.clock = c
	return p
}

// State returns the poller's current state.
func (p *Poller) State() PollState { return p.state }

// Attempts returns the configured attempt budget.
func (p *Poller) Attempts() int { return p.attempts }

// Confirm polls until a record for date is visible. Returns nil on
// confirmation, ErrVerificationTimeout on budget exhaustion, or the
// context error if cancelled between attempts.
func (p *Poller) Confirm(ctx context.Context, date string) error {
	p.state = PollPolling

	for attempt := 1; attempt <= p.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			p.state = PollIdle
			return err
		}

		records, err := p.records.Search(ctx, []string{date})
		if err == nil && len(records) > 0 {
			p.state = PollConfirmed
			return nil
		}

		remaining := p.attempts - attempt
		if p.OnAttempt != nil {
			p.OnAttempt(remaining)
		}
		if remaining == 0 {
			break
		}

		select {
		case <-ctx.Done():
			p.state = PollIdle
			return ctx.Err()
		case <-p.clock.After(p.interval):
		}
	}

	p.state = PollTimedOut
	return fmt.Errorf("%w: no record for %s after %d attempts", ErrVerificationTimeout, date, p.attempts)
}
