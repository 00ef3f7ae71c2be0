package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avoronova/tally/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock fires immediately so poll tests run without real delays.
type fakeClock struct {
	waits int
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.waits++
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

// scriptedStore returns canned Search results per call, in order. Calls
// past the end of the script repeat the last entry.
type scriptedStore struct {
	results [][]store.Record
	errs    []error
	calls   int

	upserted  [][]store.Record
	upsertErr error
}

func (s *scriptedStore) Search(ctx context.Context, dates []string) ([]store.Record, error) {
	i := s.calls
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	s.calls++
	if i < 0 {
		return nil, nil
	}
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return s.results[i], err
}

func (s *scriptedStore) Upsert(ctx context.Context, records []store.Record, dedupFields []string) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserted = append(s.upserted, records)
	return nil
}

func visible() []store.Record {
	return []store.Record{{Name: "2025-03-01 - Anna Petrova", Date: "2025-03-01"}}
}

func TestPoller_TimesOutWhenNeverVisible(t *testing.T) {
	st := &scriptedStore{results: [][]store.Record{nil, nil}}
	p := NewPoller(st, 2, time.Second).WithClock(&fakeClock{})

	var countdown []int
	p.OnAttempt = func(remaining int) { countdown = append(countdown, remaining) }

	err := p.Confirm(context.Background(), "2025-03-01")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVerificationTimeout)
	assert.Equal(t, PollTimedOut, p.State())
	assert.Equal(t, 2, st.calls)
	assert.Equal(t, []int{1, 0}, countdown)
}

func TestPoller_ConfirmsOnLastAttempt(t *testing.T) {
	st := &scriptedStore{results: [][]store.Record{nil, visible()}}
	p := NewPoller(st, 2, time.Second).WithClock(&fakeClock{})

	err := p.Confirm(context.Background(), "2025-03-01")

	require.NoError(t, err)
	assert.Equal(t, PollConfirmed, p.State())
	assert.Equal(t, 2, st.calls)
}

func TestPoller_ConfirmsImmediately(t *testing.T) {
	st := &scriptedStore{results: [][]store.Record{visible()}}
	clock := &fakeClock{}
	p := NewPoller(st, 5, time.Second).WithClock(clock)

	require.NoError(t, p.Confirm(context.Background(), "2025-03-01"))
	assert.Equal(t, 1, st.calls)
	assert.Zero(t, clock.waits, "no wait after confirmation")
}

func TestPoller_ReadErrorsCountAsEmpty(t *testing.T) {
	st := &scriptedStore{
		results: [][]store.Record{nil, visible()},
		errs:    []error{store.ErrFetchFailed},
	}
	p := NewPoller(st, 3, time.Second).WithClock(&fakeClock{})

	require.NoError(t, p.Confirm(context.Background(), "2025-03-01"))
	assert.Equal(t, PollConfirmed, p.State())
	assert.Equal(t, 2, st.calls)
}

func TestPoller_CancelledBetweenAttempts(t *testing.T) {
	st := &scriptedStore{results: [][]store.Record{nil}}
	ctx, cancel := context.WithCancel(context.Background())

	p := NewPoller(st, 5, time.Second).WithClock(&fakeClock{})
	p.OnAttempt = func(remaining int) { cancel() }

	err := p.Confirm(ctx, "2025-03-01")
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, PollIdle, p.State())
}

func TestPoller_StateStartsIdle(t *testing.T) {
	p := NewPoller(&scriptedStore{}, 1, time.Second)
	assert.Equal(t, PollIdle, p.State())
	assert.Equal(t, "idle", p.State().String())
}
