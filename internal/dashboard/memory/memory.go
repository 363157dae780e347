// Package memory is a fixture-backed dashboard source. It stands in for a
// real transaction backend and can simulate latency and outages.
package memory

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"dompet/internal/core"
)

//go:embed fixture.json
var defaultFixture []byte

// ErrUnavailable is returned by a source configured to fail.
var ErrUnavailable = errors.New("dashboard source unavailable")

type Option func(*Source)

// WithDelay makes every read wait d before answering.
func WithDelay(d time.Duration) Option {
	return func(s *Source) { s.delay = d }
}

// WithFailure makes every read fail with err (ErrUnavailable when nil).
func WithFailure(err error) Option {
	return func(s *Source) {
		if err == nil {
			err = ErrUnavailable
		}
		s.fail = err
	}
}

// Source serves snapshots held in memory.
type Source struct {
	mu        sync.RWMutex
	snapshots map[core.Period]core.PeriodSnapshot
	delay     time.Duration
	fail      error
}

// New returns a source loaded with the embedded fixture.
func New(opts ...Option) (*Source, error) {
	return FromJSON(defaultFixture, opts...)
}

// FromFile loads snapshots from a JSON file shaped like the embedded fixture.
func FromFile(path string, opts ...Option) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return FromJSON(data, opts...)
}

// FromJSON decodes a list of period snapshots.
func FromJSON(data []byte, opts ...Option) (*Source, error) {
	var list []core.PeriodSnapshot
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode snapshots: %w", err)
	}
	s := &Source{snapshots: make(map[core.Period]core.PeriodSnapshot, len(list))}
	for _, snap := range list {
		if err := snap.Period.Validate(); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", snap.Period, err)
		}
		if _, dup := s.snapshots[snap.Period]; dup {
			return nil, fmt.Errorf("duplicate snapshot for %s", snap.Period)
		}
		s.snapshots[snap.Period] = snap
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Put adds or replaces the snapshot for its period.
func (s *Source) Put(snap core.PeriodSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.Period] = snap
}

func (s *Source) ReadPeriod(ctx context.Context, year, month int) (core.PeriodSnapshot, error) {
	p, err := core.NewPeriod(year, month)
	if err != nil {
		return core.PeriodSnapshot{}, err
	}
	if err := s.wait(ctx); err != nil {
		return core.PeriodSnapshot{}, err
	}

	s.mu.RLock()
	snap, ok := s.snapshots[p]
	s.mu.RUnlock()
	if !ok {
		return core.PeriodSnapshot{}, fmt.Errorf("%w: %s", core.ErrPeriodMissing, p)
	}
	return clone(snap), nil
}

func (s *Source) LatestPeriod(ctx context.Context) (core.Period, error) {
	if err := s.wait(ctx); err != nil {
		return core.Period{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.snapshots) == 0 {
		return core.Period{}, core.ErrPeriodMissing
	}
	periods := make([]core.Period, 0, len(s.snapshots))
	for p := range s.snapshots {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Key() > periods[j].Key() })
	return periods[0], nil
}

func (s *Source) wait(ctx context.Context) error {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}
	return s.fail
}

// clone copies the slices so callers cannot mutate stored snapshots.
func clone(snap core.PeriodSnapshot) core.PeriodSnapshot {
	snap.ByCategory = append([]core.CategoryAmount(nil), snap.ByCategory...)
	snap.Accounts = append([]core.Account(nil), snap.Accounts...)
	snap.Recent = append([]core.Transaction(nil), snap.Recent...)
	return snap
}
