package cache

import (
	"context"
	"time"

	applog "dompet/internal/log"
)

// Cleaner is implemented by caches with expirable entries.
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically sweeps expired entries out of registered caches.
type Janitor struct {
	interval time.Duration
	caches   []Cleaner
	logger   *applog.Logger
}

// NewJanitor returns a janitor sweeping every interval.
func NewJanitor(interval time.Duration, logger *applog.Logger, caches ...Cleaner) *Janitor {
	return &Janitor{interval: interval, caches: caches, logger: logger.WithComponent(applog.ComponentCache)}
}

// Sweep runs one cleanup pass and returns the number of dropped entries.
func (j *Janitor) Sweep() int {
	total := 0
	for _, c := range j.caches {
		total += c.CleanExpired()
	}
	return total
}

// Run sweeps until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := j.Sweep(); n > 0 {
				j.logger.Debug("Cache cleanup completed", "entries_removed", n)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
