package cache

import (
	"context"
	"time"
)

// Purger is any cache the janitor can sweep.
type Purger interface {
	PurgeExpired() int
}

// Janitor periodically sweeps expired entries out of registered caches so
// rarely-read keys do not pin memory until their next Get.
type Janitor struct {
	caches []Purger
}

func NewJanitor(caches ...Purger) *Janitor {
	return &Janitor{caches: caches}
}

func (j *Janitor) Register(p Purger) {
	j.caches = append(j.caches, p)
}

// Run sweeps on the given interval until the context is cancelled.
func (j *Janitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, c := range j.caches {
				c.PurgeExpired()
			}
		case <-ctx.Done():
			return
		}
	}
}
