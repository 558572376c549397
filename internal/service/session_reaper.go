package service

import (
	"context"
	"log"
	"time"
)

// SessionReaperConfig holds settings for the idle session reaper.
type SessionReaperConfig struct {
	Interval time.Duration
	IdleTTL  time.Duration
}

// SessionReaper periodically unloads review sessions nobody has touched for
// IdleTTL, keeping the in-memory session set bounded.
type SessionReaper struct {
	reviews ReviewService
	cfg     SessionReaperConfig
}

// NewSessionReaper creates a new SessionReaper.
func NewSessionReaper(reviews ReviewService, cfg SessionReaperConfig) *SessionReaper {
	return &SessionReaper{reviews: reviews, cfg: cfg}
}

// Start runs the reaping loop until ctx is canceled, then flushes every
// open session. With a non-positive interval or TTL only the final flush
// runs.
func (r *SessionReaper) Start(ctx context.Context) {
	if r.cfg.Interval <= 0 || r.cfg.IdleTTL <= 0 {
		log.Printf("sessionReaper: periodic eviction disabled (interval=%s, idleTTL=%s)", r.cfg.Interval, r.cfg.IdleTTL)
		<-ctx.Done()
		r.flush()
		return
	}

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	log.Printf("sessionReaper: started (interval=%s, idleTTL=%s)", r.cfg.Interval, r.cfg.IdleTTL)

	for {
		select {
		case <-ctx.Done():
			r.flush()
			return
		case <-ticker.C:
			if n := r.reviews.EvictIdle(r.cfg.IdleTTL); n > 0 {
				log.Printf("sessionReaper: evicted %d idle sessions", n)
			}
		}
	}
}

func (r *SessionReaper) flush() {
	n := r.reviews.EvictIdle(0)
	log.Printf("sessionReaper: shutdown complete, flushed %d sessions", n)
}
