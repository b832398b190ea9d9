package utils

import (
	"time"

	"edutrek/logger"

	"github.com/robfig/cron/v3"
)

// Purger drops expired entries and reports how many went.
type Purger interface {
	Purge() int
}

// Sweeper abandons attempt sessions idle past the TTL.
type Sweeper interface {
	Sweep(maxIdle time.Duration) int
}

// StartSweeper runs periodic cleanup of idle attempt sessions and expired
// cache entries. Returns the scheduler so main can stop it on shutdown.
func StartSweeper(sessions Sweeper, store Purger, sessionTTL time.Duration) *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("@every 5m", func() {
		if n := sessions.Sweep(sessionTTL); n > 0 {
			logger.Info("swept idle assessment sessions", "count", n)
		}
	}); err != nil {
		logger.Fatal("failed to schedule session sweep", "error", err)
	}

	if store != nil {
		if _, err := c.AddFunc("@every 10m", func() {
			if n := store.Purge(); n > 0 {
				logger.Debug("purged expired cache entries", "count", n)
			}
		}); err != nil {
			logger.Fatal("failed to schedule cache purge", "error", err)
		}
	}

	c.Start()
	return c
}
