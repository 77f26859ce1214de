package jobs

import (
	"context"

	"librental-backend/internal/logger"
)

// PurgeExpiredSessions deletes admin session rows whose expiry has
// passed. Runs hourly; the auth layer also drops expired sessions on
// sight, so this only sweeps up abandoned ones.
func (jr *JobRunner) PurgeExpiredSessions() {
	jr.runWithRecovery("PurgeExpiredSessions", func() {
		ctx := context.Background()

		deleted, err := jr.store.SessionRepository.DeleteExpired(ctx)
		if err != nil {
			logger.Error("Failed to purge expired sessions", "error", err)
			return
		}
		logger.Info("Purged expired sessions", "deleted", deleted)
	})
}
