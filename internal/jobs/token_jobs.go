package jobs

import (
	"context"
	"log/slog"
	"time"
)

// PurgeExpiredRefreshTokens deletes refresh tokens whose expiry passed more
// than the retention window ago.
func (jr *JobRunner) PurgeExpiredRefreshTokens() {
	jr.runWithRecovery("PurgeExpiredRefreshTokens", func() {
		ctx := context.Background()

		retention, err := time.ParseDuration(jr.config.JWT.RefreshRetention)
		if err != nil {
			slog.Error("Invalid refresh token retention", "value", jr.config.JWT.RefreshRetention, "error", err)
			return
		}

		purged, err := jr.jwtRepo.DeleteExpired(ctx, retention)
		if err != nil {
			slog.Error("Failed to purge expired refresh tokens", "error", err)
			return
		}

		slog.Info("Expired refresh tokens purged", "count", purged)
	})
}
