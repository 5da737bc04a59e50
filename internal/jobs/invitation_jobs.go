package jobs

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// BackfillInvitationUUIDs assigns identifiers to invitations that predate
// identifier assignment. Filled rows are left alone, so the sweep is safe to
// run repeatedly. Once a run finds nothing to fill, the backfill is complete
// and INVITATION_UUID_BACKFILL_COMPLETE can be turned on.
func (jr *JobRunner) BackfillInvitationUUIDs() {
	jr.runWithRecovery("BackfillInvitationUUIDs", func() {
		ctx := context.Background()
		batchSize := jr.config.Cron.UUIDBackfillSize

		total := 0
		for {
			ids, err := jr.invitationRepo.ListIDsMissingUUID(ctx, batchSize)
			if err != nil {
				slog.Error("Failed to list invitations missing uuid", "error", err)
				return
			}
			if len(ids) == 0 {
				break
			}

			assigned := 0
			for _, id := range ids {
				if err := jr.invitationRepo.AssignUUID(ctx, id, uuid.New().String()); err != nil {
					slog.Error("Failed to assign invitation uuid", "invitation_id", id, "error", err)
					continue
				}
				assigned++
			}
			total += assigned

			// A batch where nothing could be assigned would repeat forever.
			if assigned == 0 {
				slog.Error("Invitation uuid backfill made no progress, stopping", "remaining", len(ids))
				return
			}
			if len(ids) < batchSize {
				break
			}
		}

		slog.Info("Invitation uuid backfill finished", "assigned", total)
	})
}
