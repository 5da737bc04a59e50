package postgresql

import (
	"context"
	"fmt"

	"github.com/balancehq/practice-backend-go/internal/domain/audit"
	"github.com/balancehq/practice-backend-go/internal/pkg/database"
)

type auditRecorderImpl struct {
	db *database.DB
}

// NewAuditRecorder creates a new audit recorder instance
func NewAuditRecorder(db *database.DB) audit.Recorder {
	return &auditRecorderImpl{db: db}
}

// Record implements audit.Recorder.
func (r *auditRecorderImpl) Record(ctx context.Context, entry audit.Entry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO audit_entries (item_type, item_id, event, actor_id)
		VALUES ($1, $2, $3, $4)
	`

	_, err := q.Exec(ctx, query, entry.ItemType, entry.ItemID, entry.Event, entry.ActorID)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	return nil
}

// ListByItem implements audit.Recorder.
func (r *auditRecorderImpl) ListByItem(ctx context.Context, itemType string, itemID string) ([]audit.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, item_type, item_id, event, actor_id, created_at
		FROM audit_entries
		WHERE item_type = $1 AND item_id = $2
		ORDER BY created_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, itemType, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.ItemType, &e.ItemID, &e.Event, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}
