package audit

import "context"

// Recorder defines the interface for change-history data access
type Recorder interface {
	// Record appends one entry
	Record(ctx context.Context, entry Entry) error

	// ListByItem lists an item's entries, oldest first
	ListByItem(ctx context.Context, itemType string, itemID string) ([]Entry, error)
}
