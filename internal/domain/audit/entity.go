package audit

import "time"

// Event classifies a recorded change.
type Event string

const (
	EventCreate  Event = "create"
	EventUpdate  Event = "update"
	EventDestroy Event = "destroy"
)

// Entry is one row of change history for a persisted record. Entries are
// append-only and written in the same transaction as the change they
// describe.
type Entry struct {
	ID        string
	ItemType  string
	ItemID    string
	Event     Event
	ActorID   *string
	CreatedAt time.Time
}
