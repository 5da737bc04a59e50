package audit

import "time"

// EntryResponse - change-history payload returned by the API
type EntryResponse struct {
	ID        string    `json:"id"`
	ItemType  string    `json:"item_type"`
	ItemID    string    `json:"item_id"`
	Event     string    `json:"event"`
	ActorID   *string   `json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEntryResponses maps entries to their API payload.
func NewEntryResponses(entries []Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryResponse{
			ID:        e.ID,
			ItemType:  e.ItemType,
			ItemID:    e.ItemID,
			Event:     string(e.Event),
			ActorID:   e.ActorID,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
