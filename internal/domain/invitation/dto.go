package invitation

import "time"

// CreateRequest carries the caller-supplied attributes for a new invitation.
// The firm and the inviting user come from the caller's access token, never
// from the body. A uuid may be supplied by import tooling; normally it is
// assigned automatically before validation.
type CreateRequest struct {
	Name              string  `json:"name"`
	ClientEmail       string  `json:"client_email"`
	InvitationType    string  `json:"invitation_type"`
	InvitationTrigger string  `json:"invitation_trigger"`
	UUID              *string `json:"uuid,omitempty"`
}

// UpdateRequest updates a subset of invitation fields. The uuid is immutable
// once assigned and cannot be changed here.
type UpdateRequest struct {
	Name              *string `json:"name"`
	ClientEmail       *string `json:"client_email"`
	InvitationType    *string `json:"invitation_type"`
	InvitationTrigger *string `json:"invitation_trigger"`
}

// InvitationResponse - invitation payload returned by the API
type InvitationResponse struct {
	ID                string    `json:"id"`
	UUID              *string   `json:"uuid"`
	FirmID            *string   `json:"firm_id"`
	Name              string    `json:"name"`
	InvitedByUserID   string    `json:"invited_by_user_id"`
	ClientEmail       string    `json:"client_email,omitempty"`
	InvitationType    string    `json:"invitation_type,omitempty"`
	InvitationTrigger string    `json:"invitation_trigger,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewInvitationResponse maps an entity to its API payload.
func NewInvitationResponse(inv Invitation) InvitationResponse {
	return InvitationResponse{
		ID:                inv.ID,
		UUID:              inv.UUID,
		FirmID:            inv.FirmID,
		Name:              inv.Name,
		InvitedByUserID:   inv.InvitedByUserID,
		ClientEmail:       inv.ClientEmail,
		InvitationType:    string(inv.InvitationType),
		InvitationTrigger: string(inv.InvitationTrigger),
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
	}
}

// NewInvitationResponses maps a list of entities.
func NewInvitationResponses(invs []Invitation) []InvitationResponse {
	out := make([]InvitationResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, NewInvitationResponse(inv))
	}
	return out
}
