package invitation

import "context"

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create inserts a new invitation row
	Create(ctx context.Context, inv Invitation) (Invitation, error)

	// Update saves the mutable fields of an existing invitation
	Update(ctx context.Context, inv Invitation) (Invitation, error)

	// GetByID retrieves an invitation by its storage key
	GetByID(ctx context.Context, id string) (Invitation, error)

	// GetByUUID retrieves an invitation by its uuid (case-sensitive match)
	GetByUUID(ctx context.Context, uuid string) (Invitation, error)

	// ListByFirm lists a firm's invitations, newest first
	ListByFirm(ctx context.Context, firmID string) ([]Invitation, error)

	// Delete removes an invitation row
	Delete(ctx context.Context, id string) error

	// ExistsByUUID checks whether a persisted invitation other than excludeID
	// already carries the uuid, comparing case-sensitively. excludeID may be
	// empty on create.
	ExistsByUUID(ctx context.Context, uuid string, excludeID string) (bool, error)

	// ListIDsMissingUUID returns ids of rows that still lack a uuid, oldest
	// first, for the backfill sweep
	ListIDsMissingUUID(ctx context.Context, limit int) ([]string, error)

	// AssignUUID sets the uuid of a row that does not have one yet
	AssignUUID(ctx context.Context, id string, uuid string) error
}
