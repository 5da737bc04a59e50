package invitation

import (
	"context"

	"github.com/balancehq/practice-backend-go/internal/domain/audit"
)

// InvitationService defines the interface for invitation business logic.
// Every operation requires an authenticated caller; the firm scope comes
// from the caller's access-token claims.
type InvitationService interface {
	// Create validates and persists a new invitation for the caller's firm.
	// Email-borne invitation types also send the client an invitation email.
	Create(ctx context.Context, req CreateRequest) (Invitation, error)

	// Update applies changes to an invitation and revalidates it
	Update(ctx context.Context, id string, req UpdateRequest) (Invitation, error)

	// GetByID retrieves one invitation belonging to the caller's firm
	GetByID(ctx context.Context, id string) (Invitation, error)

	// GetByUUID retrieves one invitation by uuid (case-sensitive)
	GetByUUID(ctx context.Context, uuid string) (Invitation, error)

	// List lists the caller's firm's invitations
	List(ctx context.Context) ([]Invitation, error)

	// Delete removes an invitation
	Delete(ctx context.Context, id string) error

	// ListAuditEntries lists the change history of one invitation
	ListAuditEntries(ctx context.Context, id string) ([]audit.Entry, error)
}
