package firm

import "context"

type FirmService interface {
	// Create creates a firm, makes the caller its owner, and enrolls the
	// caller as the firm's first accountant
	Create(ctx context.Context, req CreateFirmRequest) (Firm, error)

	// GetByID retrieves the caller's firm
	GetByID(ctx context.Context, id string) (FirmResponse, error)

	// Update renames the firm (owner only)
	Update(ctx context.Context, id string, req UpdateFirmRequest) error

	// AddAccountant enrolls a new accountant into the firm (owner only)
	AddAccountant(ctx context.Context, firmID string, req AddAccountantRequest) (Accountant, error)

	// ListAccountants lists the firm's accountants
	ListAccountants(ctx context.Context, firmID string) ([]Accountant, error)
}
