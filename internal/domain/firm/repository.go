package firm

import "context"

type FirmRepository interface {
	Create(ctx context.Context, newFirm Firm) (Firm, error)
	GetByID(ctx context.Context, id string) (Firm, error)
	Update(ctx context.Context, id string, req UpdateFirmRequest) error
}

type AccountantRepository interface {
	Create(ctx context.Context, newAccountant Accountant) (Accountant, error)
	ListByFirm(ctx context.Context, firmID string) ([]Accountant, error)

	// ListEmailsByFirm returns the emails of a firm's accountants, used by
	// the invitation client-email check.
	ListEmailsByFirm(ctx context.Context, firmID string) ([]string, error)

	ExistsByEmail(ctx context.Context, firmID string, email string) (bool, error)
}
