package firm

import "time"

type Firm struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Accountant is a firm member. A firm's accountant emails are the reference
// set for the invitation client-email check.
type Accountant struct {
	ID        string
	FirmID    string
	UserID    *string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
