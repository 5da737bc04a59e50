package user

import "time"

type Role string

const (
	RoleOwner      Role = "owner"      // Firm owner - full access
	RoleAccountant Role = "accountant" // Firm member
	RolePending    Role = "pending"    // Registered, not attached to a firm yet
)

type User struct {
	ID              string
	FirmID          *string
	Email           string
	PasswordHash    *string
	Role            Role
	OAuthProvider   *string
	OAuthProviderID *string
	EmailVerified   bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsOwner checks if user owns a firm
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// IsPending checks if user has not joined a firm yet
func (u *User) IsPending() bool {
	return u.Role == RolePending
}

// CanManageFirm checks if user can manage firm settings and membership
func (u *User) CanManageFirm() bool {
	return u.IsOwner()
}
