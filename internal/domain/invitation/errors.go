package invitation

import "errors"

var (
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrInvitationForbidden = errors.New("invitation belongs to another firm")
)
