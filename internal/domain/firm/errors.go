package firm

import "errors"

var (
	ErrFirmNotFound         = errors.New("firm not found")
	ErrFirmForbidden        = errors.New("firm belongs to another user")
	ErrAccountantEmailTaken = errors.New("an accountant with this email already exists in the firm")
	ErrUserAlreadyInFirm    = errors.New("user already belongs to a firm")
)
