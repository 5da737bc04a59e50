package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUserEmailExists        = errors.New("email already registered")
	ErrOwnerPrivilegeRequired = errors.New("owner privilege required")
)
