package response

import (
	"errors"
	"net/http"

	"github.com/balancehq/practice-backend-go/internal/domain/auth"
	"github.com/balancehq/practice-backend-go/internal/domain/firm"
	"github.com/balancehq/practice-backend-go/internal/domain/invitation"
	"github.com/balancehq/practice-backend-go/internal/domain/user"
	"github.com/balancehq/practice-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Auth domain errors
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Invitation domain errors
	case errors.Is(err, invitation.ErrInvitationNotFound):
		NotFound(w, "Invitation not found")
	case errors.Is(err, invitation.ErrInvitationForbidden):
		Forbidden(w, "You do not have access to this invitation")

	// Firm domain errors
	case errors.Is(err, firm.ErrFirmNotFound):
		NotFound(w, "Firm not found")
	case errors.Is(err, firm.ErrFirmForbidden):
		Forbidden(w, "You do not have access to this firm")
	case errors.Is(err, firm.ErrAccountantEmailTaken):
		Conflict(w, "An accountant with this email already exists in the firm")
	case errors.Is(err, firm.ErrUserAlreadyInFirm):
		Conflict(w, "User already belongs to a firm")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
