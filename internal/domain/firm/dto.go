package firm

import (
	"time"

	"github.com/balancehq/practice-backend-go/internal/pkg/validator"
)

type FirmResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"firm_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewFirmResponse(f Firm) FirmResponse {
	return FirmResponse{
		ID:        f.ID,
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

type AccountantResponse struct {
	ID        string    `json:"id"`
	FirmID    string    `json:"firm_id"`
	UserID    *string   `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAccountantResponse(a Accountant) AccountantResponse {
	return AccountantResponse{
		ID:        a.ID,
		FirmID:    a.FirmID,
		UserID:    a.UserID,
		Name:      a.Name,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}

func NewAccountantResponses(accountants []Accountant) []AccountantResponse {
	out := make([]AccountantResponse, 0, len(accountants))
	for _, a := range accountants {
		out = append(out, NewAccountantResponse(a))
	}
	return out
}

type CreateFirmRequest struct {
	Name string `json:"firm_name"`
	// Display name of the creating user, used for their accountant record.
	OwnerName string `json:"owner_name"`
}

func (r *CreateFirmRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "firm_name",
			Message: "firm_name is required",
		})
	}
	if validator.IsEmpty(r.OwnerName) {
		errs = append(errs, validator.ValidationError{
			Field:   "owner_name",
			Message: "owner_name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateFirmRequest struct {
	Name *string `json:"firm_name,omitempty"`
}

func (r *UpdateFirmRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "firm_name",
			Message: "firm_name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AddAccountantRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r *AddAccountantRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email format is invalid",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
