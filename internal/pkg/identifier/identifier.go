package identifier

import (
	"github.com/google/uuid"

	"github.com/balancehq/practice-backend-go/internal/pkg/validator"
)

// Identity gives an embedding entity a globally unique string identifier,
// assigned lazily before validation and before save. Once set it is never
// overwritten. Comparison is case-sensitive; uniqueness across rows is the
// embedding entity's own validation plus a storage-level unique index.
type Identity struct {
	UUID *string `json:"uuid"`
}

// EnsureUUID assigns a freshly generated identifier if none is set yet.
// Safe to call at both lifecycle points (pre-validate and pre-save):
// after the first assignment it is a no-op.
func (i *Identity) EnsureUUID() {
	if i.UUID == nil || *i.UUID == "" {
		u := uuid.New().String()
		i.UUID = &u
	}
}

// ValidateUUID checks identifier presence. The backfilled flag is supplied
// by the embedding entity and signals whether retrofitting of identifiers
// to pre-existing rows has completed for that entity type. Until then an
// unset identifier is tolerated, but a set-and-blank one never is.
func (i *Identity) ValidateUUID(backfilled bool) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if backfilled {
		if i.UUID == nil || validator.IsEmpty(*i.UUID) {
			errs = append(errs, validator.ValidationError{
				Field:   "uuid",
				Message: "uuid is required",
			})
		}
		return errs
	}
	if i.UUID != nil && validator.IsEmpty(*i.UUID) {
		errs = append(errs, validator.ValidationError{
			Field:   "uuid",
			Message: "uuid is required",
		})
	}
	return errs
}

// UUIDValue returns the identifier, or the empty string when unset.
func (i *Identity) UUIDValue() string {
	if i.UUID == nil {
		return ""
	}
	return *i.UUID
}
