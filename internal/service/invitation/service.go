package invitation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/balancehq/practice-backend-go/internal/domain/audit"
	"github.com/balancehq/practice-backend-go/internal/domain/firm"
	"github.com/balancehq/practice-backend-go/internal/domain/invitation"
	"github.com/balancehq/practice-backend-go/internal/pkg/database"
	"github.com/balancehq/practice-backend-go/internal/pkg/email"
	"github.com/balancehq/practice-backend-go/internal/pkg/validator"
	"github.com/balancehq/practice-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
)

const auditItemType = "Invitation"

type InvitationServiceImpl struct {
	db             *database.DB
	invitationRepo invitation.InvitationRepository
	firmRepo       firm.FirmRepository
	accountantRepo firm.AccountantRepository
	auditRecorder  audit.Recorder
	emailService   email.EmailService
	inviteLinkBase string
}

func NewInvitationService(
	db *database.DB,
	invitationRepo invitation.InvitationRepository,
	firmRepo firm.FirmRepository,
	accountantRepo firm.AccountantRepository,
	auditRecorder audit.Recorder,
	emailService email.EmailService,
	inviteLinkBase string,
) invitation.InvitationService {
	return &InvitationServiceImpl{
		db:             db,
		invitationRepo: invitationRepo,
		firmRepo:       firmRepo,
		accountantRepo: accountantRepo,
		auditRecorder:  auditRecorder,
		emailService:   emailService,
		inviteLinkBase: inviteLinkBase,
	}
}

func getClaimsFromContext(ctx context.Context) (userID string, firmID *string, role string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", nil, "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", nil, "", fmt.Errorf("user_id claim is missing or invalid")
	}

	if v, ok := claims["firm_id"].(string); ok && v != "" {
		firmID = &v
	}
	role, _ = claims["role"].(string)

	return userID, firmID, role, nil
}

// sameFirm reports whether the invitation belongs to the caller's firm.
func sameFirm(inv invitation.Invitation, firmID *string) bool {
	return inv.HasFirm() && firmID != nil && *inv.FirmID == *firmID
}

// Create implements invitation.InvitationService.
func (s *InvitationServiceImpl) Create(ctx context.Context, req invitation.CreateRequest) (invitation.Invitation, error) {
	userID, firmID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return invitation.Invitation{}, err
	}

	inv := invitation.Invitation{
		FirmID:            firmID,
		Name:              req.Name,
		InvitedByUserID:   userID,
		ClientEmail:       req.ClientEmail,
		InvitationType:    invitation.Type(req.InvitationType),
		InvitationTrigger: invitation.Trigger(req.InvitationTrigger),
	}
	if req.UUID != nil {
		inv.UUID = req.UUID
	}

	// Identifier assignment runs before validation and again before save.
	inv.EnsureUUID()
	errs, err := s.validate(ctx, &inv, "")
	if err != nil {
		return invitation.Invitation{}, err
	}
	if len(errs) > 0 {
		return invitation.Invitation{}, errs
	}
	inv.EnsureUUID()

	var created invitation.Invitation
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		created, err = s.invitationRepo.Create(txCtx, inv)
		if err != nil {
			return err
		}

		return s.auditRecorder.Record(txCtx, audit.Entry{
			ItemType: auditItemType,
			ItemID:   created.ID,
			Event:    audit.EventCreate,
			ActorID:  &userID,
		})
	})
	if err != nil {
		return invitation.Invitation{}, err
	}

	if created.WantsEmail() {
		go s.sendInvitationEmail(created)
	}

	return created, nil
}

// Update implements invitation.InvitationService.
func (s *InvitationServiceImpl) Update(ctx context.Context, id string, req invitation.UpdateRequest) (invitation.Invitation, error) {
	userID, firmID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return invitation.Invitation{}, err
	}

	inv, err := s.invitationRepo.GetByID(ctx, id)
	if err != nil {
		return invitation.Invitation{}, err
	}
	if !sameFirm(inv, firmID) {
		return invitation.Invitation{}, invitation.ErrInvitationForbidden
	}

	if req.Name != nil {
		inv.Name = *req.Name
	}
	if req.ClientEmail != nil {
		inv.ClientEmail = *req.ClientEmail
	}
	if req.InvitationType != nil {
		inv.InvitationType = invitation.Type(*req.InvitationType)
	}
	if req.InvitationTrigger != nil {
		inv.InvitationTrigger = invitation.Trigger(*req.InvitationTrigger)
	}

	// A legacy row picks up its identifier on the first save that touches it.
	inv.EnsureUUID()
	errs, err := s.validate(ctx, &inv, inv.ID)
	if err != nil {
		return invitation.Invitation{}, err
	}
	if len(errs) > 0 {
		return invitation.Invitation{}, errs
	}
	inv.EnsureUUID()

	var updated invitation.Invitation
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		updated, err = s.invitationRepo.Update(txCtx, inv)
		if err != nil {
			return err
		}

		return s.auditRecorder.Record(txCtx, audit.Entry{
			ItemType: auditItemType,
			ItemID:   updated.ID,
			Event:    audit.EventUpdate,
			ActorID:  &userID,
		})
	})
	if err != nil {
		return invitation.Invitation{}, err
	}

	return updated, nil
}

// GetByID implements invitation.InvitationService.
func (s *InvitationServiceImpl) GetByID(ctx context.Context, id string) (invitation.Invitation, error) {
	_, firmID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return invitation.Invitation{}, err
	}

	inv, err := s.invitationRepo.GetByID(ctx, id)
	if err != nil {
		return invitation.Invitation{}, err
	}
	if !sameFirm(inv, firmID) {
		return invitation.Invitation{}, invitation.ErrInvitationForbidden
	}

	return inv, nil
}

// GetByUUID implements invitation.InvitationService.
func (s *InvitationServiceImpl) GetByUUID(ctx context.Context, uuid string) (invitation.Invitation, error) {
	_, firmID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return invitation.Invitation{}, err
	}

	inv, err := s.invitationRepo.GetByUUID(ctx, uuid)
	if err != nil {
		return invitation.Invitation{}, err
	}
	if !sameFirm(inv, firmID) {
		return invitation.Invitation{}, invitation.ErrInvitationForbidden
	}

	return inv, nil
}

// List implements invitation.InvitationService.
func (s *InvitationServiceImpl) List(ctx context.Context) ([]invitation.Invitation, error) {
	_, firmID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if firmID == nil {
		return nil, invitation.ErrInvitationForbidden
	}

	invitations, err := s.invitationRepo.ListByFirm(ctx, *firmID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	return invitations, nil
}

// Delete implements invitation.InvitationService.
func (s *InvitationServiceImpl) Delete(ctx context.Context, id string) error {
	userID, firmID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	inv, err := s.invitationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !sameFirm(inv, firmID) {
		return invitation.ErrInvitationForbidden
	}

	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := s.invitationRepo.Delete(txCtx, id); err != nil {
			return err
		}

		return s.auditRecorder.Record(txCtx, audit.Entry{
			ItemType: auditItemType,
			ItemID:   id,
			Event:    audit.EventDestroy,
			ActorID:  &userID,
		})
	})
}

// ListAuditEntries implements invitation.InvitationService.
func (s *InvitationServiceImpl) ListAuditEntries(ctx context.Context, id string) ([]audit.Entry, error) {
	_, firmID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	inv, err := s.invitationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sameFirm(inv, firmID) {
		return nil, invitation.ErrInvitationForbidden
	}

	entries, err := s.auditRecorder.ListByItem(ctx, auditItemType, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	return entries, nil
}

// validate runs the entity's own rules plus the data-backed ones and returns
// every failure together. A repository error is a system failure, reported
// separately from the verdict. excludeID carries the record's own id on
// update so the uniqueness check skips it.
func (s *InvitationServiceImpl) validate(ctx context.Context, inv *invitation.Invitation, excludeID string) (validator.ValidationErrors, error) {
	errs := inv.Validate()

	// The firm-member check only runs when a firm is attached, even though
	// firm presence is validated above. A firm-less record simply skips it.
	if inv.HasFirm() && !validator.IsEmpty(inv.ClientEmail) {
		emails, err := s.accountantRepo.ListEmailsByFirm(ctx, *inv.FirmID)
		if err != nil {
			return nil, fmt.Errorf("failed to load firm accountant emails: %w", err)
		}
		if validator.IsInSlice(inv.ClientEmail, emails) {
			errs = append(errs, validator.ValidationError{
				Field:   "client_email",
				Message: "Email of firm member cannot be used for client email",
			})
		}
	}

	if inv.UUIDValue() != "" {
		taken, err := s.invitationRepo.ExistsByUUID(ctx, inv.UUIDValue(), excludeID)
		if err != nil {
			return nil, fmt.Errorf("failed to check uuid uniqueness: %w", err)
		}
		if taken {
			errs = append(errs, validator.ValidationError{
				Field:   "uuid",
				Message: "uuid is already in use",
			})
		}
	}

	return errs, nil
}

func (s *InvitationServiceImpl) sendInvitationEmail(inv invitation.Invitation) {
	ctx := context.Background()

	firmName := ""
	if inv.HasFirm() {
		f, err := s.firmRepo.GetByID(ctx, *inv.FirmID)
		if err != nil {
			slog.Warn("failed to load firm for invitation email", "firm_id", *inv.FirmID, "error", err)
		} else {
			firmName = f.Name
		}
	}

	link := fmt.Sprintf("%s/%s", s.inviteLinkBase, inv.UUIDValue())
	if err := s.emailService.SendClientInvitation(inv.ClientEmail, inv.Name, firmName, link); err != nil {
		slog.Warn("failed to send invitation email", "invitation_id", inv.ID, "error", err)
	}
}
