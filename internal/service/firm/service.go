package firm

import (
	"context"
	"fmt"

	"github.com/balancehq/practice-backend-go/internal/domain/audit"
	"github.com/balancehq/practice-backend-go/internal/domain/firm"
	"github.com/balancehq/practice-backend-go/internal/domain/user"
	"github.com/balancehq/practice-backend-go/internal/pkg/database"
	"github.com/balancehq/practice-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
)

type FirmServiceImpl struct {
	db             *database.DB
	firmRepo       firm.FirmRepository
	accountantRepo firm.AccountantRepository
	userRepo       user.UserRepository
	auditRecorder  audit.Recorder
}

func NewFirmService(
	db *database.DB,
	firmRepo firm.FirmRepository,
	accountantRepo firm.AccountantRepository,
	userRepo user.UserRepository,
	auditRecorder audit.Recorder,
) firm.FirmService {
	return &FirmServiceImpl{
		db:             db,
		firmRepo:       firmRepo,
		accountantRepo: accountantRepo,
		userRepo:       userRepo,
		auditRecorder:  auditRecorder,
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

// Create implements firm.FirmService.
func (s *FirmServiceImpl) Create(ctx context.Context, req firm.CreateFirmRequest) (firm.Firm, error) {
	userID, firmID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return firm.Firm{}, err
	}
	if firmID != nil {
		return firm.Firm{}, firm.ErrUserAlreadyInFirm
	}

	userData, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return firm.Firm{}, user.ErrUserNotFound
		}
		return firm.Firm{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	if userData.FirmID != nil {
		return firm.Firm{}, firm.ErrUserAlreadyInFirm
	}

	var created firm.Firm
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		created, err = s.firmRepo.Create(txCtx, firm.Firm{Name: req.Name})
		if err != nil {
			return fmt.Errorf("failed to create firm: %w", err)
		}

		if err := s.userRepo.UpdateFirmAndRole(txCtx, userID, created.ID, user.RoleOwner); err != nil {
			return fmt.Errorf("failed to attach user to firm: %w", err)
		}

		// The creating user becomes the firm's first accountant.
		if _, err := s.accountantRepo.Create(txCtx, firm.Accountant{
			FirmID: created.ID,
			UserID: &userID,
			Name:   req.OwnerName,
			Email:  userData.Email,
		}); err != nil {
			return fmt.Errorf("failed to enroll owner as accountant: %w", err)
		}

		return s.auditRecorder.Record(txCtx, audit.Entry{
			ItemType: "Firm",
			ItemID:   created.ID,
			Event:    audit.EventCreate,
			ActorID:  &userID,
		})
	})
	if err != nil {
		return firm.Firm{}, err
	}

	return created, nil
}

// GetByID implements firm.FirmService.
func (s *FirmServiceImpl) GetByID(ctx context.Context, id string) (firm.FirmResponse, error) {
	_, firmID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return firm.FirmResponse{}, err
	}
	if firmID == nil || *firmID != id {
		return firm.FirmResponse{}, firm.ErrFirmForbidden
	}

	firmData, err := s.firmRepo.GetByID(ctx, id)
	if err != nil {
		return firm.FirmResponse{}, err
	}

	return firm.NewFirmResponse(firmData), nil
}

// Update implements firm.FirmService.
func (s *FirmServiceImpl) Update(ctx context.Context, id string, req firm.UpdateFirmRequest) error {
	userID, firmID, role, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	if firmID == nil || *firmID != id || role != string(user.RoleOwner) {
		return firm.ErrFirmForbidden
	}

	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := s.firmRepo.Update(txCtx, id, req); err != nil {
			return err
		}

		return s.auditRecorder.Record(txCtx, audit.Entry{
			ItemType: "Firm",
			ItemID:   id,
			Event:    audit.EventUpdate,
			ActorID:  &userID,
		})
	})
}

// AddAccountant implements firm.FirmService.
func (s *FirmServiceImpl) AddAccountant(ctx context.Context, firmIDParam string, req firm.AddAccountantRequest) (firm.Accountant, error) {
	userID, firmID, role, err := getClaimsFromContext(ctx)
	if err != nil {
		return firm.Accountant{}, err
	}
	if firmID == nil || *firmID != firmIDParam || role != string(user.RoleOwner) {
		return firm.Accountant{}, firm.ErrFirmForbidden
	}

	taken, err := s.accountantRepo.ExistsByEmail(ctx, firmIDParam, req.Email)
	if err != nil {
		return firm.Accountant{}, fmt.Errorf("failed to check accountant email: %w", err)
	}
	if taken {
		return firm.Accountant{}, firm.ErrAccountantEmailTaken
	}

	var created firm.Accountant
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		created, err = s.accountantRepo.Create(txCtx, firm.Accountant{
			FirmID: firmIDParam,
			Name:   req.Name,
			Email:  req.Email,
		})
		if err != nil {
			return fmt.Errorf("failed to create accountant: %w", err)
		}

		return s.auditRecorder.Record(txCtx, audit.Entry{
			ItemType: "Accountant",
			ItemID:   created.ID,
			Event:    audit.EventCreate,
			ActorID:  &userID,
		})
	})
	if err != nil {
		return firm.Accountant{}, err
	}

	return created, nil
}

// ListAccountants implements firm.FirmService.
func (s *FirmServiceImpl) ListAccountants(ctx context.Context, firmIDParam string) ([]firm.Accountant, error) {
	_, firmID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if firmID == nil || *firmID != firmIDParam {
		return nil, firm.ErrFirmForbidden
	}

	accountants, err := s.accountantRepo.ListByFirm(ctx, firmIDParam)
	if err != nil {
		return nil, fmt.Errorf("failed to list accountants: %w", err)
	}

	return accountants, nil
}
