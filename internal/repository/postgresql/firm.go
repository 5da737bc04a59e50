package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/balancehq/practice-backend-go/internal/domain/firm"
	"github.com/balancehq/practice-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type firmRepositoryImpl struct {
	db *database.DB
}

// NewFirmRepository creates a new firm repository instance
func NewFirmRepository(db *database.DB) firm.FirmRepository {
	return &firmRepositoryImpl{db: db}
}

// Create implements firm.FirmRepository.
func (r *firmRepositoryImpl) Create(ctx context.Context, newFirm firm.Firm) (firm.Firm, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO firms (name)
		VALUES ($1)
		RETURNING id, name, created_at, updated_at
	`

	var created firm.Firm
	err := q.QueryRow(ctx, query, newFirm.Name).Scan(
		&created.ID, &created.Name, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return firm.Firm{}, fmt.Errorf("failed to create firm: %w", err)
	}

	return created, nil
}

// GetByID implements firm.FirmRepository.
func (r *firmRepositoryImpl) GetByID(ctx context.Context, id string) (firm.Firm, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, created_at, updated_at
		FROM firms
		WHERE id = $1
	`

	var f firm.Firm
	err := q.QueryRow(ctx, query, id).Scan(&f.ID, &f.Name, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return f, firm.ErrFirmNotFound
		}
		return f, fmt.Errorf("failed to get firm by id: %w", err)
	}

	return f, nil
}

// Update implements firm.FirmRepository.
func (r *firmRepositoryImpl) Update(ctx context.Context, id string, req firm.UpdateFirmRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for firm update")
	}
	updates["updated_at"] = time.Now()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	sql := "UPDATE firms SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d", i)
	args = append(args, id)

	var updatedID string
	if err := q.QueryRow(ctx, sql+" RETURNING id", args...).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return firm.ErrFirmNotFound
		}
		return fmt.Errorf("failed to update firm with id %s: %w", id, err)
	}
	return nil
}

type accountantRepositoryImpl struct {
	db *database.DB
}

// NewAccountantRepository creates a new accountant repository instance
func NewAccountantRepository(db *database.DB) firm.AccountantRepository {
	return &accountantRepositoryImpl{db: db}
}

// Create implements firm.AccountantRepository.
func (r *accountantRepositoryImpl) Create(ctx context.Context, newAccountant firm.Accountant) (firm.Accountant, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO accountants (firm_id, user_id, name, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, firm_id, user_id, name, email, created_at, updated_at
	`

	var created firm.Accountant
	err := q.QueryRow(ctx, query,
		newAccountant.FirmID, newAccountant.UserID, newAccountant.Name, newAccountant.Email,
	).Scan(
		&created.ID, &created.FirmID, &created.UserID, &created.Name, &created.Email,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return firm.Accountant{}, fmt.Errorf("failed to create accountant: %w", err)
	}

	return created, nil
}

// ListByFirm implements firm.AccountantRepository.
func (r *accountantRepositoryImpl) ListByFirm(ctx context.Context, firmID string) ([]firm.Accountant, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, firm_id, user_id, name, email, created_at, updated_at
		FROM accountants
		WHERE firm_id = $1
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, firmID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accountants: %w", err)
	}
	defer rows.Close()

	var accountants []firm.Accountant
	for rows.Next() {
		var a firm.Accountant
		err := rows.Scan(&a.ID, &a.FirmID, &a.UserID, &a.Name, &a.Email, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan accountant: %w", err)
		}
		accountants = append(accountants, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return accountants, nil
}

// ListEmailsByFirm implements firm.AccountantRepository.
func (r *accountantRepositoryImpl) ListEmailsByFirm(ctx context.Context, firmID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT email
		FROM accountants
		WHERE firm_id = $1
	`

	rows, err := q.Query(ctx, query, firmID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accountant emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan accountant email: %w", err)
		}
		emails = append(emails, email)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return emails, nil
}

// ExistsByEmail implements firm.AccountantRepository.
func (r *accountantRepositoryImpl) ExistsByEmail(ctx context.Context, firmID string, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM accountants WHERE firm_id = $1 AND email = $2)`

	var exists bool
	err := q.QueryRow(ctx, query, firmID, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check accountant email: %w", err)
	}

	return exists, nil
}
