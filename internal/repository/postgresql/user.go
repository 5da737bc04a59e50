package postgresql

import (
	"context"
	"fmt"

	"github.com/balancehq/practice-backend-go/internal/domain/user"
	"github.com/balancehq/practice-backend-go/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, firm_id, email, password_hash, role, oauth_provider, oauth_provider_id,
			   email_verified, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var u user.User
	err := q.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.FirmID, &u.Email, &u.PasswordHash, &u.Role,
		&u.OAuthProvider, &u.OAuthProviderID, &u.EmailVerified,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return user.User{}, err
	}

	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, firm_id, email, password_hash, role, oauth_provider, oauth_provider_id,
			   email_verified, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u user.User
	err := q.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.FirmID, &u.Email, &u.PasswordHash, &u.Role,
		&u.OAuthProvider, &u.OAuthProviderID, &u.EmailVerified,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return user.User{}, err
	}

	return u, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (firm_id, email, password_hash, role, oauth_provider, oauth_provider_id, email_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, firm_id, email, password_hash, role, oauth_provider, oauth_provider_id,
				  email_verified, created_at, updated_at
	`

	var created user.User
	err := q.QueryRow(ctx, query,
		newUser.FirmID, newUser.Email, newUser.PasswordHash, newUser.Role,
		newUser.OAuthProvider, newUser.OAuthProviderID, newUser.EmailVerified,
	).Scan(
		&created.ID, &created.FirmID, &created.Email, &created.PasswordHash, &created.Role,
		&created.OAuthProvider, &created.OAuthProviderID, &created.EmailVerified,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// LinkGoogleAccount implements user.UserRepository.
func (r *userRepositoryImpl) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET oauth_provider = $1, oauth_provider_id = $2, email_verified = TRUE, updated_at = NOW()
		WHERE email = $3
		RETURNING id, firm_id, email, password_hash, role, oauth_provider, oauth_provider_id,
				  email_verified, created_at, updated_at
	`

	var updated user.User
	err := q.QueryRow(ctx, query, "google", googleID, email).Scan(
		&updated.ID, &updated.FirmID, &updated.Email, &updated.PasswordHash, &updated.Role,
		&updated.OAuthProvider, &updated.OAuthProviderID, &updated.EmailVerified,
		&updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		return user.User{}, err
	}

	return updated, nil
}

// UpdateFirmAndRole implements user.UserRepository.
func (r *userRepositoryImpl) UpdateFirmAndRole(ctx context.Context, userID, firmID string, role user.Role) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET firm_id = $1, role = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, firmID, role, userID).Scan(&updatedID); err != nil {
		return fmt.Errorf("failed to update user firm and role: %w", err)
	}

	return nil
}
