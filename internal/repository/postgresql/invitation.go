package postgresql

import (
	"context"
	"fmt"

	"github.com/balancehq/practice-backend-go/internal/domain/invitation"
	"github.com/balancehq/practice-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type invitationRepositoryImpl struct {
	db *database.DB
}

// NewInvitationRepository creates a new invitation repository instance
func NewInvitationRepository(db *database.DB) invitation.InvitationRepository {
	return &invitationRepositoryImpl{db: db}
}

// Create implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) Create(ctx context.Context, inv invitation.Invitation) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO invitations (
			uuid, firm_id, name, invited_by_user_id, client_email, invitation_type, invitation_trigger
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, uuid, firm_id, name, invited_by_user_id, client_email,
				  invitation_type, invitation_trigger, created_at, updated_at
	`

	var created invitation.Invitation
	err := q.QueryRow(ctx, query,
		inv.UUID, inv.FirmID, inv.Name, inv.InvitedByUserID,
		inv.ClientEmail, inv.InvitationType, inv.InvitationTrigger,
	).Scan(
		&created.ID, &created.UUID, &created.FirmID, &created.Name, &created.InvitedByUserID,
		&created.ClientEmail, &created.InvitationType, &created.InvitationTrigger,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return invitation.Invitation{}, fmt.Errorf("failed to create invitation: %w", err)
	}

	return created, nil
}

// Update implements invitation.InvitationRepository.
// The uuid is written back so a legacy row picks one up on its next save,
// never to replace a value that is already set.
func (r *invitationRepositoryImpl) Update(ctx context.Context, inv invitation.Invitation) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invitations
		SET uuid = $1, name = $2, client_email = $3, invitation_type = $4,
			invitation_trigger = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING id, uuid, firm_id, name, invited_by_user_id, client_email,
				  invitation_type, invitation_trigger, created_at, updated_at
	`

	var updated invitation.Invitation
	err := q.QueryRow(ctx, query,
		inv.UUID, inv.Name, inv.ClientEmail, inv.InvitationType, inv.InvitationTrigger, inv.ID,
	).Scan(
		&updated.ID, &updated.UUID, &updated.FirmID, &updated.Name, &updated.InvitedByUserID,
		&updated.ClientEmail, &updated.InvitationType, &updated.InvitationTrigger,
		&updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return invitation.Invitation{}, invitation.ErrInvitationNotFound
		}
		return invitation.Invitation{}, fmt.Errorf("failed to update invitation: %w", err)
	}

	return updated, nil
}

// GetByID implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) GetByID(ctx context.Context, id string) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, uuid, firm_id, name, invited_by_user_id, client_email,
			   invitation_type, invitation_trigger, created_at, updated_at
		FROM invitations
		WHERE id = $1
	`

	var inv invitation.Invitation
	err := q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.UUID, &inv.FirmID, &inv.Name, &inv.InvitedByUserID,
		&inv.ClientEmail, &inv.InvitationType, &inv.InvitationTrigger,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return inv, invitation.ErrInvitationNotFound
		}
		return inv, fmt.Errorf("failed to get invitation by id: %w", err)
	}

	return inv, nil
}

// GetByUUID implements invitation.InvitationRepository.
// Plain text equality, so the match is case-sensitive.
func (r *invitationRepositoryImpl) GetByUUID(ctx context.Context, uuid string) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, uuid, firm_id, name, invited_by_user_id, client_email,
			   invitation_type, invitation_trigger, created_at, updated_at
		FROM invitations
		WHERE uuid = $1
	`

	var inv invitation.Invitation
	err := q.QueryRow(ctx, query, uuid).Scan(
		&inv.ID, &inv.UUID, &inv.FirmID, &inv.Name, &inv.InvitedByUserID,
		&inv.ClientEmail, &inv.InvitationType, &inv.InvitationTrigger,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return inv, invitation.ErrInvitationNotFound
		}
		return inv, fmt.Errorf("failed to get invitation by uuid: %w", err)
	}

	return inv, nil
}

// ListByFirm implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) ListByFirm(ctx context.Context, firmID string) ([]invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, uuid, firm_id, name, invited_by_user_id, client_email,
			   invitation_type, invitation_trigger, created_at, updated_at
		FROM invitations
		WHERE firm_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, firmID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []invitation.Invitation
	for rows.Next() {
		var inv invitation.Invitation
		err := rows.Scan(
			&inv.ID, &inv.UUID, &inv.FirmID, &inv.Name, &inv.InvitedByUserID,
			&inv.ClientEmail, &inv.InvitationType, &inv.InvitationTrigger,
			&inv.CreatedAt, &inv.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return invitations, nil
}

// Delete implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM invitations
		WHERE id = $1
		RETURNING id
	`

	var deletedID string
	err := q.QueryRow(ctx, query, id).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return invitation.ErrInvitationNotFound
		}
		return fmt.Errorf("failed to delete invitation: %w", err)
	}

	return nil
}

// ExistsByUUID implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) ExistsByUUID(ctx context.Context, uuid string, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	var err error

	if excludeID == "" {
		query := `SELECT EXISTS(SELECT 1 FROM invitations WHERE uuid = $1)`
		err = q.QueryRow(ctx, query, uuid).Scan(&exists)
	} else {
		query := `SELECT EXISTS(SELECT 1 FROM invitations WHERE uuid = $1 AND id <> $2)`
		err = q.QueryRow(ctx, query, uuid, excludeID).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("failed to check uuid uniqueness: %w", err)
	}

	return exists, nil
}

// ListIDsMissingUUID implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) ListIDsMissingUUID(ctx context.Context, limit int) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id
		FROM invitations
		WHERE uuid IS NULL OR uuid = ''
		ORDER BY created_at ASC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations missing uuid: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan invitation id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return ids, nil
}

// AssignUUID implements invitation.InvitationRepository.
// Only touches rows that still lack a uuid; assigning to an already-filled
// row is a silent no-op so the backfill sweep stays idempotent.
func (r *invitationRepositoryImpl) AssignUUID(ctx context.Context, id string, uuid string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invitations
		SET uuid = $1, updated_at = NOW()
		WHERE id = $2 AND (uuid IS NULL OR uuid = '')
	`

	if _, err := q.Exec(ctx, query, uuid, id); err != nil {
		return fmt.Errorf("failed to assign invitation uuid: %w", err)
	}

	return nil
}
