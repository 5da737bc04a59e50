package postgresql_test

import (
	"context"
	"testing"

	"github.com/balancehq/practice-backend-go/internal/domain/audit"
	"github.com/balancehq/practice-backend-go/internal/domain/invitation"
	"github.com/balancehq/practice-backend-go/internal/pkg/identifier"
	"github.com/balancehq/practice-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper: insert an invitation row directly, optionally without a uuid and
// with a controlled age so ordering assertions are deterministic
func insertInvitationRow(t *testing.T, ctx context.Context, firmID string, userID string, uuid *string, ageHours int) string {
	var id string
	err := testDB.QueryRow(ctx, `
		INSERT INTO invitations (uuid, firm_id, name, invited_by_user_id, created_at, updated_at)
		VALUES ($1, $2, 'Fixture Client', $3, NOW() - make_interval(hours => $4), NOW())
		RETURNING id
	`, uuid, firmID, userID, ageHours).Scan(&id)
	require.NoError(t, err)
	return id
}

// ===== INVITATION REPOSITORY TESTS =====

func TestInvitationRepository_Create_Success(t *testing.T) {
	repoTestInit(t)
	defer cleanupTestData(t)
	cleanupTestData(t)

	ctx := context.Background()
	firmID := createTestFirm(t, ctx)
	inviter := createTestUser(t, ctx, "inviter@example.com")
	invitationRepo := postgresql.NewInvitationRepository(testDB)

	u := "11111111-2222-4333-8444-555555555555"
	newInvitation := invitation.Invitation{
		Identity:          identifier.Identity{UUID: &u},
		FirmID:            &firmID,
		Name:              "Acme Client",
		InvitedByUserID:   inviter.ID,
		ClientEmail:       "client@acme.example.com",
		InvitationType:    invitation.TypeEmailInvite,
		InvitationTrigger: invitation.TriggerImmediate,
	}

	created, err := invitationRepo.Create(ctx, newInvitation)

	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, u, created.UUIDValue())
	require.NotNil(t, created.FirmID)
	assert.Equal(t, firmID, *created.FirmID)
	assert.Equal(t, "Acme Client", created.Name)
	assert.Equal(t, invitation.TypeEmailInvite, created.InvitationType)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestInvitationRepository_GetByUUID_ExactCaseOnly(t *testing.T) {
	repoTestInit(t)
	defer cleanupTestData(t)
	cleanupTestData(t)

	ctx := context.Background()
	firmID := createTestFirm(t, ctx)
	inviter := createTestUser(t, ctx, "inviter@example.com")
	invitationRepo := postgresql.NewInvitationRepository(testDB)

	mixedCase := "MiXeD-CaSe-001"
	id := insertInvitationRow(t, ctx, firmID, inviter.ID, &mixedCase, 0)

	found, err := invitationRepo.GetByUUID(ctx, "MiXeD-CaSe-001")
	assert.NoError(t, err)
	assert.Equal(t, id, found.ID)

	_, err = invitationRepo.GetByUUID(ctx, "mixed-case-001")
	assert.Error(t, err)
	assert.Equal(t, invitation.ErrInvitationNotFound, err)
}

func TestInvitationRepository_ExistsByUUID(t *testing.T) {
	repoTestInit(t)
	defer cleanupTestData(t)
	cleanupTestData(t)

	ctx := context.Background()
	firmID := createTestFirm(t, ctx)
	inviter := createTestUser(t, ctx, "inviter@example.com")
	invitationRepo := postgresql.NewInvitationRepository(testDB)

	taken := "Taken-Identifier-001"
	ownerID := insertInvitationRow(t, ctx, firmID, inviter.ID, &taken, 0)

	// Another record asking about the same identifier
	exists, err := invitationRepo.ExistsByUUID(ctx, taken, "")
	assert.NoError(t, err)
	assert.True(t, exists)

	// The record itself is excluded on update
	exists, err = invitationRepo.ExistsByUUID(ctx, taken, ownerID)
	assert.NoError(t, err)
	assert.False(t, exists)

	// Case matters
	exists, err = invitationRepo.ExistsByUUID(ctx, "taken-identifier-001", "")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestInvitationRepository_ListIDsMissingUUID(t *testing.T) {
	repoTestInit(t)
	defer cleanupTestData(t)
	cleanupTestData(t)

	ctx := context.Background()
	firmID := createTestFirm(t, ctx)
	inviter := createTestUser(t, ctx, "inviter@example.com")
	invitationRepo := postgresql.NewInvitationRepository(testDB)

	// Oldest row lacks a uuid entirely, the middle one carries an empty
	// string, the newest is fine
	oldest := insertInvitationRow(t, ctx, firmID, inviter.ID, nil, 3)
	emptyStr := ""
	middle := insertInvitationRow(t, ctx, firmID, inviter.ID, &emptyStr, 2)
	filled := "Filled-001"
	insertInvitationRow(t, ctx, firmID, inviter.ID, &filled, 1)

	ids, err := invitationRepo.ListIDsMissingUUID(ctx, 10)

	assert.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, oldest, ids[0])
	assert.Equal(t, middle, ids[1])

	// The limit caps the batch
	ids, err = invitationRepo.ListIDsMissingUUID(ctx, 1)
	assert.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, oldest, ids[0])
}

func TestInvitationRepository_AssignUUID(t *testing.T) {
	repoTestInit(t)
	defer cleanupTestData(t)
	cleanupTestData(t)

	ctx := context.Background()
	firmID := createTestFirm(t, ctx)
	inviter := createTestUser(t, ctx, "inviter@example.com")
	invitationRepo := postgresql.NewInvitationRepository(testDB)

	legacyID := insertInvitationRow(t, ctx, firmID, inviter.ID, nil, 1)

	err := invitationRepo.AssignUUID(ctx, legacyID, "Assigned-001")
	assert.NoError(t, err)

	row, err := invitationRepo.GetByID(ctx, legacyID)
	require.NoError(t, err)
	assert.Equal(t, "Assigned-001", row.UUIDValue())

	// A second assignment does not overwrite
	err = invitationRepo.AssignUUID(ctx, legacyID, "Assigned-002")
	assert.NoError(t, err)

	row, err = invitationRepo.GetByID(ctx, legacyID)
	require.NoError(t, err)
	assert.Equal(t, "Assigned-001", row.UUIDValue())
}

func TestInvitationRepository_ListByFirm_NewestFirst(t *testing.T) {
	repoTestInit(t)
	defer cleanupTestData(t)
	cleanupTestData(t)

	ctx := context.Background()
	firmID := createTestFirm(t, ctx)
	otherFirmID := createTestFirm(t, ctx)
	inviter := createTestUser(t, ctx, "inviter@example.com")
	invitationRepo := postgresql.NewInvitationRepository(testDB)

	u1 := "List-001"
	u2 := "List-002"
	u3 := "List-003"
	older := insertInvitationRow(t, ctx, firmID, inviter.ID, &u1, 2)
	newer := insertInvitationRow(t, ctx, firmID, inviter.ID, &u2, 1)
	insertInvitationRow(t, ctx, otherFirmID, inviter.ID, &u3, 1)

	listed, err := invitationRepo.ListByFirm(ctx, firmID)

	assert.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, newer, listed[0].ID)
	assert.Equal(t, older, listed[1].ID)
}

func TestInvitationRepository_Update_Success(t *testing.T) {
	repoTestInit(t)
	defer cleanupTestData(t)
	cleanupTestData(t)

	ctx := context.Background()
	firmID := createTestFirm(t, ctx)
	inviter := createTestUser(t, ctx, "inviter@example.com")
	invitationRepo := postgresql.NewInvitationRepository(testDB)

	u := "Update-001"
	id := insertInvitationRow(t, ctx, firmID, inviter.ID, &u, 1)

	row, err := invitationRepo.GetByID(ctx, id)
	require.NoError(t, err)

	row.Name = "Renamed Client"
	row.ClientEmail = "renamed@acme.example.com"
	row.InvitationType = invitation.TypeProspectEmail

	updated, err := invitationRepo.Update(ctx, row)

	assert.NoError(t, err)
	assert.Equal(t, "Renamed Client", updated.Name)
	assert.Equal(t, "renamed@acme.example.com", updated.ClientEmail)
	assert.Equal(t, invitation.TypeProspectEmail, updated.InvitationType)
	assert.Equal(t, u, updated.UUIDValue())
}

// ===== AUDIT RECORDER TESTS =====

func TestAuditRecorder_RecordAndList(t *testing.T) {
	repoTestInit(t)
	defer cleanupTestData(t)
	cleanupTestData(t)

	ctx := context.Background()
	actor := createTestUser(t, ctx, "actor@example.com")
	auditRecorder := postgresql.NewAuditRecorder(testDB)

	itemID := "11111111-2222-4333-8444-555555555555"

	err := auditRecorder.Record(ctx, audit.Entry{
		ItemType: "Invitation",
		ItemID:   itemID,
		Event:    audit.EventCreate,
		ActorID:  &actor.ID,
	})
	require.NoError(t, err)

	err = auditRecorder.Record(ctx, audit.Entry{
		ItemType: "Invitation",
		ItemID:   itemID,
		Event:    audit.EventUpdate,
		ActorID:  &actor.ID,
	})
	require.NoError(t, err)

	// Entries for another item stay out
	err = auditRecorder.Record(ctx, audit.Entry{
		ItemType: "Firm",
		ItemID:   itemID,
		Event:    audit.EventCreate,
		ActorID:  &actor.ID,
	})
	require.NoError(t, err)

	entries, err := auditRecorder.ListByItem(ctx, "Invitation", itemID)

	assert.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, audit.EventCreate, entries[0].Event)
	assert.Equal(t, audit.EventUpdate, entries[1].Event)
	require.NotNil(t, entries[0].ActorID)
	assert.Equal(t, actor.ID, *entries[0].ActorID)
}
