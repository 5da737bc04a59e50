package invitation

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/balancehq/practice-backend-go/internal/config"
	"github.com/balancehq/practice-backend-go/internal/domain/audit"
	"github.com/balancehq/practice-backend-go/internal/domain/invitation"
	"github.com/balancehq/practice-backend-go/internal/pkg/database"
	"github.com/balancehq/practice-backend-go/internal/pkg/email"
	"github.com/balancehq/practice-backend-go/internal/pkg/validator"
	"github.com/balancehq/practice-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testInvitationDB *database.DB
)

const testSecret = "test-secret-key-for-jwt"

func invitationTestInit(t *testing.T) {
	if testInvitationDB != nil {
		return
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	var err error
	testInvitationDB, err = database.NewPostgreSQLDB(dsn)
	if err != nil {
		t.Fatal("Failed to connect to test database: " + err.Error())
	}
}

func truncateInvitationTables(t *testing.T, ctx context.Context) {
	tables := []string{"audit_entries", "invitations", "accountants", "users", "firms"}

	for _, table := range tables {
		_, err := testInvitationDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			continue
		}
	}
}

func createTestFirm(t *testing.T, ctx context.Context) string {
	var firmID string
	err := testInvitationDB.QueryRow(ctx, `
		INSERT INTO firms (name, created_at, updated_at)
		VALUES ('Test Firm', NOW(), NOW())
		RETURNING id
	`).Scan(&firmID)
	require.NoError(t, err)
	return firmID
}

func createTestUser(t *testing.T, ctx context.Context, firmID string, role string) string {
	var userID string
	uniqueEmail := fmt.Sprintf("user-%d@example.com", time.Now().UnixNano())
	err := testInvitationDB.QueryRow(ctx, `
		INSERT INTO users (firm_id, email, role, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, true, NOW(), NOW())
		RETURNING id
	`, firmID, uniqueEmail, role).Scan(&userID)
	require.NoError(t, err)
	return userID
}

func createTestAccountant(t *testing.T, ctx context.Context, firmID string, accountantEmail string) string {
	var accountantID string
	err := testInvitationDB.QueryRow(ctx, `
		INSERT INTO accountants (firm_id, name, email, created_at, updated_at)
		VALUES ($1, 'Test Accountant', $2, NOW(), NOW())
		RETURNING id
	`, firmID, accountantEmail).Scan(&accountantID)
	require.NoError(t, err)
	return accountantID
}

// authedContext builds a context carrying verified access-token claims, the
// same shape the Verifier middleware produces for handlers.
func authedContext(t *testing.T, userID string, firmID *string, role string) context.Context {
	claims := map[string]interface{}{
		"user_id": userID,
		"role":    role,
		"type":    "access",
	}
	if firmID != nil {
		claims["firm_id"] = *firmID
	}
	jwtAuth := jwtauth.New("HS256", []byte(testSecret), nil)
	token, _, err := jwtAuth.Encode(claims)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func newInvitationTestService(t *testing.T) invitation.InvitationService {
	invitationRepo := postgresql.NewInvitationRepository(testInvitationDB)
	firmRepo := postgresql.NewFirmRepository(testInvitationDB)
	accountantRepo := postgresql.NewAccountantRepository(testInvitationDB)
	auditRecorder := postgresql.NewAuditRecorder(testInvitationDB)

	// An empty SMTP host makes sends log-and-skip, so no mail leaves the test
	emailService, err := email.NewEmailService(config.SMTPConfig{})
	require.NoError(t, err)

	return NewInvitationService(
		testInvitationDB,
		invitationRepo,
		firmRepo,
		accountantRepo,
		auditRecorder,
		emailService,
		"http://localhost:3000/invitations",
	)
}

func TestInvitationService_Create_Success(t *testing.T) {
	ctx := context.Background()
	invitationTestInit(t)
	truncateInvitationTables(t, ctx)

	// Setup
	firmID := createTestFirm(t, ctx)
	userID := createTestUser(t, ctx, firmID, "accountant")
	authCtx := authedContext(t, userID, &firmID, "accountant")

	svc := newInvitationTestService(t)

	// Act
	req := invitation.CreateRequest{
		Name:              "Acme Client",
		ClientEmail:       "client@acme.example.com",
		InvitationType:    "in_app_add",
		InvitationTrigger: "Immediate",
	}
	created, err := svc.Create(authCtx, req)

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.UUIDValue())
	require.NotNil(t, created.FirmID)
	assert.Equal(t, firmID, *created.FirmID)
	assert.Equal(t, userID, created.InvitedByUserID)
	assert.Equal(t, invitation.TypeInAppAdd, created.InvitationType)
	assert.Equal(t, invitation.TriggerImmediate, created.InvitationTrigger)

	// A create event is recorded in the same transaction
	entries, err := svc.ListAuditEntries(authCtx, created.ID)
	assert.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.EventCreate, entries[0].Event)
	require.NotNil(t, entries[0].ActorID)
	assert.Equal(t, userID, *entries[0].ActorID)
}

// A firm-less caller with a blank name collects both failures in one verdict
// and nothing reaches storage.
func TestInvitationService_Create_CollectsAllFailures(t *testing.T) {
	ctx := context.Background()
	invitationTestInit(t)
	truncateInvitationTables(t, ctx)

	// Setup - pending user, not attached to any firm
	var userID string
	err := testInvitationDB.QueryRow(ctx, `
		INSERT INTO users (email, role, email_verified, created_at, updated_at)
		VALUES ($1, 'pending', true, NOW(), NOW())
		RETURNING id
	`, fmt.Sprintf("pending-%d@example.com", time.Now().UnixNano())).Scan(&userID)
	require.NoError(t, err)
	authCtx := authedContext(t, userID, nil, "pending")

	svc := newInvitationTestService(t)

	// Act
	req := invitation.CreateRequest{
		Name:           "",
		ClientEmail:    "not-an-email",
		InvitationType: "carrier_pigeon",
	}
	_, err = svc.Create(authCtx, req)

	// Assert
	require.Error(t, err)
	vErrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok, "expected validation errors, got %T", err)

	details := vErrs.ToMap()
	assert.Contains(t, details, "firm_id")
	assert.Contains(t, details["firm_id"], "firm_id is required")
	assert.Contains(t, details, "name")
	assert.Contains(t, details["name"], "name is required")
	assert.Contains(t, details, "client_email")
	assert.Contains(t, details["client_email"], "client_email format is invalid")
	assert.Contains(t, details, "invitation_type")

	// Nothing was persisted
	var count int
	err = testInvitationDB.QueryRow(ctx, `SELECT COUNT(*) FROM invitations`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestInvitationService_Create_FirmMemberEmailRejected(t *testing.T) {
	ctx := context.Background()
	invitationTestInit(t)
	truncateInvitationTables(t, ctx)

	// Setup
	firmID := createTestFirm(t, ctx)
	userID := createTestUser(t, ctx, firmID, "owner")
	createTestAccountant(t, ctx, firmID, "partner@firm.example.com")
	authCtx := authedContext(t, userID, &firmID, "owner")

	svc := newInvitationTestService(t)

	// Act
	req := invitation.CreateRequest{
		Name:        "Acme Client",
		ClientEmail: "partner@firm.example.com",
	}
	_, err := svc.Create(authCtx, req)

	// Assert
	require.Error(t, err)
	vErrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok, "expected validation errors, got %T", err)

	details := vErrs.ToMap()
	require.Contains(t, details, "client_email")
	assert.Contains(t, details["client_email"], "Email of firm member cannot be used for client email")
}

// An accountant of another firm does not block the email.
func TestInvitationService_Create_OtherFirmAccountantEmailAllowed(t *testing.T) {
	ctx := context.Background()
	invitationTestInit(t)
	truncateInvitationTables(t, ctx)

	// Setup
	firmID := createTestFirm(t, ctx)
	otherFirmID := createTestFirm(t, ctx)
	userID := createTestUser(t, ctx, firmID, "owner")
	createTestAccountant(t, ctx, otherFirmID, "partner@other.example.com")
	authCtx := authedContext(t, userID, &firmID, "owner")

	svc := newInvitationTestService(t)

	// Act
	req := invitation.CreateRequest{
		Name:        "Acme Client",
		ClientEmail: "partner@other.example.com",
	}
	created, err := svc.Create(authCtx, req)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "partner@other.example.com", created.ClientEmail)
}

func TestInvitationService_Create_UUIDConflict(t *testing.T) {
	ctx := context.Background()
	invitationTestInit(t)
	truncateInvitationTables(t, ctx)

	// Setup
	firmID := createTestFirm(t, ctx)
	userID := createTestUser(t, ctx, firmID, "owner")
	authCtx := authedContext(t, userID, &firmID, "owner")

	svc := newInvitationTestService(t)

	importedUUID := "11111111-2222-4333-8444-555555555555"
	first := invitation.CreateRequest{Name: "First Client", UUID: &importedUUID}
	_, err := svc.Create(authCtx, first)
	require.NoError(t, err)

	// Act - a second record claiming the same identifier
	second := invitation.CreateRequest{Name: "Second Client", UUID: &importedUUID}
	_, err = svc.Create(authCtx, second)

	// Assert
	require.Error(t, err)
	vErrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok, "expected validation errors, got %T", err)

	details := vErrs.ToMap()
	require.Contains(t, details, "uuid")
	assert.Contains(t, details["uuid"], "uuid is already in use")
}

func TestInvitationService_Update_Partial(t *testing.T) {
	ctx := context.Background()
	invitationTestInit(t)
	truncateInvitationTables(t, ctx)

	// Setup
	firmID := createTestFirm(t, ctx)
	userID := createTestUser(t, ctx, firmID, "accountant")
	authCtx := authedContext(t, userID, &firmID, "accountant")

	svc := newInvitationTestService(t)

	created, err := svc.Create(authCtx, invitation.CreateRequest{
		Name:           "Before Rename",
		ClientEmail:    "client@acme.example.com",
		InvitationType: "in_app_add",
	})
	require.NoError(t, err)

	// Act - change only the name
	newName := "After Rename"
	updated, err := svc.Update(authCtx, created.ID, invitation.UpdateRequest{Name: &newName})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "After Rename", updated.Name)
	assert.Equal(t, "client@acme.example.com", updated.ClientEmail)
	assert.Equal(t, invitation.TypeInAppAdd, updated.InvitationType)
	assert.Equal(t, created.UUIDValue(), updated.UUIDValue())

	// Create and update are both on record
	entries, err := svc.ListAuditEntries(authCtx, created.ID)
	assert.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, audit.EventCreate, entries[0].Event)
	assert.Equal(t, audit.EventUpdate, entries[1].Event)
}

// The invitation trigger is stored as supplied; no membership rule applies.
func TestInvitationService_Update_TriggerNotValidated(t *testing.T) {
	ctx := context.Background()
	invitationTestInit(t)
	truncateInvitationTables(t, ctx)

	// Setup
	firmID := createTestFirm(t, ctx)
	userID := createTestUser(t, ctx, firmID, "accountant")
	authCtx := authedContext(t, userID, &firmID, "accountant")

	svc := newInvitationTestService(t)

	created, err := svc.Create(authCtx, invitation.CreateRequest{
		Name:              "Acme Client",
		InvitationTrigger: "Immediate",
	})
	require.NoError(t, err)

	// Act
	oddTrigger := "whenever-they-feel-like-it"
	updated, err := svc.Update(authCtx, created.ID, invitation.UpdateRequest{InvitationTrigger: &oddTrigger})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, invitation.Trigger(oddTrigger), updated.InvitationTrigger)
}

// A row written before identifiers existed picks one up on its next save.
func TestInvitationService_Update_LegacyRowGetsUUID(t *testing.T) {
	ctx := context.Background()
	invitationTestInit(t)
	truncateInvitationTables(t, ctx)

	// Setup - insert a legacy row directly, bypassing the entity lifecycle
	firmID := createTestFirm(t, ctx)
	userID := createTestUser(t, ctx, firmID, "accountant")
	authCtx := authedContext(t, userID, &firmID, "accountant")

	var legacyID string
	err := testInvitationDB.QueryRow(ctx, `
		INSERT INTO invitations (uuid, firm_id, name, invited_by_user_id, created_at, updated_at)
		VALUES (NULL, $1, 'Legacy Client', $2, NOW(), NOW())
		RETURNING id
	`, firmID, userID).Scan(&legacyID)
	require.NoError(t, err)

	svc := newInvitationTestService(t)

	// Act - any update causes the identifier to be assigned
	newName := "Legacy Client Renamed"
	updated, err := svc.Update(authCtx, legacyID, invitation.UpdateRequest{Name: &newName})

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, updated.UUIDValue())

	var storedUUID *string
	err = testInvitationDB.QueryRow(ctx, `SELECT uuid FROM invitations WHERE id = $1`, legacyID).Scan(&storedUUID)
	require.NoError(t, err)
	require.NotNil(t, storedUUID)
	assert.Equal(t, updated.UUIDValue(), *storedUUID)
}

func TestInvitationService_GetByUUID_CaseSensitive(t *testing.T) {
	ctx := context.Background()
	invitationTestInit(t)
	truncateInvitationTables(t, ctx)

	// Setup
	firmID := createTestFirm(t, ctx)
	userID := createTestUser(t, ctx, firmID, "accountant")
	authCtx := authedContext(t, userID, &firmID, "accountant")

	svc := newInvitationTestService(t)

	importedUUID := "MiXeD-CaSe-Identifier-001"
	created, err := svc.Create(authCtx, invitation.CreateRequest{Name: "Acme Client", UUID: &importedUUID})
	require.NoError(t, err)

	// Act / Assert - exact casing resolves
	found, err := svc.GetByUUID(authCtx, "MiXeD-CaSe-Identifier-001")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	// Act / Assert - different casing does not
	_, err = svc.GetByUUID(authCtx, "mixed-case-identifier-001")
	assert.Error(t, err)
	assert.Equal(t, invitation.ErrInvitationNotFound, err)
}

func TestInvitationService_List_ScopedToFirm(t *testing.T) {
	ctx := context.Background()
	invitationTestInit(t)
	truncateInvitationTables(t, ctx)

	// Setup - two firms, each with its own invitations
	firmA := createTestFirm(t, ctx)
	firmB := createTestFirm(t, ctx)
	userA := createTestUser(t, ctx, firmA, "accountant")
	userB := createTestUser(t, ctx, firmB, "accountant")
	ctxA := authedContext(t, userA, &firmA, "accountant")
	ctxB := authedContext(t, userB, &firmB, "accountant")

	svc := newInvitationTestService(t)

	_, err := svc.Create(ctxA, invitation.CreateRequest{Name: "A One"})
	require.NoError(t, err)
	_, err = svc.Create(ctxA, invitation.CreateRequest{Name: "A Two"})
	require.NoError(t, err)
	_, err = svc.Create(ctxB, invitation.CreateRequest{Name: "B One"})
	require.NoError(t, err)

	// Act
	listed, err := svc.List(ctxA)

	// Assert
	assert.NoError(t, err)
	require.Len(t, listed, 2)
	for _, inv := range listed {
		require.NotNil(t, inv.FirmID)
		assert.Equal(t, firmA, *inv.FirmID)
	}
}

func TestInvitationService_GetByID_OtherFirmForbidden(t *testing.T) {
	ctx := context.Background()
	invitationTestInit(t)
	truncateInvitationTables(t, ctx)

	// Setup
	firmA := createTestFirm(t, ctx)
	firmB := createTestFirm(t, ctx)
	userA := createTestUser(t, ctx, firmA, "accountant")
	userB := createTestUser(t, ctx, firmB, "accountant")
	ctxA := authedContext(t, userA, &firmA, "accountant")
	ctxB := authedContext(t, userB, &firmB, "accountant")

	svc := newInvitationTestService(t)

	created, err := svc.Create(ctxA, invitation.CreateRequest{Name: "A Only"})
	require.NoError(t, err)

	// Act
	_, err = svc.GetByID(ctxB, created.ID)

	// Assert
	assert.Error(t, err)
	assert.Equal(t, invitation.ErrInvitationForbidden, err)
}

func TestInvitationService_Delete_RecordsAudit(t *testing.T) {
	ctx := context.Background()
	invitationTestInit(t)
	truncateInvitationTables(t, ctx)

	// Setup
	firmID := createTestFirm(t, ctx)
	userID := createTestUser(t, ctx, firmID, "owner")
	authCtx := authedContext(t, userID, &firmID, "owner")

	svc := newInvitationTestService(t)
	auditRecorder := postgresql.NewAuditRecorder(testInvitationDB)

	created, err := svc.Create(authCtx, invitation.CreateRequest{Name: "Short Lived"})
	require.NoError(t, err)

	// Act
	err = svc.Delete(authCtx, created.ID)

	// Assert
	assert.NoError(t, err)

	_, err = svc.GetByID(authCtx, created.ID)
	assert.Equal(t, invitation.ErrInvitationNotFound, err)

	// History survives the record
	entries, err := auditRecorder.ListByItem(ctx, "Invitation", created.ID)
	assert.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, audit.EventCreate, entries[0].Event)
	assert.Equal(t, audit.EventDestroy, entries[1].Event)
}
