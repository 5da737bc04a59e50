package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/balancehq/practice-backend-go/internal/domain/user"
	"github.com/balancehq/practice-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testDB *database.DB

func repoTestInit(t *testing.T) {
	if testDB != nil {
		return
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	var err error
	testDB, err = database.NewPostgreSQLDB(dsn)
	if err != nil {
		t.Fatal("Failed to connect to test database: " + err.Error())
	}
}

// cleanupTestData truncates every table the repository tests touch
func cleanupTestData(t *testing.T) {
	ctx := context.Background()
	tables := []string{"audit_entries", "invitations", "accountants", "refresh_tokens", "users", "firms"}

	for _, table := range tables {
		_, err := testDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}

// Helper: insert a firm row
func createTestFirm(t *testing.T, ctx context.Context) string {
	var firmID string
	err := testDB.QueryRow(ctx, `
		INSERT INTO firms (name, created_at, updated_at)
		VALUES ('Test Firm', NOW(), NOW())
		RETURNING id
	`).Scan(&firmID)
	require.NoError(t, err)
	return firmID
}

// Helper: insert a user row with a bcrypt password
func createTestUser(t *testing.T, ctx context.Context, email string) user.User {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	hashedStr := string(hashedPassword)

	var newUser user.User
	err := testDB.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role, email_verified, created_at, updated_at)
		VALUES ($1, $2, 'pending', true, NOW(), NOW())
		RETURNING id, firm_id, email, password_hash, role, oauth_provider, oauth_provider_id,
				  email_verified, created_at, updated_at
	`, email, hashedStr).Scan(
		&newUser.ID, &newUser.FirmID, &newUser.Email, &newUser.PasswordHash, &newUser.Role,
		&newUser.OAuthProvider, &newUser.OAuthProviderID, &newUser.EmailVerified,
		&newUser.CreatedAt, &newUser.UpdatedAt,
	)
	require.NoError(t, err)
	return newUser
}

// uniqueEmail returns an address that will not collide across test runs.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
