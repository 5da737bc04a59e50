package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/balancehq/practice-backend-go/internal/config"
	"github.com/balancehq/practice-backend-go/internal/domain/invitation"
	"github.com/balancehq/practice-backend-go/internal/pkg/email"
	"github.com/balancehq/practice-backend-go/internal/repository/postgresql"
	invitationService "github.com/balancehq/practice-backend-go/internal/service/invitation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createHandlerTestFirm(t *testing.T, ctx context.Context) string {
	var firmID string
	err := testHandlerDB.QueryRow(ctx, `
		INSERT INTO firms (name, created_at, updated_at)
		VALUES ('Handler Test Firm', NOW(), NOW())
		RETURNING id
	`).Scan(&firmID)
	require.NoError(t, err)
	return firmID
}

func createHandlerFirmUser(t *testing.T, ctx context.Context, firmID string, role string) string {
	var userID string
	uniqueEmail := fmt.Sprintf("firm-user-%d@example.com", time.Now().UnixNano())
	err := testHandlerDB.QueryRow(ctx, `
		INSERT INTO users (firm_id, email, role, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, true, NOW(), NOW())
		RETURNING id
	`, firmID, uniqueEmail, role).Scan(&userID)
	require.NoError(t, err)
	return userID
}

// handlerAuthedContext builds a context carrying verified access-token
// claims, the same shape the Verifier middleware produces.
func handlerAuthedContext(t *testing.T, userID string, firmID *string, role string) context.Context {
	claims := map[string]interface{}{
		"user_id": userID,
		"role":    role,
		"type":    "access",
	}
	if firmID != nil {
		claims["firm_id"] = *firmID
	}
	jwtAuth := jwtauth.New("HS256", []byte(handlerTestSecret), nil)
	token, _, err := jwtAuth.Encode(claims)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// routeContext attaches a chi URL parameter the way the router does when it
// matches a path like /invitations/{invitationID}.
func routeContext(ctx context.Context, key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

func createInvitationTestHandler(t *testing.T) InvitationHandler {
	invitationRepo := postgresql.NewInvitationRepository(testHandlerDB)
	firmRepo := postgresql.NewFirmRepository(testHandlerDB)
	accountantRepo := postgresql.NewAccountantRepository(testHandlerDB)
	auditRecorder := postgresql.NewAuditRecorder(testHandlerDB)

	// An empty SMTP host makes sends log-and-skip, so no mail leaves the test
	emailService, err := email.NewEmailService(config.SMTPConfig{})
	require.NoError(t, err)

	svc := invitationService.NewInvitationService(
		testHandlerDB,
		invitationRepo,
		firmRepo,
		accountantRepo,
		auditRecorder,
		emailService,
		"http://localhost:3000/invitations",
	)
	return NewInvitationHandler(svc)
}

// ===== INVITATION HANDLER TESTS =====

// Test Create - Success
func TestInvitationHandler_Create_Success(t *testing.T) {
	ctx := context.Background()
	handlerTestInit(t)
	truncateHandlerTables(t, ctx)

	handler := createInvitationTestHandler(t)
	firmID := createHandlerTestFirm(t, ctx)
	userID := createHandlerFirmUser(t, ctx, firmID, "owner")
	authCtx := handlerAuthedContext(t, userID, &firmID, "owner")

	createReq := invitation.CreateRequest{
		Name:           "Acme Widgets",
		ClientEmail:    "client@acme.test",
		InvitationType: "email_invite",
	}
	body, _ := json.Marshal(createReq)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invitations", bytes.NewReader(body))
	req = req.WithContext(authCtx)
	w := httptest.NewRecorder()

	// Act
	handler.Create(w, req)

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Invitation created successfully", resp["message"])

	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Acme Widgets", data["name"])
	assert.Equal(t, firmID, data["firm_id"])
	assert.Equal(t, userID, data["invited_by_user_id"])
	// The uuid is assigned server-side before the row is stored
	uuidValue, ok := data["uuid"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, uuidValue)
}

// Test Create - validation failures are collected per field
func TestInvitationHandler_Create_ValidationErrors(t *testing.T) {
	ctx := context.Background()
	handlerTestInit(t)
	truncateHandlerTables(t, ctx)

	handler := createInvitationTestHandler(t)
	firmID := createHandlerTestFirm(t, ctx)
	userID := createHandlerFirmUser(t, ctx, firmID, "owner")
	authCtx := handlerAuthedContext(t, userID, &firmID, "owner")

	createReq := invitation.CreateRequest{
		Name:           "",
		ClientEmail:    "not-an-email",
		InvitationType: "carrier_pigeon",
	}
	body, _ := json.Marshal(createReq)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invitations", bytes.NewReader(body))
	req = req.WithContext(authCtx)
	w := httptest.NewRecorder()

	// Act
	handler.Create(w, req)

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, false, resp["success"])

	errObj, ok := resp["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])

	details, ok := errObj["details"].(map[string]interface{})
	require.True(t, ok)
	// Every failing field comes back in one verdict
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "client_email")
	assert.Contains(t, details, "invitation_type")
}

// Test Create - Invalid JSON
func TestInvitationHandler_Create_InvalidJSON(t *testing.T) {
	ctx := context.Background()
	handlerTestInit(t)
	truncateHandlerTables(t, ctx)

	handler := createInvitationTestHandler(t)
	firmID := createHandlerTestFirm(t, ctx)
	userID := createHandlerFirmUser(t, ctx, firmID, "owner")
	authCtx := handlerAuthedContext(t, userID, &firmID, "owner")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invitations", bytes.NewReader([]byte("not-json")))
	req = req.WithContext(authCtx)
	w := httptest.NewRecorder()

	// Act
	handler.Create(w, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Test List - Success
func TestInvitationHandler_List_Success(t *testing.T) {
	ctx := context.Background()
	handlerTestInit(t)
	truncateHandlerTables(t, ctx)

	handler := createInvitationTestHandler(t)
	firmID := createHandlerTestFirm(t, ctx)
	userID := createHandlerFirmUser(t, ctx, firmID, "owner")
	authCtx := handlerAuthedContext(t, userID, &firmID, "owner")

	// Seed one invitation through the handler
	createReq := invitation.CreateRequest{Name: "Listed Client"}
	body, _ := json.Marshal(createReq)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invitations", bytes.NewReader(body))
	req = req.WithContext(authCtx)
	w := httptest.NewRecorder()
	handler.Create(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/invitations", nil)
	req = req.WithContext(authCtx)
	w = httptest.NewRecorder()

	// Act
	handler.List(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, true, resp["success"])

	data, ok := resp["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 1)
}

// Test GetByID - Success
func TestInvitationHandler_GetByID_Success(t *testing.T) {
	ctx := context.Background()
	handlerTestInit(t)
	truncateHandlerTables(t, ctx)

	handler := createInvitationTestHandler(t)
	firmID := createHandlerTestFirm(t, ctx)
	userID := createHandlerFirmUser(t, ctx, firmID, "owner")
	authCtx := handlerAuthedContext(t, userID, &firmID, "owner")

	createReq := invitation.CreateRequest{Name: "Lookup Client"}
	body, _ := json.Marshal(createReq)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invitations", bytes.NewReader(body))
	req = req.WithContext(authCtx)
	w := httptest.NewRecorder()
	handler.Create(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var createResp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&createResp)
	require.NoError(t, err)
	createdID := createResp["data"].(map[string]interface{})["id"].(string)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/invitations/"+createdID, nil)
	req = req.WithContext(routeContext(authCtx, "invitationID", createdID))
	w = httptest.NewRecorder()

	// Act
	handler.GetByID(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err = json.NewDecoder(w.Body).Decode(&resp)
	assert.NoError(t, err)

	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, createdID, data["id"])
	assert.Equal(t, "Lookup Client", data["name"])
}

// Test GetByID - Not Found
func TestInvitationHandler_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	handlerTestInit(t)
	truncateHandlerTables(t, ctx)

	handler := createInvitationTestHandler(t)
	firmID := createHandlerTestFirm(t, ctx)
	userID := createHandlerFirmUser(t, ctx, firmID, "owner")
	authCtx := handlerAuthedContext(t, userID, &firmID, "owner")

	missingID := "00000000-0000-0000-0000-000000000000"
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invitations/"+missingID, nil)
	req = req.WithContext(routeContext(authCtx, "invitationID", missingID))
	w := httptest.NewRecorder()

	// Act
	handler.GetByID(w, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
}
