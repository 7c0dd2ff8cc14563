package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bankaccounts/internal/models"
	"bankaccounts/internal/store"

	"github.com/lib/pq"
)

const registerBody = `{
	"name": "Alice",
	"surname": "Smith",
	"date_of_birth": "1990-01-01",
	"country_of_origin": "Czechia",
	"email": "alice@example.com",
	"password": "Password1",
	"phone_number": "+420123456789"
}`

func TestRegisterCreatesUserWithDefaults(t *testing.T) {
	var created store.UserInput
	users := stubUserStore{
		createFn: func(_ context.Context, _ store.Execer, input store.UserInput) error {
			created = input
			return nil
		},
	}
	handler := newTestHandler(fakeTxRunner{}, users, stubAuditStore{}, stubCardService{}, stubCurrencyService{}, stubMessageService{}, stubTransferService{})
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodPost, "/profile/register", strings.NewReader(registerBody))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if created.Role != models.RoleUser || created.Status != models.UserStatusDefault || created.Visibility != models.VisibilityOnline {
		t.Fatalf("unexpected defaults: %#v", created)
	}
	if created.Avatar != defaultAvatarURL {
		t.Fatalf("expected stock avatar, got %q", created.Avatar)
	}
	if created.PasswordHash == "Password1" || created.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if resp["id"] != created.ID || resp["token"] == "" {
		t.Fatalf("unexpected body: %#v", resp)
	}
}

func TestRegisterValidation(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubAuditStore{}, stubCardService{}, stubCurrencyService{}, stubMessageService{}, stubTransferService{})
	router := handler.Routes()

	for name, body := range map[string]string{
		"short name":   strings.Replace(registerBody, "Alice", "A", 1),
		"bad email":    strings.Replace(registerBody, "alice@example.com", "not-an-email", 1),
		"weak password": strings.Replace(registerBody, "Password1", "password", 1),
		"bad phone":    strings.Replace(registerBody, "+420123456789", "12", 1),
		"bad date":     strings.Replace(registerBody, "1990-01-01", "01.01.1990", 1),
	} {
		req := httptest.NewRequest(http.MethodPost, "/profile/register", strings.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, rr.Code)
		}
	}
}

func TestGetUserNotFound(t *testing.T) {
	users := stubUserStore{
		getByIDFn: func(_ context.Context, _ string) (models.User, error) {
			return models.User{}, sql.ErrNoRows
		},
	}
	handler := newTestHandler(fakeTxRunner{}, users, stubAuditStore{}, stubCardService{}, stubCurrencyService{}, stubMessageService{}, stubTransferService{})
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodGet, "/profile/missing", nil)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, "user-1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestListUsersRequiresModerator(t *testing.T) {
	users := stubUserStore{
		getUserRoleFn: func(_ context.Context, _ string) (models.UserRole, error) {
			return models.RoleUser, nil
		},
	}
	handler := newTestHandler(fakeTxRunner{}, users, stubAuditStore{}, stubCardService{}, stubCurrencyService{}, stubMessageService{}, stubTransferService{})
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodGet, "/profile/", nil)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, "user-1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestFilterUsersInvalidSort(t *testing.T) {
	users := stubUserStore{
		getUserRoleFn: func(_ context.Context, _ string) (models.UserRole, error) {
			return models.RoleModerator, nil
		},
	}
	handler := newTestHandler(fakeTxRunner{}, users, stubAuditStore{}, stubCardService{}, stubCurrencyService{}, stubMessageService{}, stubTransferService{})
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodGet, "/profile/filter?page=0&size=10&sort=sideways", nil)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, "user-1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestFilterUsersPaginates(t *testing.T) {
	var gotAscending bool
	var gotLimit, gotOffset int
	users := stubUserStore{
		getUserRoleFn: func(_ context.Context, _ string) (models.UserRole, error) {
			return models.RoleAdmin, nil
		},
		listPageFn: func(_ context.Context, ascending bool, limit, offset int) ([]models.User, error) {
			gotAscending = ascending
			gotLimit = limit
			gotOffset = offset
			return []models.User{{ID: "user-1"}}, nil
		},
	}
	handler := newTestHandler(fakeTxRunner{}, users, stubAuditStore{}, stubCardService{}, stubCurrencyService{}, stubMessageService{}, stubTransferService{})
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodGet, "/profile/filter?page=2&size=10&sort=desc", nil)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, "user-1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotAscending || gotLimit != 10 || gotOffset != 20 {
		t.Fatalf("unexpected paging: asc=%v limit=%d offset=%d", gotAscending, gotLimit, gotOffset)
	}
}

func TestUpdateEmailSelfOnly(t *testing.T) {
	users := stubUserStore{
		getUserRoleFn: func(_ context.Context, _ string) (models.UserRole, error) {
			return models.RoleUser, nil
		},
	}
	handler := newTestHandler(fakeTxRunner{}, users, stubAuditStore{}, stubCardService{}, stubCurrencyService{}, stubMessageService{}, stubTransferService{})
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodPatch, "/profile/user-2/email", strings.NewReader(`{"email":"new@example.com"}`))
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, "user-1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestUpdateEmailAccepted(t *testing.T) {
	var gotEmail string
	users := stubUserStore{
		updateEmailFn: func(_ context.Context, _ store.Execer, _ string, email string) (int64, error) {
			gotEmail = email
			return 1, nil
		},
	}
	handler := newTestHandler(fakeTxRunner{}, users, stubAuditStore{}, stubCardService{}, stubCurrencyService{}, stubMessageService{}, stubTransferService{})
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodPatch, "/profile/user-1/email", strings.NewReader(`{"email":"new@example.com"}`))
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, "user-1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotEmail != "new@example.com" {
		t.Fatalf("unexpected email: %q", gotEmail)
	}
}

func TestUpdateRoleAdminOnly(t *testing.T) {
	users := stubUserStore{
		getUserRoleFn: func(_ context.Context, _ string) (models.UserRole, error) {
			return models.RoleModerator, nil
		},
	}
	handler := newTestHandler(fakeTxRunner{}, users, stubAuditStore{}, stubCardService{}, stubCurrencyService{}, stubMessageService{}, stubTransferService{})
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodPatch, "/profile/user-2/role", strings.NewReader(`{"role":"MODERATOR"}`))
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, "user-1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestDeleteUserAsAdmin(t *testing.T) {
	deleted := ""
	users := stubUserStore{
		getUserRoleFn: func(_ context.Context, _ string) (models.UserRole, error) {
			return models.RoleAdmin, nil
		},
		deleteFn: func(_ context.Context, _ store.Execer, userID string) (int64, error) {
			deleted = userID
			return 1, nil
		},
	}
	handler := newTestHandler(fakeTxRunner{}, users, stubAuditStore{}, stubCardService{}, stubCurrencyService{}, stubMessageService{}, stubTransferService{})
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodDelete, "/profile/user-2", nil)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, "admin-1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if deleted != "user-2" {
		t.Fatalf("unexpected target: %q", deleted)
	}
}

func TestDeleteUserMissing(t *testing.T) {
	users := stubUserStore{
		getUserRoleFn: func(_ context.Context, _ string) (models.UserRole, error) {
			return models.RoleAdmin, nil
		},
		deleteFn: func(_ context.Context, _ store.Execer, _ string) (int64, error) {
			return 0, nil
		},
	}
	handler := newTestHandler(fakeTxRunner{}, users, stubAuditStore{}, stubCardService{}, stubCurrencyService{}, stubMessageService{}, stubTransferService{})
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodDelete, "/profile/ghost", nil)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, "admin-1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestUpdateEmailMissingUser(t *testing.T) {
	audited := false
	users := stubUserStore{
		getUserRoleFn: func(_ context.Context, _ string) (models.UserRole, error) {
			return models.RoleAdmin, nil
		},
		updateEmailFn: func(_ context.Context, _ store.Execer, _, _ string) (int64, error) {
			return 0, nil
		},
	}
	audit := stubAuditStore{
		logFn: func(_ context.Context, _ store.Execer, _, _, _, _, _ string) error {
			audited = true
			return nil
		},
	}
	handler := newTestHandler(fakeTxRunner{}, users, audit, stubCardService{}, stubCurrencyService{}, stubMessageService{}, stubTransferService{})
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodPatch, "/profile/no-such-user/email", strings.NewReader(`{"email":"new@example.com"}`))
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, "admin-1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if audited {
		t.Fatal("no audit entry expected for a missing user")
	}
}

func TestUpdateStatusMissingUser(t *testing.T) {
	users := stubUserStore{
		getUserRoleFn: func(_ context.Context, _ string) (models.UserRole, error) {
			return models.RoleModerator, nil
		},
		updateStatusFn: func(_ context.Context, _ store.Execer, _ string, _ models.UserStatus) (int64, error) {
			return 0, nil
		},
	}
	handler := newTestHandler(fakeTxRunner{}, users, stubAuditStore{}, stubCardService{}, stubCurrencyService{}, stubMessageService{}, stubTransferService{})
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodPatch, "/profile/no-such-user/status", strings.NewReader(`{"status":"BLOCKED"}`))
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, "mod-1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	users := stubUserStore{
		createFn: func(_ context.Context, _ store.Execer, _ store.UserInput) error {
			return &pq.Error{Code: "23505"}
		},
	}
	handler := newTestHandler(fakeTxRunner{}, users, stubAuditStore{}, stubCardService{}, stubCurrencyService{}, stubMessageService{}, stubTransferService{})
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodPost, "/profile/register", strings.NewReader(registerBody))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rr.Code, rr.Body.String())
	}
}
