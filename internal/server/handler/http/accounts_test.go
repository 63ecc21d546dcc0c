package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"

	"github.com/jayakumar9/atlas-account-vault/internal/middleware"
	"github.com/jayakumar9/atlas-account-vault/internal/models"
	"github.com/jayakumar9/atlas-account-vault/internal/service"
)

// fakeAccountService implements AccountService for testing.
type fakeAccountService struct {
	accounts  []models.Account
	account   *models.Account
	access    *models.FileAccess
	err       error
	deleted   []string
	attached  []string
	fileName  string
	fileData  []byte
}

func (f *fakeAccountService) List(ctx context.Context, userID string) ([]models.Account, error) {
	return f.accounts, f.err
}

func (f *fakeAccountService) Get(ctx context.Context, userID, id string) (*models.Account, error) {
	return f.account, f.err
}

func (f *fakeAccountService) Create(ctx context.Context, userID string, acc *models.Account) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	acc.ID = "a1"
	acc.SerialNumber = 1
	return acc, nil
}

func (f *fakeAccountService) Update(ctx context.Context, userID string, acc *models.Account) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return acc, nil
}

func (f *fakeAccountService) Delete(ctx context.Context, userID, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAccountService) AttachFile(ctx context.Context, userID, accountID, filename, contentType string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.attached = append(f.attached, accountID)
	return nil
}

func (f *fakeAccountService) GenerateFileAccess(ctx context.Context, userID, accountID string) (*models.FileAccess, error) {
	return f.access, f.err
}

func (f *fakeAccountService) ServeFile(ctx context.Context, accountID, accessToken string) (string, string, []byte, error) {
	if f.err != nil {
		return "", "", nil, f.err
	}
	return f.fileName, "application/pdf", f.fileData, nil
}

// fakePinger always reports the database as reachable.
type fakePinger struct{ err error }

func (f fakePinger) PingContext(ctx context.Context) error { return f.err }

var testSecret = []byte("test-secret")

func bearer(t *testing.T, userID string) string {
	t.Helper()
	claims := &middleware.Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return "Bearer " + token
}

// newTestServer builds the full router around fake services so URL
// parameters and middleware wiring are exercised.
func newTestServer(accounts *fakeAccountService) http.Handler {
	return NewRouter(
		&AuthHandler{AuthService: &fakeAuthService{}},
		&AccountHandler{AccountService: accounts},
		&StatusHandler{DB: fakePinger{}},
		testSecret,
		zap.NewNop(),
	)
}

func TestAccounts_RequireBearer(t *testing.T) {
	router := newTestServer(&fakeAccountService{})

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/accounts"},
		{http.MethodPost, "/api/accounts"},
		{http.MethodGet, "/api/accounts/a1"},
		{http.MethodPut, "/api/accounts/a1"},
		{http.MethodDelete, "/api/accounts/a1"},
		{http.MethodPost, "/api/accounts/upload/a1"},
		{http.MethodPost, "/api/accounts/file/a1/generate-access"},
		{http.MethodGet, "/api/auth/me"},
	}
	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status = %d, want 401", p.method, p.path, rr.Code)
		}
	}
}

func TestAccounts_List(t *testing.T) {
	svc := &fakeAccountService{accounts: []models.Account{
		{ID: "a1", SerialNumber: 1, Name: "GitHub"},
	}}
	router := newTestServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	req.Header.Set("Authorization", bearer(t, "u1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var got []models.Account
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(got) != 1 || got[0].Name != "GitHub" {
		t.Errorf("unexpected accounts: %+v", got)
	}
}

func TestAccounts_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		svc            *fakeAccountService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "missing name",
			body:           `{"username":"alice","email":"a@example.com","password":"x"}`,
			svc:            &fakeAccountService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "name is required",
		},
		{
			name:           "invalid email",
			body:           `{"name":"GitHub","username":"alice","email":"bad","password":"x"}`,
			svc:            &fakeAccountService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "valid email",
		},
		{
			name:           "success",
			body:           `{"name":"GitHub","username":"alice","email":"a@example.com","password":"x"}`,
			svc:            &fakeAccountService{},
			expectedCode:   http.StatusCreated,
			expectedSubstr: `"serialNumber":1`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestServer(tt.svc)
			req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewBufferString(tt.body))
			req.Header.Set("Authorization", bearer(t, "u1"))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tt.expectedCode {
				t.Errorf("status = %d, want %d", rr.Code, tt.expectedCode)
			}
			if !strings.Contains(rr.Body.String(), tt.expectedSubstr) {
				t.Errorf("body %q missing %q", rr.Body.String(), tt.expectedSubstr)
			}
		})
	}
}

func TestAccounts_Delete(t *testing.T) {
	svc := &fakeAccountService{}
	router := newTestServer(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/accounts/a1", nil)
	req.Header.Set("Authorization", bearer(t, "u1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != "a1" {
		t.Errorf("delete not passed through: %v", svc.deleted)
	}
}

func TestAccounts_Delete_NotFound(t *testing.T) {
	svc := &fakeAccountService{err: service.ErrNotFound}
	router := newTestServer(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/accounts/missing", nil)
	req.Header.Set("Authorization", bearer(t, "u1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestAccounts_Upload(t *testing.T) {
	svc := &fakeAccountService{}
	router := newTestServer(svc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("attachedFile", "doc.pdf")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write([]byte("contents")); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/accounts/upload/a1", &buf)
	req.Header.Set("Authorization", bearer(t, "u1"))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if len(svc.attached) != 1 || svc.attached[0] != "a1" {
		t.Errorf("upload not passed through: %v", svc.attached)
	}
}

func TestAccounts_GenerateAccessAndServe(t *testing.T) {
	svc := &fakeAccountService{
		access:   &models.FileAccess{Success: true, URL: "http://localhost:8080/api/accounts/file/a1?access=tok"},
		fileName: "doc.pdf",
		fileData: []byte("contents"),
	}
	router := newTestServer(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/accounts/file/a1/generate-access", nil)
	req.Header.Set("Authorization", bearer(t, "u1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("generate-access status = %d", rr.Code)
	}
	var access models.FileAccess
	if err := json.Unmarshal(rr.Body.Bytes(), &access); err != nil {
		t.Fatalf("decoding access: %v", err)
	}
	if !access.Success || access.URL == "" {
		t.Fatalf("unexpected access response: %+v", access)
	}

	// The returned URL serves the file without a bearer token.
	req = httptest.NewRequest(http.MethodGet, "/api/accounts/file/a1?access=tok&download=true", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("serve status = %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Disposition"); !strings.Contains(got, "doc.pdf") {
		t.Errorf("missing download disposition: %q", got)
	}
	if rr.Body.String() != "contents" {
		t.Errorf("unexpected file body: %q", rr.Body.String())
	}
}

func TestAccounts_ServeFile_MissingAccessToken(t *testing.T) {
	router := newTestServer(&fakeAccountService{})

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/file/a1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestStatusHandler(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		expected models.Status
	}{
		{"connected", nil, models.Status{IsConnected: true, State: "connected"}},
		{"disconnected", sql.ErrConnDone, models.Status{IsConnected: false, State: "disconnected"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &StatusHandler{DB: fakePinger{err: tt.pingErr}}
			req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
			rr := httptest.NewRecorder()
			handler.Status(rr, req)

			var got models.Status
			if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if got != tt.expected {
				t.Errorf("status = %+v, want %+v", got, tt.expected)
			}
		})
	}
}
