package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jayakumar9/atlas-account-vault/internal/middleware"
	"github.com/jayakumar9/atlas-account-vault/internal/models"
	"github.com/jayakumar9/atlas-account-vault/internal/service"
)

// AccountService defines the interface for account-record operations
// required by the AccountHandler.
type AccountService interface {
	List(ctx context.Context, userID string) ([]models.Account, error)
	Get(ctx context.Context, userID, id string) (*models.Account, error)
	Create(ctx context.Context, userID string, acc *models.Account) (*models.Account, error)
	Update(ctx context.Context, userID string, acc *models.Account) (*models.Account, error)
	Delete(ctx context.Context, userID, id string) error
	AttachFile(ctx context.Context, userID, accountID, filename, contentType string, data []byte) error
	GenerateFileAccess(ctx context.Context, userID, accountID string) (*models.FileAccess, error)
	ServeFile(ctx context.Context, accountID, accessToken string) (filename, contentType string, data []byte, err error)
}

// AccountHandler handles HTTP requests for account records and their
// attachments.
type AccountHandler struct {
	AccountService AccountService
}

// validateAccount performs the field checks shared by create and update.
func validateAccount(acc *models.Account) error {
	acc.Name = strings.TrimSpace(acc.Name)
	acc.Username = strings.TrimSpace(acc.Username)
	acc.Email = strings.TrimSpace(acc.Email)
	acc.Website = strings.TrimSpace(acc.Website)
	if acc.Name == "" {
		return errors.New("name is required")
	}
	if acc.Username == "" {
		return errors.New("username is required")
	}
	if acc.Email == "" || !strings.Contains(acc.Email, "@") {
		return errors.New("valid email is required")
	}
	if acc.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// List handles GET /api/accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	accounts, err := h.AccountService.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load accounts")
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

// Get handles GET /api/accounts/{id}.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	acc, err := h.AccountService.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

// Create handles POST /api/accounts.
// The server assigns the record ID and serial number.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var acc models.Account
	if err := json.NewDecoder(r.Body).Decode(&acc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateAccount(&acc); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.AccountService.Create(r.Context(), userID, &acc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save account")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/accounts/{id}.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var acc models.Account
	if err := json.NewDecoder(r.Body).Decode(&acc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	acc.ID = id
	if err := validateAccount(&acc); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.AccountService.Update(r.Context(), userID, &acc)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save account")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/accounts/{id}.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.AccountService.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete account")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

// Upload handles POST /api/accounts/upload/{id}, a multipart form with
// an "attachedFile" part. The request body is capped at the upload limit
// plus form overhead.
func (h *AccountHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadSize+1<<20)
	file, header, err := r.FormFile("attachedFile")
	if err != nil {
		writeError(w, http.StatusBadRequest, "attachedFile is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	contentType := header.Header.Get("Content-Type")
	err = h.AccountService.AttachFile(r.Context(), userID, id, header.Filename, contentType, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound, "account not found")
		case errors.Is(err, service.ErrFileTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to store file")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "file uploaded"})
}

// GenerateAccess handles POST /api/accounts/file/{id}/generate-access,
// issuing a short-lived URL for the record's attachment.
func (h *AccountHandler) GenerateAccess(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	access, err := h.AccountService.GenerateFileAccess(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to generate file access")
		return
	}
	writeJSON(w, http.StatusOK, access)
}

// ServeFile handles GET /api/accounts/file/{id}. Authentication is via
// the short-lived access token in the query string rather than the
// bearer middleware, so the URL works in a plain browser context.
// download=true forces an attachment disposition.
func (h *AccountHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	access := r.URL.Query().Get("access")
	if access == "" {
		writeError(w, http.StatusUnauthorized, "access token required")
		return
	}

	filename, contentType, data, err := h.AccountService.ServeFile(r.Context(), id, access)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "file not found or access expired")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if r.URL.Query().Get("download") == "true" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	_, _ = w.Write(data)
}
