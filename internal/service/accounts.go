package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jayakumar9/atlas-account-vault/internal/models"
)

// MaxUploadSize is the server-side cap on attachment size. The client
// enforces the same limit before sending; the server is the authority.
const MaxUploadSize = 50 << 20 // 50MB

// accessTokenTTL is the lifetime of generated file-access URLs.
const accessTokenTTL = 5 * time.Minute

// ErrFileTooLarge is returned when an upload exceeds MaxUploadSize.
var ErrFileTooLarge = fmt.Errorf("file size must be less than %dMB", MaxUploadSize>>20)

// AccountRepository defines the persistence operations needed by the
// AccountService.
type AccountRepository interface {
	// ListByUser retrieves all account records belonging to the user,
	// ordered by serial number.
	ListByUser(ctx context.Context, userID string) ([]models.Account, error)
	// GetByID fetches a single record owned by the user; sql.ErrNoRows when absent.
	GetByID(ctx context.Context, userID, id string) (*models.Account, error)
	// Create inserts a record and assigns its per-user serial number.
	Create(ctx context.Context, userID string, acc *models.Account) error
	// Update rewrites a record owned by the user; sql.ErrNoRows when absent.
	Update(ctx context.Context, userID string, acc *models.Account) error
	// Delete removes a record owned by the user; sql.ErrNoRows when absent.
	Delete(ctx context.Context, userID, id string) error
	// SaveAttachment stores or replaces the file attached to an account.
	SaveAttachment(ctx context.Context, accountID, filename, contentType string, data []byte) error
	// GetAttachment fetches the stored file; sql.ErrNoRows when absent.
	GetAttachment(ctx context.Context, accountID string) (filename, contentType string, data []byte, err error)
	// CreateAccessToken records a short-lived file-access token.
	CreateAccessToken(ctx context.Context, token, accountID string, expiresAt time.Time) error
	// AccessTokenValid reports whether the token is live for the account.
	AccessTokenValid(ctx context.Context, token, accountID string) (bool, error)
}

// AccountService implements account-record business logic.
type AccountService struct {
	// repo is the underlying persistence repository.
	repo AccountRepository
	// baseURL is the public base URL embedded in file-access links.
	baseURL string
}

// NewAccountService constructs an AccountService with the provided
// repository and public base URL.
func NewAccountService(repo AccountRepository, baseURL string) *AccountService {
	return &AccountService{repo: repo, baseURL: baseURL}
}

// List returns all records owned by the user in serial order.
func (s *AccountService) List(ctx context.Context, userID string) ([]models.Account, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns one record owned by the user.
func (s *AccountService) Get(ctx context.Context, userID, id string) (*models.Account, error) {
	acc, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return acc, nil
}

// Create stores a new record. The server assigns the ID and the next
// serial number for the user; anything the client sent in those fields
// is discarded.
func (s *AccountService) Create(ctx context.Context, userID string, acc *models.Account) (*models.Account, error) {
	acc.ID = uuid.NewString()
	if err := s.repo.Create(ctx, userID, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// Update rewrites an existing record owned by the user.
func (s *AccountService) Update(ctx context.Context, userID string, acc *models.Account) (*models.Account, error) {
	if err := s.repo.Update(ctx, userID, acc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	updated, err := s.repo.GetByID(ctx, userID, acc.ID)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a record owned by the user.
func (s *AccountService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// AttachFile stores an uploaded file against a record the user owns.
func (s *AccountService) AttachFile(ctx context.Context, userID, accountID, filename, contentType string, data []byte) error {
	if int64(len(data)) > MaxUploadSize {
		return ErrFileTooLarge
	}
	// Ownership check before touching the attachment.
	if _, err := s.Get(ctx, userID, accountID); err != nil {
		return err
	}
	return s.repo.SaveAttachment(ctx, accountID, filename, contentType, data)
}

// GenerateFileAccess issues a short-lived access URL for a record's
// attachment. The record must exist, belong to the user, and have a file.
func (s *AccountService) GenerateFileAccess(ctx context.Context, userID, accountID string) (*models.FileAccess, error) {
	acc, err := s.Get(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	if acc.AttachedFile == nil {
		return nil, ErrNotFound
	}

	token := uuid.NewString()
	if err := s.repo.CreateAccessToken(ctx, token, accountID, time.Now().Add(accessTokenTTL)); err != nil {
		return nil, err
	}
	return &models.FileAccess{
		Success: true,
		URL:     fmt.Sprintf("%s/api/accounts/file/%s?access=%s", s.baseURL, accountID, token),
	}, nil
}

// ServeFile validates an access token and returns the stored file.
func (s *AccountService) ServeFile(ctx context.Context, accountID, accessToken string) (filename, contentType string, data []byte, err error) {
	valid, err := s.repo.AccessTokenValid(ctx, accessToken, accountID)
	if err != nil {
		return "", "", nil, err
	}
	if !valid {
		return "", "", nil, ErrNotFound
	}
	filename, contentType, data, err = s.repo.GetAttachment(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", nil, ErrNotFound
		}
		return "", "", nil, err
	}
	return filename, contentType, data, nil
}
