// Package session holds the client's authenticated state: the bearer
// credential, persisted across runs, and the user it belongs to,
// re-derived from the backend on every start.
package session

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jayakumar9/atlas-account-vault/internal/client/api"
	"github.com/jayakumar9/atlas-account-vault/internal/models"
)

// Store owns the session state and the token file.
type Store struct {
	client *api.Client
	path   string
	user   *models.User
}

// NewStore creates a session store persisting the token at path.
func NewStore(client *api.Client, path string) *Store {
	return &Store{client: client, path: path}
}

// Authenticated reports whether a user is currently logged in.
func (s *Store) Authenticated() bool { return s.user != nil }

// User returns the current user, nil when unauthenticated.
func (s *Store) User() *models.User { return s.user }

// Restore loads a persisted credential and validates it against the
// backend identity endpoint. Called exactly once, at startup. On any
// failure — rejection or transport — the stored credential is discarded
// and the session stays unauthenticated; a stale token is worthless
// either way.
func (s *Store) Restore(ctx context.Context) error {
	token, err := s.loadToken()
	if err != nil || token == "" {
		return nil
	}

	s.client.SetToken(token)
	user, err := s.client.Me(ctx)
	if err != nil {
		s.Logout()
		if api.IsUnauthorized(err) {
			return nil
		}
		return fmt.Errorf("session check failed: %w", err)
	}

	s.user = user
	return nil
}

// Login submits credentials; on success the returned token is installed
// and persisted. On failure session state is untouched.
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.establish(resp)
}

// Register creates a new user; on success the session is established the
// same way login does.
func (s *Store) Register(ctx context.Context, username, email, password string) error {
	resp, err := s.client.Register(ctx, username, email, password)
	if err != nil {
		return err
	}
	return s.establish(resp)
}

// Logout clears the credential and user and removes the token file.
// The token is a stateless bearer credential, so no server call is made.
func (s *Store) Logout() {
	s.user = nil
	s.client.SetToken("")
	_ = os.Remove(s.path)
}

func (s *Store) establish(resp *models.AuthResponse) error {
	s.client.SetToken(resp.Token)
	s.user = &resp.User
	if err := s.saveToken(resp.Token); err != nil {
		// The session works for this run even if persistence failed.
		return fmt.Errorf("session active but not persisted: %w", err)
	}
	return nil
}

func (s *Store) loadToken() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *Store) saveToken(token string) error {
	return os.WriteFile(s.path, []byte(token), 0600)
}
