package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jayakumar9/atlas-account-vault/internal/client/api"
)

func tokenFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "token")
}

func TestRestore_NoTokenFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected without a stored token, got %s", r.URL.Path)
	}))
	defer server.Close()

	store := NewStore(api.New(server.URL, nil), tokenFile(t))
	if err := store.Restore(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Authenticated() {
		t.Error("expected unauthenticated session")
	}
}

func TestRestore_ValidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer stored-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u1","username":"alice"}`))
	}))
	defer server.Close()

	path := tokenFile(t)
	if err := os.WriteFile(path, []byte("stored-token"), 0600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}

	store := NewStore(api.New(server.URL, nil), path)
	if err := store.Restore(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.Authenticated() {
		t.Fatal("expected authenticated session")
	}
	if store.User().Username != "alice" {
		t.Errorf("unexpected user: %+v", store.User())
	}
}

func TestRestore_RejectedTokenIsCleared(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid or expired token"}`))
	}))
	defer server.Close()

	path := tokenFile(t)
	if err := os.WriteFile(path, []byte("stale-token"), 0600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}

	client := api.New(server.URL, nil)
	store := NewStore(client, path)
	if err := store.Restore(context.Background()); err != nil {
		t.Fatalf("a rejected token is not an error: %v", err)
	}
	if store.Authenticated() {
		t.Error("expected unauthenticated session after 401")
	}
	if client.Token() != "" {
		t.Error("client token should be cleared after 401")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("token file should be removed after 401")
	}
}

func TestLogin_PersistsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"fresh-token","user":{"id":"u1","username":"alice"}}`))
	}))
	defer server.Close()

	path := tokenFile(t)
	client := api.New(server.URL, nil)
	store := NewStore(client, path)

	if err := store.Login(context.Background(), "a@example.com", "pass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.Authenticated() || store.User().Username != "alice" {
		t.Errorf("session not established: %+v", store.User())
	}
	if client.Token() != "fresh-token" {
		t.Errorf("client token = %q", client.Token())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("token file not written: %v", err)
	}
	if string(data) != "fresh-token" {
		t.Errorf("persisted token = %q", data)
	}
}

func TestLogin_FailureLeavesStateUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid email or password"}`))
	}))
	defer server.Close()

	path := tokenFile(t)
	store := NewStore(api.New(server.URL, nil), path)

	err := store.Login(context.Background(), "a@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "invalid email or password" {
		t.Errorf("server message not surfaced: %q", err.Error())
	}
	if store.Authenticated() {
		t.Error("failed login must not authenticate")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("failed login must not write a token file")
	}
}

func TestLogout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"tok","user":{"id":"u1","username":"alice"}}`))
	}))
	defer server.Close()

	path := tokenFile(t)
	client := api.New(server.URL, nil)
	store := NewStore(client, path)
	if err := store.Login(context.Background(), "a@example.com", "pass"); err != nil {
		t.Fatalf("login: %v", err)
	}

	store.Logout()

	if store.Authenticated() {
		t.Error("expected unauthenticated session after logout")
	}
	if client.Token() != "" {
		t.Error("client token should be cleared on logout")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("token file should be removed on logout")
	}
}
