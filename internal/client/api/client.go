// Package api wraps the vault REST endpoints behind a typed client.
// Every call returns either a decoded value or an error carrying the
// server's message, so callers can show it to the user verbatim.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/jayakumar9/atlas-account-vault/internal/models"
)

// API paths consumed by the client.
const (
	pathMe       = "/api/auth/me"
	pathLogin    = "/api/auth/login"
	pathRegister = "/api/auth/register"
	pathStatus   = "/api/status"
	pathAccounts = "/api/accounts"
)

// Error is a server-reported failure: a non-2xx status and the message
// from the response body.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// IsUnauthorized reports whether err is a server 401, which the client
// treats as session expiry.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// Client issues authenticated requests against the vault API.
type Client struct {
	baseURL string
	http    *http.Client
	retry   RetryPolicy

	// token is the bearer credential attached to authenticated calls.
	// Empty when unauthenticated. The REPL is single-threaded, so no
	// locking is needed around it.
	token string
}

// New constructs a Client for the given base URL. httpClient may be nil,
// in which case a client with a 30s timeout is used.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		retry:   DefaultRetryPolicy(),
	}
}

// SetRetryPolicy replaces the upload retry policy.
func (c *Client) SetRetryPolicy(p RetryPolicy) { c.retry = p }

// SetToken installs the bearer credential used on authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current bearer credential, "" when unauthenticated.
func (c *Client) Token() string { return c.token }

// do issues one request and decodes the JSON response into out (when
// non-nil). Non-2xx responses become *Error with the server's message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError extracts the JSON {"message": ...} body of a failed
// response, falling back to the HTTP status text.
func decodeError(resp *http.Response) *Error {
	var body struct {
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(data, &body) != nil || body.Message == "" {
		body.Message = http.StatusText(resp.StatusCode)
	}
	return &Error{StatusCode: resp.StatusCode, Message: body.Message}
}

// CheckStatus queries the unauthenticated health endpoint.
func (c *Client) CheckStatus(ctx context.Context) (models.Status, error) {
	var status models.Status
	err := c.do(ctx, http.MethodGet, pathStatus, nil, &status)
	return status, err
}

// Login submits credentials and returns the issued token and user.
// The caller decides whether to install the token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, pathLogin, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new user and returns the issued token and user.
func (c *Client) Register(ctx context.Context, username, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, pathRegister, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me validates the installed token and returns the user it belongs to.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, pathMe, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListAccounts fetches the current user's account records.
func (c *Client) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := c.do(ctx, http.MethodGet, pathAccounts, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetAccount fetches one record by ID.
func (c *Client) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	var acc models.Account
	if err := c.do(ctx, http.MethodGet, pathAccounts+"/"+id, nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// CreateAccount submits a new record and returns it with the
// server-assigned ID and serial number.
func (c *Client) CreateAccount(ctx context.Context, acc *models.Account) (*models.Account, error) {
	var created models.Account
	if err := c.do(ctx, http.MethodPost, pathAccounts, acc, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateAccount rewrites an existing record keyed by its ID.
func (c *Client) UpdateAccount(ctx context.Context, acc *models.Account) (*models.Account, error) {
	var updated models.Account
	if err := c.do(ctx, http.MethodPut, pathAccounts+"/"+acc.ID, acc, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAccount removes a record by ID.
func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathAccounts+"/"+id, nil, nil)
}

// UploadFile attaches a file to a saved record as a multipart request,
// retrying per the client's retry policy. The caller has already saved
// the record; exhausting retries is reported as an error the caller
// downgrades to a warning rather than rolling back.
func (c *Client) UploadFile(ctx context.Context, accountID, filename string, data []byte) error {
	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		lastErr = c.uploadOnce(ctx, accountID, filename, data)
		if lastErr == nil {
			return nil
		}
		if attempt < c.retry.MaxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retry.Backoff(attempt)):
			}
		}
	}
	return fmt.Errorf("upload failed after %d attempts: %w", c.retry.MaxAttempts, lastErr)
}

func (c *Client) uploadOnce(ctx context.Context, accountID, filename string, data []byte) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("attachedFile", filename)
	if err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("write form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathAccounts+"/upload/"+accountID, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	return nil
}

// GenerateFileAccess asks the server for a short-lived URL to a record's
// attachment.
func (c *Client) GenerateFileAccess(ctx context.Context, accountID string) (*models.FileAccess, error) {
	var access models.FileAccess
	err := c.do(ctx, http.MethodPost, pathAccounts+"/file/"+accountID+"/generate-access", nil, &access)
	if err != nil {
		return nil, err
	}
	if !access.Success || access.URL == "" {
		return nil, fmt.Errorf("invalid response from server")
	}
	return &access, nil
}

// FetchURL downloads the contents of an already-authorized URL, used for
// saving attachments locally.
func (c *Client) FetchURL(ctx context.Context, url string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}
