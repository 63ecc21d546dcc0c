// Package form implements the account form controller: one bidirectional
// form used for both creating and editing a record, plus delete and
// file-access actions. The form is in exactly one of two modes — create
// (no record bound) or edit (bound to an existing record) — and the mode
// flag and bound ID are only ever mutated together.
package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jayakumar9/atlas-account-vault/internal/client/api"
	"github.com/jayakumar9/atlas-account-vault/internal/client/session"
	"github.com/jayakumar9/atlas-account-vault/internal/client/ui"
	"github.com/jayakumar9/atlas-account-vault/internal/favicon"
	"github.com/jayakumar9/atlas-account-vault/internal/models"
)

// MaxFileSize is the advisory client-side cap on attachments. The
// server enforces its own limit; this check just avoids a doomed upload.
const MaxFileSize = 50 << 20 // 50MB

// Fields is the editable field set of the account form.
type Fields struct {
	Website  string
	Name     string
	Username string
	Email    string
	Password string
	Note     string
	// FilePath points at a local file to upload after the record saves.
	FilePath string
}

// Gate reports whether the backend is reachable. Mutating operations
// consult it first and abort when it reports disconnected.
type Gate interface {
	Check(ctx context.Context) bool
}

// Controller drives the account form and record actions.
type Controller struct {
	client   *api.Client
	session  *session.Store
	gate     Gate
	notifier *ui.Notifier
	out      io.Writer

	// Confirm asks the user to approve a destructive action. Delete is
	// a no-op when it returns false.
	Confirm func(prompt string) bool
	// Reload re-fetches and redraws the account list after a
	// successful mutation.
	Reload func(ctx context.Context)

	editing   bool
	accountID string
	fields    Fields
}

// NewController wires a Controller. Confirm defaults to refusing, so a
// caller that never sets it cannot delete anything by accident.
func NewController(client *api.Client, sess *session.Store, gate Gate, notifier *ui.Notifier, out io.Writer) *Controller {
	return &Controller{
		client:   client,
		session:  sess,
		gate:     gate,
		notifier: notifier,
		out:      out,
		Confirm:  func(string) bool { return false },
	}
}

// Editing reports whether the form is bound to an existing record.
func (c *Controller) Editing() bool { return c.editing }

// BoundID returns the record ID the form is editing, "" in create mode.
func (c *Controller) BoundID() string { return c.accountID }

// Fields returns the current field values.
func (c *Controller) Fields() Fields { return c.fields }

// SetFields replaces the field values without changing the mode.
func (c *Controller) SetFields(f Fields) { c.fields = f }

// Reset returns the form to create mode and clears every field.
func (c *Controller) Reset() {
	c.editing = false
	c.accountID = ""
	c.fields = Fields{}
}

// enterEdit binds the form to an existing record. The mode flag and the
// bound ID move together; these are the only two places they change.
func (c *Controller) enterEdit(id string) {
	c.editing = true
	c.accountID = id
}

// validate checks the required fields and the advisory file-size cap.
// It runs before any network call; a failure aborts the submit locally.
func (c *Controller) validate() error {
	if strings.TrimSpace(c.fields.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(c.fields.Username) == "" {
		return errors.New("username is required")
	}
	if email := strings.TrimSpace(c.fields.Email); email == "" || !strings.Contains(email, "@") {
		return errors.New("valid email is required")
	}
	if c.fields.Password == "" {
		return errors.New("password is required")
	}
	if c.fields.FilePath != "" {
		info, err := os.Stat(c.fields.FilePath)
		if err != nil {
			return fmt.Errorf("cannot read attachment: %w", err)
		}
		if info.Size() > MaxFileSize {
			return errors.New("file size must be less than 50MB")
		}
	}
	return nil
}

// Submit saves the form: create mode posts a new record, edit mode
// updates the bound one. A selected file is uploaded afterwards with
// bounded retries; exhausting them downgrades to a warning — the saved
// record is not rolled back. On success the form resets to create mode
// and the list reloads.
func (c *Controller) Submit(ctx context.Context) {
	if !c.gate.Check(ctx) {
		c.notifier.Error("Cannot save: database is not connected")
		return
	}
	if err := c.validate(); err != nil {
		c.notifier.Error("%s", err)
		return
	}

	acc := &models.Account{
		Website:  strings.TrimSpace(c.fields.Website),
		Name:     strings.TrimSpace(c.fields.Name),
		Username: strings.TrimSpace(c.fields.Username),
		Email:    strings.TrimSpace(c.fields.Email),
		Password: c.fields.Password,
		Note:     strings.TrimSpace(c.fields.Note),
	}
	// Cosmetic only: a website that yields no favicon just leaves the
	// logo empty.
	acc.LogoURL = favicon.URLForWebsite(acc.Website)

	var (
		saved *models.Account
		err   error
	)
	wasEditing := c.editing
	if wasEditing {
		acc.ID = c.accountID
		saved, err = c.client.UpdateAccount(ctx, acc)
	} else {
		saved, err = c.client.CreateAccount(ctx, acc)
	}
	if err != nil {
		c.notifier.Error("%s", err)
		return
	}

	uploadWarned := false
	if c.fields.FilePath != "" {
		data, readErr := os.ReadFile(c.fields.FilePath)
		if readErr != nil {
			c.notifier.Warning("Account saved but attachment could not be read: %v", readErr)
			uploadWarned = true
		} else if upErr := c.client.UploadFile(ctx, saved.ID, filepath.Base(c.fields.FilePath), data); upErr != nil {
			c.notifier.Warning("Account saved but file upload failed: %v", upErr)
			uploadWarned = true
		}
	}

	c.Reset()
	if c.Reload != nil {
		c.Reload(ctx)
	}
	if !uploadWarned {
		if wasEditing {
			c.notifier.Success("Account updated successfully!")
		} else {
			c.notifier.Success("Account created successfully!")
		}
	}
}

// Edit fetches a record and binds the form to it, revealing the stored
// values (password included) for adjustment. On failure the form state
// is untouched.
func (c *Controller) Edit(ctx context.Context, id string) {
	if !c.gate.Check(ctx) {
		c.notifier.Error("Cannot edit: database is not connected")
		return
	}

	acc, err := c.client.GetAccount(ctx, id)
	if err != nil {
		c.notifier.Error("%s", err)
		return
	}

	c.fields = Fields{
		Website:  acc.Website,
		Name:     acc.Name,
		Username: acc.Username,
		Email:    acc.Email,
		Password: acc.Password,
		Note:     acc.Note,
	}
	c.enterEdit(acc.ID)

	fmt.Fprintf(c.out, "Editing #%d - %s\n", acc.SerialNumber, acc.Name)
	fmt.Fprintf(c.out, "  Website:  %s\n", acc.Website)
	fmt.Fprintf(c.out, "  Username: %s\n", acc.Username)
	fmt.Fprintf(c.out, "  Email:    %s\n", acc.Email)
	fmt.Fprintf(c.out, "  Password: %s\n", acc.Password)
	if acc.Note != "" {
		fmt.Fprintf(c.out, "  Note:     %s\n", acc.Note)
	}
}

// Delete removes a record after an explicit confirmation. Unconfirmed
// deletes issue no request. There is no optimistic removal; the list
// only changes after the server confirms.
func (c *Controller) Delete(ctx context.Context, id string) {
	if !c.gate.Check(ctx) {
		c.notifier.Error("Cannot delete: database is not connected")
		return
	}
	if !c.Confirm("Are you sure you want to delete this account?") {
		return
	}

	if err := c.client.DeleteAccount(ctx, id); err != nil {
		c.notifier.Error("Failed to delete account: %s", err)
		return
	}
	c.notifier.Success("Account deleted successfully")
	if c.Reload != nil {
		c.Reload(ctx)
	}
}

// ViewFile requests a short-lived access URL for a record's attachment.
// With download=false the final URL is printed for the user to open;
// with download=true the file is fetched and written next to the
// working directory under its original name. A 401 means the session
// expired and forces logout.
func (c *Controller) ViewFile(ctx context.Context, id, filename string, download bool) {
	if c.client.Token() == "" {
		c.notifier.Error("Please log in to view files")
		return
	}

	access, err := c.client.GenerateFileAccess(ctx, id)
	if err != nil {
		if api.IsUnauthorized(err) {
			c.notifier.Error("Session expired. Please log in again.")
			c.session.Logout()
			return
		}
		c.notifier.Error("Error viewing file: %s", err)
		return
	}

	finalURL := access.URL + "&token=" + url.QueryEscape(c.client.Token())
	if !download {
		fmt.Fprintf(c.out, "Open in browser: %s\n", finalURL)
		return
	}

	finalURL += "&download=true"
	f, err := os.Create(filename)
	if err != nil {
		c.notifier.Error("Cannot create %s: %v", filename, err)
		return
	}
	defer f.Close()

	if err := c.client.FetchURL(ctx, finalURL, f); err != nil {
		c.notifier.Error("Download failed: %s", err)
		return
	}
	c.notifier.Success("Downloaded %s", filename)
}
