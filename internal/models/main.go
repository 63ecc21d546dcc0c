// Package models defines the core data structures shared by the vault
// client and server.
package models

// User represents an application user.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Username is the display name chosen at registration.
	Username string `json:"username"`
	// Email is the address the user logs in with.
	Email string `json:"email,omitempty"`
	// PasswordHash is the bcrypt hash of the login password.
	// Never serialized to clients.
	PasswordHash []byte `json:"-"`
}

// AttachedFile describes a file stored alongside an account record.
type AttachedFile struct {
	// Filename is the original name of the uploaded file.
	Filename string `json:"filename"`
	// ContentType is the MIME type reported at upload.
	ContentType string `json:"contentType,omitempty"`
	// Size is the stored size in bytes.
	Size int64 `json:"size,omitempty"`
}

// Account holds one stored credential entry owned by a user.
type Account struct {
	// ID is the unique identifier for the record, server-assigned.
	ID string `json:"id"`
	// SerialNumber is the per-user display ordering, server-assigned.
	SerialNumber int `json:"serialNumber"`
	// Website is an optional URL the credential belongs to.
	Website string `json:"website,omitempty"`
	// Name is the display name of the entry.
	Name string `json:"name"`
	// Username is the stored login name.
	Username string `json:"username"`
	// Email is the stored email address.
	Email string `json:"email"`
	// Password is the stored password. Kept plaintext on the wire;
	// the client performs no encryption.
	Password string `json:"password"`
	// Note is optional free-form text.
	Note string `json:"note,omitempty"`
	// LogoURL is an optional favicon URL derived from Website at save time.
	LogoURL string `json:"logoUrl,omitempty"`
	// AttachedFile is present when a file has been uploaded for the record.
	AttachedFile *AttachedFile `json:"attachedFile,omitempty"`
}

// Status reports backend connectivity as exposed by /api/status.
type Status struct {
	// IsConnected is true when the database answers pings.
	IsConnected bool `json:"isConnected"`
	// State is a human-readable connection state ("connected", "disconnected").
	State string `json:"state"`
}

// AuthResponse is the body returned by login and register.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// FileAccess is the body returned by generate-access: a short-lived URL
// for viewing or downloading an attachment.
type FileAccess struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}
