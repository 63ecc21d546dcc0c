package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jayakumar9/atlas-account-vault/internal/models"
)

// PostgresAccountRepository implements account-record persistence against
// a PostgreSQL database.
type PostgresAccountRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresAccountRepository creates a new PostgresAccountRepository using
// the provided *sql.DB. db must be a valid connection to a PostgreSQL instance.
func NewPostgresAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{DB: db}
}

const accountColumns = `
	a.id, a.serial_number, a.website, a.name, a.username, a.email,
	a.password, a.note, a.logo_url,
	f.filename, f.content_type, COALESCE(LENGTH(f.data), 0)
`

// scanAccount reads one account row including the optional attachment
// metadata from the LEFT JOIN on attachments.
func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	var (
		acc         models.Account
		website     sql.NullString
		note        sql.NullString
		logoURL     sql.NullString
		filename    sql.NullString
		contentType sql.NullString
		size        int64
	)
	err := row.Scan(
		&acc.ID, &acc.SerialNumber, &website, &acc.Name, &acc.Username,
		&acc.Email, &acc.Password, &note, &logoURL,
		&filename, &contentType, &size,
	)
	if err != nil {
		return nil, err
	}
	acc.Website = website.String
	acc.Note = note.String
	acc.LogoURL = logoURL.String
	if filename.Valid {
		acc.AttachedFile = &models.AttachedFile{
			Filename:    filename.String,
			ContentType: contentType.String,
			Size:        size,
		}
	}
	return &acc, nil
}

// ListByUser fetches all account records for the specified user, ordered
// by serial number.
func (s *PostgresAccountRepository) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+accountColumns+`
		  FROM accounts a
		  LEFT JOIN attachments f ON f.account_id = a.id
		 WHERE a.user_id = $1
		 ORDER BY a.serial_number
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListByUser: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	return accounts, rows.Err()
}

// GetByID retrieves a single account record by ID for the given user.
// Returns sql.ErrNoRows when the record does not exist or belongs to
// another user.
func (s *PostgresAccountRepository) GetByID(ctx context.Context, userID, id string) (*models.Account, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		  FROM accounts a
		  LEFT JOIN attachments f ON f.account_id = a.id
		 WHERE a.user_id = $1 AND a.id = $2
	`, userID, id)
	return scanAccount(row)
}

// Create inserts a new account record, assigning the next serial number
// for the user inside a transaction. The assigned serial is written back
// into acc.
func (s *PostgresAccountRepository) Create(ctx context.Context, userID string, acc *models.Account) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(serial_number), 0) + 1 FROM accounts WHERE user_id = $1
	`, userID).Scan(&acc.SerialNumber)
	if err != nil {
		return fmt.Errorf("next serial: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, serial_number, website, name, username, email, password, note, logo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, acc.ID, userID, acc.SerialNumber, acc.Website, acc.Name, acc.Username,
		acc.Email, acc.Password, acc.Note, acc.LogoURL)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of an existing record owned by the
// user. Returns sql.ErrNoRows when nothing matched.
func (s *PostgresAccountRepository) Update(ctx context.Context, userID string, acc *models.Account) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE accounts
		   SET website = $1, name = $2, username = $3, email = $4,
		       password = $5, note = $6, logo_url = $7
		 WHERE user_id = $8 AND id = $9
	`, acc.Website, acc.Name, acc.Username, acc.Email, acc.Password,
		acc.Note, acc.LogoURL, userID, acc.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an account record owned by the user. Returns
// sql.ErrNoRows when nothing matched.
func (s *PostgresAccountRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM accounts WHERE user_id = $1 AND id = $2
	`, userID, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SaveAttachment stores or replaces the file attached to an account.
func (s *PostgresAccountRepository) SaveAttachment(ctx context.Context, accountID, filename, contentType string, data []byte) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO attachments (account_id, filename, content_type, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id) DO UPDATE SET
			filename = EXCLUDED.filename,
			content_type = EXCLUDED.content_type,
			data = EXCLUDED.data
	`, accountID, filename, contentType, data)
	if err != nil {
		return fmt.Errorf("save attachment: %w", err)
	}
	return nil
}

// GetAttachment fetches the stored file for an account. Returns
// sql.ErrNoRows when no attachment exists.
func (s *PostgresAccountRepository) GetAttachment(ctx context.Context, accountID string) (filename, contentType string, data []byte, err error) {
	err = s.DB.QueryRowContext(ctx, `
		SELECT filename, content_type, data FROM attachments WHERE account_id = $1
	`, accountID).Scan(&filename, &contentType, &data)
	return filename, contentType, data, err
}

// CreateAccessToken records a short-lived file-access token.
func (s *PostgresAccountRepository) CreateAccessToken(ctx context.Context, token, accountID string, expiresAt time.Time) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO file_access_tokens (token, account_id, expires_at) VALUES ($1, $2, $3)
	`, token, accountID, expiresAt)
	return err
}

// AccessTokenValid reports whether the token grants access to the given
// account and has not expired.
func (s *PostgresAccountRepository) AccessTokenValid(ctx context.Context, token, accountID string) (bool, error) {
	var valid bool
	err := s.DB.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM file_access_tokens
			 WHERE token = $1 AND account_id = $2 AND expires_at > NOW()
		)
	`, token, accountID).Scan(&valid)
	return valid, err
}
