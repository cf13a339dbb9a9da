// Package postgres implements CredentialStore on PostgreSQL through the
// pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	ftauth "github.com/mrra1yan/FootballTalento"
)

const uniqueViolation = "23505"

const accountColumns = `id, email, username, password_hash, display_name,
	account_type, country, currency, language, parent_consent,
	email_verified, created_at`

// Store is a PostgreSQL-backed CredentialStore.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetByID(ctx context.Context, id string) (ftauth.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return s.scanAccount(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) GetByEmail(ctx context.Context, email string) (ftauth.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE lower(email) = lower($1)`
	return s.scanAccount(s.db.QueryRowContext(ctx, query, email))
}

func (s *Store) GetByUsername(ctx context.Context, username string) (ftauth.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	return s.scanAccount(s.db.QueryRowContext(ctx, query, username))
}

func (s *Store) Create(ctx context.Context, input ftauth.CreateAccountInput) (ftauth.Account, error) {
	query := `INSERT INTO accounts
		(email, username, password_hash, display_name, account_type,
		 country, currency, language, parent_consent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + accountColumns

	row := s.db.QueryRowContext(ctx, query,
		input.Email, input.Username, input.PasswordHash, input.DisplayName,
		string(input.Type), input.Country, input.Currency, input.Language,
		input.ParentConsent,
	)

	account, err := s.scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == "accounts_username_key" {
				return ftauth.Account{}, ftauth.ErrDuplicateUsername
			}
			return ftauth.Account{}, ftauth.ErrDuplicateEmail
		}
		return ftauth.Account{}, err
	}

	return account, nil
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id, newHash string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = $2 WHERE id = $1`, id, newHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return checkAffected(result)
}

func (s *Store) SetEmailVerified(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET email_verified = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return checkAffected(result)
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE lower(email) = lower($1))`,
		email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)`,
		username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (s *Store) scanAccount(row *sql.Row) (ftauth.Account, error) {
	var (
		account     ftauth.Account
		accountType string
	)

	err := row.Scan(
		&account.ID, &account.Email, &account.Username, &account.PasswordHash,
		&account.DisplayName, &accountType, &account.Country, &account.Currency,
		&account.Language, &account.ParentConsent, &account.EmailVerified,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ftauth.Account{}, ftauth.ErrAccountNotFound
		}
		return ftauth.Account{}, err
	}

	account.Type = ftauth.AccountType(accountType)
	return account, nil
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return ftauth.ErrAccountNotFound
	}
	return nil
}
