// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/database/schema"
	"github.com/taibuivan/quillpost/internal/platform/dberr"
)

// # Account Repository

// PostgresAccountRepository implements [AccountRepository] using pgx.
//
// Nullable columns (password hash, username, image key) are coalesced to empty
// strings on read and written back as NULL when empty.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// selectAccount is the projection shared by every account lookup.
var selectAccount = fmt.Sprintf(`
	SELECT %s, %s, COALESCE(%s, ''), COALESCE(%s, ''), %s, %s, %s, COALESCE(%s, ''), %s, %s
	FROM %s`,
	schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.Password,
	schema.UserAccount.Username, schema.UserAccount.Role, schema.UserAccount.IsBanned,
	schema.UserAccount.IsVerified, schema.UserAccount.ImageKey, schema.UserAccount.CreatedAt,
	schema.UserAccount.UpdatedAt, schema.UserAccount.Table,
)

// ScanAccount hydrates an [Account] from a row produced by the shared projection.
func ScanAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Username,
		&account.Role,
		&account.IsBanned,
		&account.IsVerified,
		&account.ImageKey,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

/*
FindByID retrieves an account by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Account: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*Account, error) {
	query := selectAccount + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.ID)

	account, err := ScanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFoundf(MsgAccountIDNotFound, id)
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return account, nil
}

/*
FindByEmail retrieves an account by its unique email address.

Description: The comparison is case-insensitive and served by the unique
index on LOWER(email).

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Account: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	query := selectAccount + fmt.Sprintf(` WHERE LOWER(%s) = LOWER($1)`, schema.UserAccount.Email)

	account, err := ScanAccount(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFoundf(MsgAccountNotFound, email)
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_email_failed: %w", err)
	}

	return account, nil
}

/*
Create persists a new account record.

Description: Initializes timestamps when absent. A violation of the email
unique index is reported as apperr.Conflict so callers can react to races.

Parameters:
  - context: context.Context
  - account: *Account (Entity to persist)

Returns:
  - error: apperr.Conflict or connectivity errors
*/
func (repository *PostgresAccountRepository) Create(context context.Context, account *Account) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.Password,
		schema.UserAccount.Username, schema.UserAccount.Role, schema.UserAccount.IsBanned,
		schema.UserAccount.IsVerified, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Username,
		account.Role,
		account.IsBanned,
		account.IsVerified,
		account.CreatedAt,
		account.UpdatedAt,
	)

	return createError(err, account.Email)
}

// createError reports a violation of the email index as apperr.Conflict.
func createError(err error, email string) error {
	if err == nil {
		return nil
	}
	if dberr.IsUniqueViolation(err, schema.UserAccount.EmailIndex) {
		return apperr.Conflict(fmt.Sprintf(MsgAccountExists, email))
	}
	return fmt.Errorf("postgres_account_repo_create_failed: %w", err)
}

/*
UpdatePassword replaces the password hash of an account.

Parameters:
  - context: context.Context
  - accountID: string
  - passwordHash: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresAccountRepository) UpdatePassword(context context.Context, accountID, passwordHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Password, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, accountID, passwordHash)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_password_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf(MsgAccountIDNotFound, accountID)
	}

	return nil
}
