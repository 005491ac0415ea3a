// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/database/schema"
	"github.com/taibuivan/quillpost/internal/platform/dberr"
	"github.com/taibuivan/quillpost/internal/users/auth"
)

// # Repository Implementations

// PostgresRepository implements [Repository] on the users.account table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Postgres implementation for account mutations.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// exec runs a single-row update and maps "no row" to NotFound.
func (repository *PostgresRepository) exec(context context.Context, operation, accountID, query string, args ...any) error {
	tag, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_%s_failed: %w", operation, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf(auth.MsgAccountIDNotFound, accountID)
	}
	return nil
}

/*
UpdateUsername sets the username and refreshes updatedat.

Parameters:
  - context: context.Context
  - accountID: string
  - username: string

Returns:
  - error: apperr.Conflict on the username index, apperr.NotFound, execution errors
*/
func (repository *PostgresRepository) UpdateUsername(context context.Context, accountID, username string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Username, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	err := repository.exec(context, "update_username", accountID, query, accountID, username)
	if dberr.IsUniqueViolation(err, schema.UserAccount.UsernameIndex) {
		return apperr.Conflict(fmt.Sprintf(MsgUsernameTaken, username))
	}
	return err
}

// UpdateImage stores the object key of the new profile image.
func (repository *PostgresRepository) UpdateImage(context context.Context, accountID, imageKey string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NULLIF($2, ''), %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.ImageKey, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	return repository.exec(context, "update_image", accountID, query, accountID, imageKey)
}

// MarkVerified sets isverified. The transition is one way.
func (repository *PostgresRepository) MarkVerified(context context.Context, accountID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.IsVerified, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	return repository.exec(context, "mark_verified", accountID, query, accountID)
}

/*
SetBanned flips the moderation flag.

Description: Only the account row changes. Blogs, posts and comments keep
their own flags; the ban reaches them through the ownership chain at access time.
*/
func (repository *PostgresRepository) SetBanned(context context.Context, accountID string, banned bool) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.IsBanned, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	return repository.exec(context, "set_banned", accountID, query, accountID, banned)
}

// Delete removes the account row; foreign keys cascade to owned content.
func (repository *PostgresRepository) Delete(context context.Context, accountID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.UserAccount.Table, schema.UserAccount.ID)

	return repository.exec(context, "delete", accountID, query, accountID)
}
