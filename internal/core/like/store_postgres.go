// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package like

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/dberr"
)

const (
	uniquePostAccount = "uq_postlike_post_account"

	selectLike = `SELECT id, postid, accountid, createdat FROM content.postlike`
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanLike(row pgx.Row) (*Like, error) {
	l := &Like{}
	err := row.Scan(&l.ID, &l.PostID, &l.AccountID, &l.CreatedAt)
	return l, err
}

func (repository *PostgresRepository) ListLikes(context context.Context, postID string, limit, offset int) ([]*Like, int, error) {
	where := ""
	var args []any
	if postID != "" {
		where = " WHERE postid = $1"
		args = append(args, postID)
	}

	var total int
	if err := repository.db.QueryRow(context, `SELECT count(*) FROM content.postlike`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_like_repo_count_failed: %w", err)
	}

	query := selectLike + where + fmt.Sprintf(" ORDER BY createdat DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := repository.db.Query(context, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_like_repo_list_failed: %w", err)
	}
	defer rows.Close()

	likes := []*Like{}
	for rows.Next() {
		l, err := scanLike(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_like_repo_scan_failed: %w", err)
		}
		likes = append(likes, l)
	}

	return likes, total, rows.Err()
}

func (repository *PostgresRepository) GetLike(context context.Context, id string) (*Like, error) {
	l, err := scanLike(repository.db.QueryRow(context, selectLike+` WHERE id = $1`, id))
	if err != nil {
		return nil, dberr.Wrap(err, fmt.Sprintf(MsgNotFound, id), "")
	}
	return l, nil
}

func (repository *PostgresRepository) CreateLike(context context.Context, l *Like) error {
	const query = `
		INSERT INTO content.postlike (id, postid, accountid, createdat)
		VALUES ($1, $2, $3, NOW())
		RETURNING createdat`

	return createError(repository.db.QueryRow(context, query, l.ID, l.PostID, l.AccountID).Scan(&l.CreatedAt))
}

// createError maps the one-like-per-account index to [ErrAlreadyLiked].
func createError(err error) error {
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, uniquePostAccount):
		return ErrAlreadyLiked
	default:
		return fmt.Errorf("postgres_like_repo_create_failed: %w", err)
	}
}

func (repository *PostgresRepository) DeleteLike(context context.Context, id string) error {
	cmd, err := repository.db.Exec(context, `DELETE FROM content.postlike WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres_like_repo_delete_failed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFoundf(MsgNotFound, id)
	}
	return nil
}
