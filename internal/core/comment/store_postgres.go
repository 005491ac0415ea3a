// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/dberr"
)

const selectComment = `
	SELECT id, postid, accountid, content, isbanned, createdat, updatedat
	FROM content.comment`

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanComment(row pgx.Row) (*Comment, error) {
	c := &Comment{}
	err := row.Scan(&c.ID, &c.PostID, &c.AccountID, &c.Content, &c.IsBanned, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (repository *PostgresRepository) ListComments(context context.Context, f Filter, limit, offset int) ([]*Comment, int, error) {
	where := ""
	var args []any
	if f.PostID != "" {
		where = " WHERE postid = $1"
		args = append(args, f.PostID)
	}

	var total int
	if err := repository.db.QueryRow(context, `SELECT count(*) FROM content.comment`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_count_failed: %w", err)
	}

	query := selectComment + where + fmt.Sprintf(" ORDER BY createdat ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := repository.db.Query(context, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_list_failed: %w", err)
	}
	defer rows.Close()

	comments := []*Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_comment_repo_scan_failed: %w", err)
		}
		comments = append(comments, c)
	}

	return comments, total, rows.Err()
}

func (repository *PostgresRepository) GetComment(context context.Context, id string) (*Comment, error) {
	c, err := scanComment(repository.db.QueryRow(context, selectComment+` WHERE id = $1`, id))
	if err != nil {
		return nil, dberr.Wrap(err, fmt.Sprintf(MsgNotFound, id), "")
	}
	return c, nil
}

func (repository *PostgresRepository) CreateComment(context context.Context, c *Comment) error {
	const query = `
		INSERT INTO content.comment (id, postid, accountid, content, isbanned, createdat, updatedat)
		VALUES ($1, $2, $3, $4, FALSE, NOW(), NOW())
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query, c.ID, c.PostID, c.AccountID, c.Content).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_create_failed: %w", err)
	}
	return nil
}

func (repository *PostgresRepository) UpdateComment(context context.Context, c *Comment) error {
	const query = `
		UPDATE content.comment SET content = $2, updatedat = NOW()
		WHERE id = $1
		RETURNING updatedat`

	if err := repository.db.QueryRow(context, query, c.ID, c.Content).Scan(&c.UpdatedAt); err != nil {
		return dberr.Wrap(err, fmt.Sprintf(MsgNotFound, c.ID), "")
	}
	return nil
}

func (repository *PostgresRepository) DeleteComment(context context.Context, id string) error {
	cmd, err := repository.db.Exec(context, `DELETE FROM content.comment WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_delete_failed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFoundf(MsgNotFound, id)
	}
	return nil
}

func (repository *PostgresRepository) SetBanned(context context.Context, id string, banned bool) error {
	cmd, err := repository.db.Exec(context,
		`UPDATE content.comment SET isbanned = $2, updatedat = NOW() WHERE id = $1`, id, banned)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_set_banned_failed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFoundf(MsgNotFound, id)
	}
	return nil
}
