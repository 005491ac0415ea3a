// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/dberr"
	"github.com/taibuivan/quillpost/internal/platform/postgres"
)

const (
	selectPost = `
		SELECT p.id, p.blogid, b.name, p.accountid, p.title, p.content, p.isbanned,
		       (SELECT count(*) FROM content.postlike l WHERE l.postid = p.id),
		       p.createdat, p.updatedat
		FROM content.post p
		JOIN content.blog b ON b.id = p.blogid`

	selectChain = `
		SELECT p.id, p.title, p.accountid, p.isbanned, b.id, b.accountid, b.isbanned, a.isbanned
		FROM content.post p
		JOIN content.blog b ON b.id = p.blogid
		JOIN users.account a ON a.id = b.accountid
		WHERE p.id = $1`
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanPost(row pgx.Row) (*Post, error) {
	p := &Post{}
	err := row.Scan(&p.ID, &p.BlogID, &p.BlogName, &p.AccountID, &p.Title, &p.Content, &p.IsBanned,
		&p.LikeCount, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// listFilter builds the WHERE clause of a post listing and its arguments.
func listFilter(f Filter) (string, []any) {
	var conditions []string
	var args []any

	if f.BlogID != "" {
		args = append(args, f.BlogID)
		conditions = append(conditions, "p.blogid = $"+strconv.Itoa(len(args)))
	}
	if f.AccountID != "" {
		args = append(args, f.AccountID)
		conditions = append(conditions, "p.accountid = $"+strconv.Itoa(len(args)))
	}
	if f.Title != "" {
		args = append(args, postgres.Contains(f.Title))
		conditions = append(conditions, "p.title ILIKE $"+strconv.Itoa(len(args))+postgres.LikeEscape)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (repository *PostgresRepository) ListPosts(context context.Context, f Filter, limit, offset int) ([]*Post, int, error) {
	where, args := listFilter(f)

	var total int
	if err := repository.db.QueryRow(context, `SELECT count(*) FROM content.post p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_post_repo_count_failed: %w", err)
	}

	query := selectPost + where + fmt.Sprintf(" ORDER BY p.createdat DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := repository.db.Query(context, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_post_repo_list_failed: %w", err)
	}
	defer rows.Close()

	posts := []*Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_post_repo_scan_failed: %w", err)
		}
		posts = append(posts, p)
	}

	return posts, total, rows.Err()
}

func (repository *PostgresRepository) GetPost(context context.Context, id string) (*Post, error) {
	p, err := scanPost(repository.db.QueryRow(context, selectPost+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, dberr.Wrap(err, fmt.Sprintf(MsgNotFound, id), "")
	}
	return p, nil
}

func (repository *PostgresRepository) CreatePost(context context.Context, p *Post) error {
	const query = `
		INSERT INTO content.post (id, blogid, accountid, title, content, isbanned, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW(), NOW())
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query, p.ID, p.BlogID, p.AccountID, p.Title, p.Content).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres_post_repo_create_failed: %w", err)
	}
	return nil
}

func (repository *PostgresRepository) UpdatePost(context context.Context, p *Post) error {
	const query = `
		UPDATE content.post
		SET title = $2, content = $3, updatedat = NOW()
		WHERE id = $1
		RETURNING updatedat`

	err := repository.db.QueryRow(context, query, p.ID, p.Title, p.Content).Scan(&p.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, fmt.Sprintf(MsgNotFound, p.ID), "")
	}
	return nil
}

func (repository *PostgresRepository) DeletePost(context context.Context, id string) error {
	cmd, err := repository.db.Exec(context, `DELETE FROM content.post WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres_post_repo_delete_failed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFoundf(MsgNotFound, id)
	}
	return nil
}

func (repository *PostgresRepository) SetBanned(context context.Context, id string, banned bool) error {
	cmd, err := repository.db.Exec(context,
		`UPDATE content.post SET isbanned = $2, updatedat = NOW() WHERE id = $1`, id, banned)
	if err != nil {
		return fmt.Errorf("postgres_post_repo_set_banned_failed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFoundf(MsgNotFound, id)
	}
	return nil
}

func (repository *PostgresRepository) GetChain(context context.Context, id string) (*Chain, error) {
	c := &Chain{}
	err := repository.db.QueryRow(context, selectChain, id).Scan(&c.PostID, &c.PostTitle, &c.PostAccountID,
		&c.PostBanned, &c.BlogID, &c.BlogAccountID, &c.BlogBanned, &c.AccountBanned)
	if err != nil {
		return nil, dberr.Wrap(err, fmt.Sprintf(MsgNotFound, id), "")
	}
	return c, nil
}
