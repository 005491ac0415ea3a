// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

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
	uniqueName = "uq_blog_name"
	uniqueSlug = "uq_blog_slug"

	selectBlog = `
		SELECT b.id, b.accountid, COALESCE(a.username, ''), b.name, b.slug, b.description,
		       b.isbanned, b.createdat, b.updatedat
		FROM content.blog b
		JOIN users.account a ON a.id = b.accountid`
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanBlog(row pgx.Row) (*Blog, error) {
	b := &Blog{}
	err := row.Scan(&b.ID, &b.AccountID, &b.OwnerUsername, &b.Name, &b.Slug, &b.Description,
		&b.IsBanned, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// listFilter builds the WHERE clause of a blog listing and its arguments.
func listFilter(f Filter) (string, []any) {
	var conditions []string
	var args []any

	if f.Name != "" {
		args = append(args, postgres.Contains(f.Name))
		conditions = append(conditions, "b.name ILIKE $"+strconv.Itoa(len(args))+postgres.LikeEscape)
	}
	if f.AccountID != "" {
		args = append(args, f.AccountID)
		conditions = append(conditions, "b.accountid = $"+strconv.Itoa(len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (repository *PostgresRepository) ListBlogs(context context.Context, f Filter, limit, offset int) ([]*Blog, int, error) {
	where, args := listFilter(f)

	var total int
	if err := repository.db.QueryRow(context, `SELECT count(*) FROM content.blog b`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_blog_repo_count_failed: %w", err)
	}

	query := selectBlog + where + fmt.Sprintf(" ORDER BY b.createdat DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := repository.db.Query(context, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_blog_repo_list_failed: %w", err)
	}
	defer rows.Close()

	blogs := []*Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_blog_repo_scan_failed: %w", err)
		}
		blogs = append(blogs, b)
	}

	return blogs, total, rows.Err()
}

func (repository *PostgresRepository) GetBlog(context context.Context, id string) (*Blog, error) {
	b, err := scanBlog(repository.db.QueryRow(context, selectBlog+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, dberr.Wrap(err, fmt.Sprintf(MsgNotFound, id), "")
	}
	return b, nil
}

func (repository *PostgresRepository) GetBlogBySlug(context context.Context, slug string) (*Blog, error) {
	b, err := scanBlog(repository.db.QueryRow(context, selectBlog+` WHERE b.slug = $1`, slug))
	if err != nil {
		return nil, dberr.Wrap(err, fmt.Sprintf(MsgSlugNotFound, slug), "")
	}
	return b, nil
}

func (repository *PostgresRepository) CreateBlog(context context.Context, b *Blog) error {
	const query = `
		INSERT INTO content.blog (id, accountid, name, slug, description, isbanned, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW(), NOW())
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query, b.ID, b.AccountID, b.Name, b.Slug, b.Description).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	return uniqueness(err, "create")
}

func (repository *PostgresRepository) UpdateBlog(context context.Context, b *Blog) error {
	const query = `
		UPDATE content.blog
		SET name = $2, slug = $3, description = $4, updatedat = NOW()
		WHERE id = $1
		RETURNING updatedat`

	err := repository.db.QueryRow(context, query, b.ID, b.Name, b.Slug, b.Description).Scan(&b.UpdatedAt)
	if dberr.IsNoRows(err) {
		return apperr.NotFoundf(MsgNotFound, b.ID)
	}
	return uniqueness(err, "update")
}

func (repository *PostgresRepository) DeleteBlog(context context.Context, id string) error {
	cmd, err := repository.db.Exec(context, `DELETE FROM content.blog WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres_blog_repo_delete_failed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFoundf(MsgNotFound, id)
	}
	return nil
}

func (repository *PostgresRepository) SetBanned(context context.Context, id string, banned bool) error {
	cmd, err := repository.db.Exec(context,
		`UPDATE content.blog SET isbanned = $2, updatedat = NOW() WHERE id = $1`, id, banned)
	if err != nil {
		return fmt.Errorf("postgres_blog_repo_set_banned_failed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFoundf(MsgNotFound, id)
	}
	return nil
}

func uniqueness(err error, operation string) error {
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, uniqueName):
		return ErrNameTaken
	case dberr.IsUniqueViolation(err, uniqueSlug):
		return ErrSlugTaken
	default:
		return fmt.Errorf("postgres_blog_repo_%s_failed: %w", operation, err)
	}
}
