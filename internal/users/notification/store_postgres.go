// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/database/schema"
	"github.com/taibuivan/quillpost/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Create(context context.Context, notification *Notification) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, FALSE, NOW())
		RETURNING %s`,
		schema.UserNotification.Table,
		schema.UserNotification.ID, schema.UserNotification.AccountID, schema.UserNotification.Message,
		schema.UserNotification.IsRead, schema.UserNotification.CreatedAt,
		schema.UserNotification.CreatedAt,
	)

	err := repository.db.QueryRow(context, query, notification.ID, notification.AccountID, notification.Message).
		Scan(&notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres_notification_repo_create_failed: %w", err)
	}
	return nil
}

func (repository *PostgresRepository) List(context context.Context, accountID string, limit, offset int) ([]*Notification, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`,
		schema.UserNotification.Table, schema.UserNotification.AccountID)

	var total int
	if err := repository.db.QueryRow(context, countQuery, accountID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_notification_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3`,
		schema.UserNotification.ID, schema.UserNotification.AccountID, schema.UserNotification.Message,
		schema.UserNotification.IsRead, schema.UserNotification.CreatedAt,
		schema.UserNotification.Table, schema.UserNotification.AccountID, schema.UserNotification.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, accountID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_notification_repo_list_failed: %w", err)
	}
	defer rows.Close()

	notifications := []*Notification{}
	for rows.Next() {
		n := &Notification{}
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("postgres_notification_repo_scan_failed: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, total, rows.Err()
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Notification, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.UserNotification.ID, schema.UserNotification.AccountID, schema.UserNotification.Message,
		schema.UserNotification.IsRead, schema.UserNotification.CreatedAt,
		schema.UserNotification.Table, schema.UserNotification.ID,
	)

	n := &Notification{}
	err := repository.db.QueryRow(context, query, id).Scan(&n.ID, &n.AccountID, &n.Message, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, fmt.Sprintf(MsgNotFound, id), "")
	}
	return n, nil
}

func (repository *PostgresRepository) MarkRead(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1`,
		schema.UserNotification.Table, schema.UserNotification.IsRead, schema.UserNotification.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_notification_repo_mark_read_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf(MsgNotFound, id)
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.UserNotification.Table, schema.UserNotification.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_notification_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf(MsgNotFound, id)
	}
	return nil
}
