// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/quillpost/internal/platform/access"
	"github.com/taibuivan/quillpost/internal/platform/sec"
	"github.com/taibuivan/quillpost/internal/platform/validate"
	"github.com/taibuivan/quillpost/pkg/uuid"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Notify creates an unread notification for accountID.
func (service *Service) Notify(context context.Context, accountID, message string) error {
	message = strings.TrimSpace(message)

	validator := &validate.Validator{}
	validator.Required(FieldMessage, message).MaxLen(FieldMessage, message, MessageMaxLength)
	if err := validator.Err(); err != nil {
		return err
	}

	notification := &Notification{ID: uuid.New(), AccountID: accountID, Message: message}
	if err := service.repo.Create(context, notification); err != nil {
		return err
	}

	service.logger.Debug("notification_created", slog.String("account_id", accountID))
	return nil
}

// List returns the caller's notifications, newest first.
func (service *Service) List(context context.Context, principal *sec.Principal, limit, offset int) ([]*Notification, int, error) {
	return service.repo.List(context, principal.AccountID, limit, offset)
}

func (service *Service) MarkRead(context context.Context, principal *sec.Principal, id string) (*Notification, error) {
	notification, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	if err := access.Owns(principal, notification.AccountID, access.VerbUpdate, resourceName); err != nil {
		return nil, err
	}

	if notification.IsRead {
		return notification, nil
	}

	if err := service.repo.MarkRead(context, id); err != nil {
		return nil, err
	}

	notification.IsRead = true
	return notification, nil
}

func (service *Service) Delete(context context.Context, principal *sec.Principal, id string) error {
	notification, err := service.repo.Get(context, id)
	if err != nil {
		return err
	}

	if err := access.Owns(principal, notification.AccountID, access.VerbDelete, resourceName); err != nil {
		return err
	}

	return service.repo.Delete(context, id)
}
