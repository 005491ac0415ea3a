// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/metrics"
	"github.com/taibuivan/quillpost/internal/platform/objectstore"
	"github.com/taibuivan/quillpost/internal/platform/sec"
	"github.com/taibuivan/quillpost/internal/platform/validate"
	"github.com/taibuivan/quillpost/internal/users/auth"
	"github.com/taibuivan/quillpost/pkg/uuid"
)

// MetricsResource labels account moderation in metrics.
const MetricsResource = "account"

// imageExtensions lists the accepted profile image types.
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// # Service Layer

// Service orchestrates account state transitions and profile changes.
type Service struct {
	accounts     auth.AccountRepository
	repository   Repository
	verifyTokens auth.VerificationTokenRepository
	images       objectstore.Store
	sessions     auth.SessionRevoker
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	accounts auth.AccountRepository,
	repository Repository,
	verifyTokens auth.VerificationTokenRepository,
	images objectstore.Store,
	sessions auth.SessionRevoker,
	collector *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		accounts:     accounts,
		repository:   repository,
		verifyTokens: verifyTokens,
		images:       images,
		sessions:     sessions,
		metrics:      collector,
		logger:       logger,
	}
}

// Get loads an account by id.
func (service *Service) Get(context context.Context, accountID string) (*auth.Account, error) {
	return service.accounts.FindByID(context, accountID)
}

/*
Verify performs the one-way unverified -> verified transition.

Description: The caller must present the token mailed at registration; it is
consumed on success. A banned account can not be verified. Verifying twice is
rejected without touching the row.

Parameters:
  - context: context.Context
  - accountID: string
  - token: string

Returns:
  - *auth.Account: The verified account
  - error: NotFound account or token (404), ValidationError/Forbidden (400)
*/
func (service *Service) Verify(context context.Context, accountID, token string) (*auth.Account, error) {
	validator := &validate.Validator{}
	validator.Required(auth.FieldToken, token)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	account, err := service.accounts.FindByID(context, accountID)
	if err != nil {
		return nil, err
	}

	if account.IsBanned {
		return nil, apperr.Forbidden(MsgVerifyBanned)
	}

	if account.IsVerified {
		return nil, apperr.Forbidden(MsgAlreadyVerified)
	}

	if err := service.verifyTokens.Consume(context, account.ID, sec.HashToken(token)); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_verify_token_failed: %w", err)
	}

	if err := service.repository.MarkVerified(context, account.ID); err != nil {
		return nil, fmt.Errorf("account_service_verify_failed: %w", err)
	}

	account.IsVerified = true
	service.logger.InfoContext(context, "account_verified", slog.String("account_id", account.ID))
	return account, nil
}

/*
UpdateUsername sets the caller's public username.

Parameters:
  - context: context.Context
  - principal: *sec.Principal
  - username: string

Returns:
  - *auth.Account: The updated account
  - error: ValidationError, Conflict (taken) or storage errors
*/
func (service *Service) UpdateUsername(context context.Context, principal *sec.Principal, username string) (*auth.Account, error) {
	username = strings.TrimSpace(username)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		MinLen(FieldUsername, username, UsernameMinLength).
		MaxLen(FieldUsername, username, UsernameMaxLength).
		Username(FieldUsername, username)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.UpdateUsername(context, principal.AccountID, username); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_update_username_failed: %w", err)
	}

	service.logger.InfoContext(context, "account_username_updated", slog.String("account_id", principal.AccountID))
	return service.accounts.FindByID(context, principal.AccountID)
}

/*
UpdateImage stores a new profile image and replaces the previous one.

Description: The new object is written first; the old object is deleted only
after the account points at the new key. Deletion failures are logged.

Parameters:
  - context: context.Context
  - principal: *sec.Principal
  - upload: ImageUpload

Returns:
  - *auth.Account: The updated account
  - error: ValidationError (type), ServiceUnavailable (storage off) or storage errors
*/
func (service *Service) UpdateImage(context context.Context, principal *sec.Principal, upload ImageUpload) (*auth.Account, error) {
	extension, ok := imageExtensions[upload.ContentType]
	if !ok {
		return nil, apperr.ValidationError(MsgImageType)
	}

	account, err := service.accounts.FindByID(context, principal.AccountID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("accounts/%s/%s%s", account.ID, uuid.New(), extension)
	if err := service.images.Put(context, key, upload.Body, upload.Size, upload.ContentType); err != nil {
		if errors.Is(err, objectstore.ErrDisabled) {
			return nil, apperr.ServiceUnavailable(MsgImageStorage)
		}
		return nil, fmt.Errorf("account_service_image_put_failed: %w", err)
	}

	if err := service.repository.UpdateImage(context, account.ID, key); err != nil {
		service.deleteImage(context, account.ID, key)
		return nil, fmt.Errorf("account_service_image_update_failed: %w", err)
	}

	if account.ImageKey != "" {
		service.deleteImage(context, account.ID, account.ImageKey)
	}

	account.ImageKey = key
	service.logger.InfoContext(context, "account_image_updated", slog.String("account_id", account.ID))
	return account, nil
}

/*
Delete removes the caller's account for good.

Description: Owned content goes with the row. The profile image object is
deleted and every session revoked afterwards; both are best effort since the
account no longer resolves to a principal.
*/
func (service *Service) Delete(context context.Context, principal *sec.Principal) error {
	account, err := service.accounts.FindByID(context, principal.AccountID)
	if err != nil {
		return err
	}

	if err := service.repository.Delete(context, account.ID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	if account.ImageKey != "" {
		service.deleteImage(context, account.ID, account.ImageKey)
	}

	if err := service.sessions.RevokeAll(context, account.ID); err != nil {
		service.logger.WarnContext(context, "account_sessions_revoke_failed",
			slog.String("account_id", account.ID), slog.Any("error", err))
	}

	service.logger.WarnContext(context, "account_deleted", slog.String("account_id", account.ID))
	return nil
}

/*
SetBanned moves an account between banned and not banned.

Description: Admin accounts can not be moderated. Live sessions pick the new
state up on their next request.

Parameters:
  - context: context.Context
  - accountID: string
  - banned: bool

Returns:
  - *auth.Account: The moderated account
  - error: NotFound (404), Forbidden admin (400) or storage errors
*/
func (service *Service) SetBanned(context context.Context, accountID string, banned bool) (*auth.Account, error) {
	account, err := service.accounts.FindByID(context, accountID)
	if err != nil {
		return nil, err
	}

	if account.Role.IsAdmin() {
		return nil, apperr.Forbidden(MsgBanAdmin)
	}

	if err := service.repository.SetBanned(context, account.ID, banned); err != nil {
		return nil, fmt.Errorf("account_service_set_banned_failed: %w", err)
	}

	account.IsBanned = banned
	service.metrics.Moderation(MetricsResource, banned)
	service.logger.InfoContext(context, "account_ban_changed",
		slog.String("account_id", account.ID), slog.Bool("banned", banned))
	return account, nil
}

func (service *Service) deleteImage(context context.Context, accountID, key string) {
	if err := service.images.Delete(context, key); err != nil {
		service.logger.WarnContext(context, "account_image_delete_failed",
			slog.String("account_id", accountID), slog.String("key", key), slog.Any("error", err))
	}
}
