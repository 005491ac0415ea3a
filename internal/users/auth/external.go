// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/metrics"
	"github.com/taibuivan/quillpost/internal/platform/sec"
	"github.com/taibuivan/quillpost/pkg/uuid"
)

// MsgProviderEmailMissing is returned when a provider does not disclose an email.
const MsgProviderEmailMissing = "Your %s account has no verified email address!"

/*
ResolveExternal maps an email asserted by an identity provider to a local account.

Description: An existing account is returned as is; password and verification
checks do not apply to provider logins. A banned account is always rejected.
Unknown emails get a new unverified account with the user role, which then
receives the verification email and the welcome notification.

Parameters:
  - context: context.Context
  - provider: string (google, github)
  - email: string

Returns:
  - *Account: Existing or newly created account
  - error: Forbidden banned (400), ValidationError or storage errors
*/
func (service *Service) ResolveExternal(context context.Context, provider, email string) (*Account, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, apperr.ValidationError(fmt.Sprintf(MsgProviderEmailMissing, provider))
	}

	account, err := service.findOrCreateExternal(context, email)
	if err != nil {
		return nil, err
	}

	if account.IsBanned {
		service.metrics.LoginAttempt(provider, metrics.OutcomeBanned)
		return nil, apperr.Forbidden(MsgAccountBanned)
	}

	service.metrics.LoginAttempt(provider, metrics.OutcomeSuccess)
	return account, nil
}

func (service *Service) findOrCreateExternal(context context.Context, email string) (*Account, error) {
	account, err := service.accounts.FindByEmail(context, email)
	if err == nil {
		return account, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_external_lookup_failed: %w", err)
	}

	account = &Account{
		ID:    uuid.New(),
		Email: email,
		Role:  sec.RoleUser,
	}

	if err := service.accounts.Create(context, account); err != nil {
		// A concurrent callback for the same email won the insert.
		if apperr.IsConflict(err) {
			return service.accounts.FindByEmail(context, email)
		}
		return nil, fmt.Errorf("auth_service_external_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "external_account_created", slog.String("account_id", account.ID))
	service.onboard(context, account)

	return account, nil
}
