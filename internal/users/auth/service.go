// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/constants"
	"github.com/taibuivan/quillpost/internal/platform/metrics"
	"github.com/taibuivan/quillpost/internal/platform/sec"
	"github.com/taibuivan/quillpost/internal/platform/validate"
	"github.com/taibuivan/quillpost/pkg/uuid"
)

// # Contracts & Types

// Notifier creates in-app notifications for an account.
type Notifier interface {
	Notify(context context.Context, accountID, message string) error
}

// SessionRevoker invalidates every session of an account.
type SessionRevoker interface {
	RevokeAll(context context.Context, accountID string) error
}

// Service implements the identity use cases: registration, credential
// verification, the social login bridge and password recovery.
//
// It holds no global state; every dependency is injected by [NewService].
type Service struct {
	accounts     AccountRepository
	resetTokens  ResetTokenRepository
	verifyTokens VerificationTokenRepository
	sessions     SessionRevoker
	mailer       Mailer
	notifier     Notifier
	links        Links
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	accounts AccountRepository,
	resetTokens ResetTokenRepository,
	verifyTokens VerificationTokenRepository,
	sessions SessionRevoker,
	mailer Mailer,
	notifier Notifier,
	links Links,
	collector *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		accounts:     accounts,
		resetTokens:  resetTokens,
		verifyTokens: verifyTokens,
		sessions:     sessions,
		mailer:       mailer,
		notifier:     notifier,
		links:        links,
		metrics:      collector,
		logger:       logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email     string
	Password  string
	Password2 string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: The account starts unverified with the user role. A verification
email and a welcome notification are sent best effort.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Account: Created entity
  - error: ValidationError, Conflict (email taken) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Account, error) {
	email := NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLength).
		MaxLen(FieldPassword, input.Password, PasswordMaxLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Password != input.Password2 {
		return nil, apperr.ValidationError(MsgPasswordMismatch)
	}

	// Early check for a friendly message; the unique index still decides races.
	_, err := service.accounts.FindByEmail(context, email)
	if err == nil {
		return nil, apperr.Conflict(fmt.Sprintf(MsgAccountExists, email))
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	account := &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleUser,
	}

	if err := service.accounts.Create(context, account); err != nil {
		if apperr.IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.logger.InfoContext(context, "account_registered", slog.String("account_id", account.ID))
	service.onboard(context, account)

	return account, nil
}

// onboard sends the verification email and the welcome notification.
// Failures are logged; the account already exists at this point.
func (service *Service) onboard(context context.Context, account *Account) {
	if _, err := service.IssueVerification(context, account); err != nil {
		service.logger.WarnContext(context, "verification_issue_failed",
			slog.String("account_id", account.ID), slog.Any("error", err))
	}

	if err := service.notifier.Notify(context, account.ID, WelcomeMessage); err != nil {
		service.logger.WarnContext(context, "welcome_notification_failed",
			slog.String("account_id", account.ID), slog.Any("error", err))
	}
}

/*
IssueVerification stores a fresh verification token and mails the link carrying it.

Description: A new token replaces any previous one. Mail delivery is best effort.

Returns:
  - string: The raw token
  - error: Token generation or storage errors
*/
func (service *Service) IssueVerification(context context.Context, account *Account) (string, error) {
	token, err := sec.GenerateSecureToken(VerifyTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_verify_token_failed: %w", err)
	}

	if err := service.verifyTokens.Set(context, account.ID, sec.HashToken(token), constants.VerifyTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_save_verify_token_failed: %w", err)
	}

	if err := service.mailer.SendVerification(context, account, service.links.Verify(account.ID, token)); err != nil {
		service.logger.WarnContext(context, "verification_mail_failed",
			slog.String("account_id", account.ID), slog.Any("error", err))
	}

	return token, nil
}

// # Credential Verification

/*
VerifyCredentials checks an email/password pair against the stored hash.

Description: Checks run in a fixed order so each failure has a stable message:
existence, ban, verification (admins exempt), then the password itself.
The ban check precedes the password comparison. The method is read-only.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *Account: The matching account
  - error: NotFound (404), Forbidden banned/unverified/invalid (400) or storage errors
*/
func (service *Service) VerifyCredentials(context context.Context, email, password string) (*Account, error) {
	email = NormalizeEmail(email)

	account, err := service.accounts.FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			service.metrics.LoginAttempt(ProviderLocal, metrics.OutcomeNotFound)
			return nil, apperr.NotFoundf(MsgAccountNotFound, email)
		}
		return nil, fmt.Errorf("auth_service_verify_lookup_failed: %w", err)
	}

	if account.IsBanned {
		service.metrics.LoginAttempt(ProviderLocal, metrics.OutcomeBanned)
		return nil, apperr.Forbidden(MsgAccountBanned)
	}

	if !account.IsVerified && !account.Role.IsAdmin() {
		service.metrics.LoginAttempt(ProviderLocal, metrics.OutcomeUnverified)
		return nil, apperr.Forbidden(MsgAccountUnverified)
	}

	if !sec.CheckPasswordHash(password, account.PasswordHash) {
		service.metrics.LoginAttempt(ProviderLocal, metrics.OutcomeInvalidCredentials)
		return nil, apperr.Forbidden(MsgInvalidCredentials)
	}

	service.metrics.LoginAttempt(ProviderLocal, metrics.OutcomeSuccess)
	return account, nil
}

// # Password Recovery

/*
RequestPasswordReset issues a fresh reset token for the account behind email.

Description: The token digest is stored under the account id, so a second
request replaces the first token. The raw token only leaves through the mailer
(and the return value, for callers that deliver it themselves).

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: The raw token
  - error: NotFound (404) or storage errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	email = NormalizeEmail(email)

	account, err := service.accounts.FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", apperr.NotFoundf(MsgAccountNotFound, email)
		}
		return "", fmt.Errorf("auth_service_reset_lookup_failed: %w", err)
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	if err := service.resetTokens.Set(context, account.ID, sec.HashToken(token), constants.ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	if err := service.mailer.SendPasswordReset(context, account, service.links.ResetPassword(account.ID, token)); err != nil {
		service.logger.WarnContext(context, "reset_mail_failed",
			slog.String("account_id", account.ID), slog.Any("error", err))
	}

	service.logger.InfoContext(context, "password_reset_requested", slog.String("account_id", account.ID))
	return token, nil
}

// ResetPasswordInput carries the reset form.
type ResetPasswordInput struct {
	AccountID string
	Token     string
	Password  string
	Password2 string
}

/*
ResetPassword consumes a reset token and replaces the account's password.

Description: The token is consumed atomically before the password is written,
so only one of several concurrent resets with the same token gets through.
Every session of the account is revoked afterwards.

Parameters:
  - context: context.Context
  - input: ResetPasswordInput

Returns:
  - error: ValidationError/Forbidden (400), NotFound account or token (404), storage errors
*/
func (service *Service) ResetPassword(context context.Context, input ResetPasswordInput) error {
	validator := &validate.Validator{}
	validator.Required(FieldAccountID, input.AccountID).
		Custom(FieldAccountID, input.AccountID != "" && !uuid.Valid(input.AccountID), "Must be a valid UUID").
		Required(FieldToken, input.Token).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLength).
		MaxLen(FieldPassword, input.Password, PasswordMaxLength)
	if err := validator.Err(); err != nil {
		return err
	}

	if input.Password != input.Password2 {
		return apperr.ValidationError(MsgPasswordMismatch)
	}

	account, err := service.accounts.FindByID(context, input.AccountID)
	if err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.resetTokens.Consume(context, account.ID, sec.HashToken(input.Token)); err != nil {
		if apperr.IsAppError(err) {
			return err
		}
		return fmt.Errorf("auth_service_reset_token_consume_failed: %w", err)
	}

	if err := service.accounts.UpdatePassword(context, account.ID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	if err := service.sessions.RevokeAll(context, account.ID); err != nil {
		return fmt.Errorf("auth_service_reset_password_revoke_failed: %w", err)
	}

	service.logger.InfoContext(context, "password_reset_completed", slog.String("account_id", account.ID))
	return nil
}

// # Bootstrap

/*
EnsureAdmin creates the configured administrator account if it does not exist.

Description: Admins are created verified. An existing account with the same
email is left untouched (and logged when it is not an admin).

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - error: Storage errors
*/
func (service *Service) EnsureAdmin(context context.Context, email, password string) error {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	existing, err := service.accounts.FindByEmail(context, email)
	if err == nil {
		if !existing.Role.IsAdmin() {
			service.logger.WarnContext(context, "bootstrap_admin_email_taken", slog.String("account_id", existing.ID))
		}
		return nil
	}
	if !apperr.IsNotFound(err) {
		return fmt.Errorf("auth_service_ensure_admin_lookup_failed: %w", err)
	}

	hashedPassword, err := sec.HashPassword(password)
	if err != nil {
		return fmt.Errorf("auth_service_ensure_admin_hash_failed: %w", err)
	}

	admin := &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleAdmin,
		IsVerified:   true,
	}

	if err := service.accounts.Create(context, admin); err != nil {
		if apperr.IsConflict(err) {
			return nil
		}
		return fmt.Errorf("auth_service_ensure_admin_failed: %w", err)
	}

	service.logger.InfoContext(context, "bootstrap_admin_created", slog.String("account_id", admin.ID))
	return nil
}
