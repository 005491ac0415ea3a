// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Mailer delivers transactional emails. Delivery is best effort: callers log
// failures and never fail the originating request.
type Mailer interface {
	SendVerification(context context.Context, account *Account, link string) error
	SendPasswordReset(context context.Context, account *Account, link string) error
}

// LogMailer writes the emails it would send to the structured log.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a [LogMailer].
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (mailer *LogMailer) SendVerification(context context.Context, account *Account, link string) error {
	mailer.logger.InfoContext(context, "mail_verification_queued",
		slog.String("account_id", account.ID),
		slog.String("to", account.Email),
		slog.String("link", link),
	)
	return nil
}

func (mailer *LogMailer) SendPasswordReset(context context.Context, account *Account, link string) error {
	mailer.logger.InfoContext(context, "mail_password_reset_queued",
		slog.String("account_id", account.ID),
		slog.String("to", account.Email),
		slog.String("link", link),
	)
	return nil
}

// # Links

// Links builds the absolute URLs embedded in emails.
type Links struct {
	BaseURL string
}

// Verify returns the account verification link carrying the raw token.
func (links Links) Verify(accountID, token string) string {
	query := url.Values{}
	query.Set("token", token)
	return fmt.Sprintf("%s/account/%s/verify?%s", strings.TrimRight(links.BaseURL, "/"), url.PathEscape(accountID), query.Encode())
}

// ResetPassword returns the password reset link carrying the raw token.
func (links Links) ResetPassword(accountID, token string) string {
	query := url.Values{}
	query.Set("accountId", accountID)
	query.Set("token", token)
	return fmt.Sprintf("%s/reset/password?%s", strings.TrimRight(links.BaseURL, "/"), query.Encode())
}
