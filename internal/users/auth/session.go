// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/constants"
	"github.com/taibuivan/quillpost/internal/platform/ctxutil"
	"github.com/taibuivan/quillpost/internal/platform/metrics"
	"github.com/taibuivan/quillpost/internal/platform/sec"
)

// Session lifecycle events reported to metrics.
const (
	SessionEventCreated   = "created"
	SessionEventDestroyed = "destroyed"
	SessionEventRevoked   = "revoked"
)

// SessionOptions configures the session cookie.
type SessionOptions struct {
	// Secret signs the cookie. It must be at least 32 bytes.
	Secret string
	// Secure restricts the cookie to HTTPS.
	Secure bool
	// TTL bounds both the cookie and the server-side record.
	TTL time.Duration
}

// SessionManager binds a browser cookie to a server-side session record.
//
// The cookie only carries a random session id, signed by gorilla/sessions.
// The record maps the id digest to an account, and the account is re-read on
// every request so role, ban and deletion take effect immediately.
type SessionManager struct {
	cookies  *sessions.CookieStore
	sessions SessionRepository
	accounts AccountRepository
	ttl      time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewSessionManager constructs a new [SessionManager].
func NewSessionManager(
	options SessionOptions,
	sessionRepository SessionRepository,
	accounts AccountRepository,
	collector *metrics.Metrics,
	logger *slog.Logger,
) *SessionManager {
	cookies := sessions.NewCookieStore([]byte(options.Secret))
	cookies.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   options.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	cookies.MaxAge(int(options.TTL.Seconds()))

	return &SessionManager{
		cookies:  cookies,
		sessions: sessionRepository,
		accounts: accounts,
		ttl:      options.TTL,
		metrics:  collector,
		logger:   logger,
	}
}

/*
Login starts a new session for account and writes the signed cookie.

Description: A previous session carried by the same request is destroyed first,
so one cookie never maps to two records.

Parameters:
  - writer: http.ResponseWriter
  - request: *http.Request
  - account: *Account

Returns:
  - error: Token generation, storage or cookie encoding errors
*/
func (manager *SessionManager) Login(writer http.ResponseWriter, request *http.Request, account *Account) error {
	ctx := request.Context()

	if previous := manager.sessionID(request); previous != "" {
		if err := manager.sessions.Delete(ctx, sec.HashToken(previous)); err != nil {
			return fmt.Errorf("session_rotate_failed: %w", err)
		}
	}

	sessionID, err := sec.GenerateSecureToken(SessionIDLength)
	if err != nil {
		return fmt.Errorf("session_id_generate_failed: %w", err)
	}

	if err := manager.sessions.Create(ctx, sec.HashToken(sessionID), account.ID, manager.ttl); err != nil {
		return fmt.Errorf("session_create_failed: %w", err)
	}

	// A stale or tampered cookie only yields a decode error; the fresh session is still usable.
	session, _ := manager.cookies.New(request, constants.SessionCookieName)
	session.Values[constants.SessionValueKey] = sessionID
	if err := session.Save(request, writer); err != nil {
		return fmt.Errorf("session_cookie_save_failed: %w", err)
	}

	manager.metrics.SessionEvent(SessionEventCreated)
	ctxutil.GetLogger(ctx).InfoContext(ctx, "session_created", slog.String("account_id", account.ID))
	return nil
}

/*
Logout destroys the current session, if any, and expires the cookie.

Description: Idempotent; a request without a session still gets an expired cookie.
*/
func (manager *SessionManager) Logout(writer http.ResponseWriter, request *http.Request) error {
	ctx := request.Context()

	if sessionID := manager.sessionID(request); sessionID != "" {
		if err := manager.sessions.Delete(ctx, sec.HashToken(sessionID)); err != nil {
			return fmt.Errorf("session_destroy_failed: %w", err)
		}
		manager.metrics.SessionEvent(SessionEventDestroyed)
	}

	session, _ := manager.cookies.New(request, constants.SessionCookieName)
	session.Values = map[any]any{}
	session.Options.MaxAge = -1
	if err := session.Save(request, writer); err != nil {
		return fmt.Errorf("session_cookie_expire_failed: %w", err)
	}

	return nil
}

/*
CurrentAccount resolves the account behind the request's session cookie.

Description: Returns (nil, nil) for every "no session" case: missing or
invalid cookie, expired record, or an account that no longer exists. In the
last case the stale record is dropped.

Returns:
  - *Account: Fresh account state, or nil
  - error: Storage errors only
*/
func (manager *SessionManager) CurrentAccount(request *http.Request) (*Account, error) {
	sessionID := manager.sessionID(request)
	if sessionID == "" {
		return nil, nil
	}

	ctx := request.Context()
	sessionHash := sec.HashToken(sessionID)

	accountID, err := manager.sessions.AccountID(ctx, sessionHash)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("session_lookup_failed: %w", err)
	}

	account, err := manager.accounts.FindByID(ctx, accountID)
	if err != nil {
		if apperr.IsNotFound(err) {
			if deleteErr := manager.sessions.Delete(ctx, sessionHash); deleteErr != nil {
				manager.logger.WarnContext(ctx, "stale_session_delete_failed", slog.Any("error", deleteErr))
			}
			return nil, nil
		}
		return nil, fmt.Errorf("session_account_lookup_failed: %w", err)
	}

	return account, nil
}

// CurrentPrincipal implements the principal resolver used by the access gates.
func (manager *SessionManager) CurrentPrincipal(request *http.Request) (*sec.Principal, error) {
	account, err := manager.CurrentAccount(request)
	if err != nil || account == nil {
		return nil, err
	}
	return account.Principal(), nil
}

// RevokeAll destroys every session of accountID.
func (manager *SessionManager) RevokeAll(context context.Context, accountID string) error {
	removed, err := manager.sessions.DeleteAll(context, accountID)
	if err != nil {
		return fmt.Errorf("session_revoke_all_failed: %w", err)
	}

	for range removed {
		manager.metrics.SessionEvent(SessionEventRevoked)
	}

	manager.logger.InfoContext(context, "sessions_revoked",
		slog.String("account_id", accountID), slog.Int("count", removed))
	return nil
}

// # OAuth State Binding

/*
BindOAuthState pins a freshly issued OAuth state to the requesting browser.

Description: The state lives in its own short-lived signed cookie, so a callback
replayed from another browser carries no matching value.
*/
func (manager *SessionManager) BindOAuthState(writer http.ResponseWriter, request *http.Request, state string) error {
	session, _ := manager.cookies.New(request, constants.OAuthStateCookieName)
	session.Values = map[any]any{constants.OAuthStateValueKey: state}
	session.Options.MaxAge = int(constants.OAuthStateTTL.Seconds())
	if err := session.Save(request, writer); err != nil {
		return fmt.Errorf("oauth_state_cookie_save_failed: %w", err)
	}
	return nil
}

// TakeOAuthState returns the state bound to the browser and expires the cookie.
// An empty string means no valid binding was presented.
func (manager *SessionManager) TakeOAuthState(writer http.ResponseWriter, request *http.Request) string {
	session, err := manager.cookies.New(request, constants.OAuthStateCookieName)

	var state string
	if err == nil && !session.IsNew {
		state, _ = session.Values[constants.OAuthStateValueKey].(string)
	}

	session.Values = map[any]any{}
	session.Options.MaxAge = -1
	if err := session.Save(request, writer); err != nil {
		manager.logger.WarnContext(request.Context(), "oauth_state_cookie_expire_failed", slog.Any("error", err))
	}

	return state
}

// sessionID extracts the raw session id from a valid signed cookie.
func (manager *SessionManager) sessionID(request *http.Request) string {
	session, err := manager.cookies.New(request, constants.SessionCookieName)
	if err != nil || session.IsNew {
		return ""
	}

	sessionID, _ := session.Values[constants.SessionValueKey].(string)
	return sessionID
}
