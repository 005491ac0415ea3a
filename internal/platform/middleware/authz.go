// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/ctxutil"
	"github.com/taibuivan/quillpost/internal/platform/respond"
	"github.com/taibuivan/quillpost/internal/platform/sec"
)

// PrincipalResolver turns the session carried by a request into a principal.
//
// # Why an interface?
//
// Defining PrincipalResolver here decouples the middleware from the session
// implementation, allowing tests to inject fixed principals.
type PrincipalResolver interface {
	// CurrentPrincipal returns nil (and no error) for anonymous requests.
	CurrentPrincipal(request *http.Request) (*sec.Principal, error)
}

// LoadPrincipal resolves the session once per request and stores the principal in the context.
//
// # Flow
//  1. Ask the [PrincipalResolver] for the current principal.
//  2. Anonymous requests proceed unchanged.
//  3. Otherwise inject [*sec.Principal] into the context and tag the request logger.
//
// Resolution failures (store unavailable) abort with a 500 instead of silently
// downgrading the caller to anonymous.
func LoadPrincipal(resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal, err := resolver.CurrentPrincipal(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			if principal == nil {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			logger := ctxutil.GetLogger(ctx).With(slog.String("account_id", principal.AccountID))
			ctx = ctxutil.WithLogger(ctx, logger)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireUser admits only non-admin, non-banned principals.
//
// # Usage
//
// Must be registered in the router AFTER [LoadPrincipal]. Admin accounts are
// moderators and may not author content, hence the explicit rejection.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if err := CheckUser(ctxutil.GetPrincipal(request.Context())); err != nil {
			respond.Error(writer, request, err)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireAdmin admits only admin principals.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if err := CheckAdmin(ctxutil.GetPrincipal(request.Context())); err != nil {
			respond.Error(writer, request, err)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// # Predicates

// CheckUser is the pure predicate behind [RequireUser].
func CheckUser(principal *sec.Principal) error {
	switch {
	case principal == nil:
		return apperr.Unauthorized(sec.MsgLoginRequired)
	case principal.Role.IsAdmin():
		return apperr.Unauthorized(sec.MsgUserRequired)
	case principal.IsBanned:
		return apperr.Unauthorized(sec.MsgAccountBanned)
	}
	return nil
}

// CheckAdmin is the pure predicate behind [RequireAdmin].
func CheckAdmin(principal *sec.Principal) error {
	switch {
	case principal == nil:
		return apperr.Unauthorized(sec.MsgLoginRequired)
	case !principal.Role.IsAdmin():
		return apperr.Unauthorized(sec.MsgAdminRequired)
	}
	return nil
}
