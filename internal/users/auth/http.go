// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth provides identity for Quillpost: accounts, local and social
login, cookie sessions and password recovery.

# Architecture

  - Service: Credential verification, registration, the provider bridge and recovery.
  - SessionManager: Signed cookie holding a random id, backed by a Redis record.
  - Handler: Thin HTTP mediation layer; every error goes through [respond.Error].

The account id behind a session is re-read on every request, so role, ban and
deletion changes apply to live sessions immediately.
*/
package auth

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/ctxutil"
	"github.com/taibuivan/quillpost/internal/platform/metrics"
	requestutil "github.com/taibuivan/quillpost/internal/platform/request"
	"github.com/taibuivan/quillpost/internal/platform/respond"
	"github.com/taibuivan/quillpost/internal/platform/sec"
	"github.com/taibuivan/quillpost/internal/platform/validate"
)

// # Response Messages

const (
	MsgLoggedIn          = "Logged in successfully!"
	MsgLoggedOut         = "Logged out successfully!"
	MsgResetRequested    = "Password reset email sent! Please check your inbox."
	MsgPasswordReset     = "Password reset successfully! Please login again."
	MsgInvalidOAuthState = "Invalid login state! Please try again."
	MsgOAuthCancelled    = "Login with %s was cancelled!"
	MsgOAuthFailed       = "Could not verify your %s account!"
)

// # Definitions & Constructors

// Handler implements the login, logout, recovery and social login endpoints.
type Handler struct {
	authService *Service
	sessions    *SessionManager
	providers   Providers
	states      *sec.StateSigner
	imageURL    ImageURLResolver
	metrics     *metrics.Metrics
}

// NewHandler constructs a new [Handler].
func NewHandler(
	service *Service,
	sessions *SessionManager,
	providers Providers,
	states *sec.StateSigner,
	imageURL ImageURLResolver,
	collector *metrics.Metrics,
) *Handler {
	return &Handler{
		authService: service,
		sessions:    sessions,
		providers:   providers,
		states:      states,
		imageURL:    imageURL,
		metrics:     collector,
	}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login                    : Local login, sets the session cookie.
//   - GET  /logout                   : Destroys the session.
//   - POST /request/password         : Issues a reset token by email.
//   - POST /reset/password           : Consumes a reset token.
//   - GET  /auth/{provider}          : Redirects to the provider consent page.
//   - GET  /auth/{provider}/callback : Completes social login.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Get("/logout", handler.logout)
	router.Post("/request/password", handler.requestPassword)
	router.Post("/reset/password", handler.resetPassword)
	router.Get("/auth/{provider}", handler.redirectToProvider)
	router.Get("/auth/{provider}/callback", handler.providerCallback)

	return router
}

// # Request Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type requestPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	AccountID string `json:"accountId"`
	Token     string `json:"token"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

/*
Login authenticates with email and password and establishes a session.

POST /login

Response:
  - 200: AccountSummary + session cookie
  - 400: Banned, unverified or invalid credentials
  - 404: Unknown email
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.authService.VerifyCredentials(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.sessions.Login(writer, request, account); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKWithMessage(writer, account.Summary(handler.imageURL), MsgLoggedIn)
}

/*
Logout terminates the current session. Always succeeds for the client.

GET /logout
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if err := handler.sessions.Logout(writer, request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgLoggedOut)
}

/*
RequestPassword issues a password reset token and emails the reset link.

POST /request/password

Response:
  - 200: Message
  - 404: Unknown email
*/
func (handler *Handler) requestPassword(writer http.ResponseWriter, request *http.Request) {
	var input requestPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, err := handler.authService.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgResetRequested)
}

/*
ResetPassword replaces the password of an account using a reset token.

POST /reset/password

Response:
  - 200: Message; every session of the account is revoked
  - 400: Validation, mismatch or wrong token
  - 404: Unknown account or no live token
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.authService.ResetPassword(request.Context(), ResetPasswordInput{
		AccountID: input.AccountID,
		Token:     input.Token,
		Password:  input.Password,
		Password2: input.Password2,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgPasswordReset)
}

// # Social Login

/*
RedirectToProvider starts the authorization code flow.

GET /auth/{provider}

Response:
  - 302: Redirect to the provider consent page
  - 404: Provider not configured
*/
func (handler *Handler) redirectToProvider(writer http.ResponseWriter, request *http.Request) {
	provider, err := handler.providers.Lookup(requestutil.Param(request, "provider"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	state, err := handler.states.Issue(provider.Name())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.sessions.BindOAuthState(writer, request, state); err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.Redirect(writer, request, provider.AuthCodeURL(state), http.StatusFound)
}

/*
ProviderCallback completes the authorization code flow and logs the user in.

GET /auth/{provider}/callback?code=&state=

Response:
  - 200: AccountSummary + session cookie
  - 400: Bad state, cancelled consent or banned account
  - 401: Provider could not vouch for the identity
*/
func (handler *Handler) providerCallback(writer http.ResponseWriter, request *http.Request) {
	provider, err := handler.providers.Lookup(requestutil.Param(request, "provider"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := request.URL.Query()
	state := query.Get("state")
	bound := handler.sessions.TakeOAuthState(writer, request)

	if bound == "" || subtle.ConstantTimeCompare([]byte(bound), []byte(state)) != 1 {
		respond.Error(writer, request, apperr.ValidationError(MsgInvalidOAuthState))
		return
	}

	if err := handler.states.Verify(state, provider.Name()); err != nil {
		respond.Error(writer, request, apperr.ValidationError(MsgInvalidOAuthState))
		return
	}

	if query.Get("error") != "" || query.Get("code") == "" {
		respond.Error(writer, request, apperr.ValidationError(fmt.Sprintf(MsgOAuthCancelled, provider.Name())))
		return
	}

	email, err := provider.Exchange(request.Context(), query.Get("code"))
	if err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "oauth_exchange_failed",
			slog.String("provider", provider.Name()), slog.Any("error", err))
		handler.metrics.LoginAttempt(provider.Name(), metrics.OutcomeInvalidCredentials)
		respond.Error(writer, request, apperr.Unauthorized(fmt.Sprintf(MsgOAuthFailed, provider.Name())))
		return
	}

	account, err := handler.authService.ResolveExternal(request.Context(), provider.Name(), email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.sessions.Login(writer, request, account); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKWithMessage(writer, account.Summary(handler.imageURL), MsgLoggedIn)
}
