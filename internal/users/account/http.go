// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/constants"
	"github.com/taibuivan/quillpost/internal/platform/middleware"
	requestutil "github.com/taibuivan/quillpost/internal/platform/request"
	"github.com/taibuivan/quillpost/internal/platform/respond"
	"github.com/taibuivan/quillpost/internal/users/auth"
)

// Handler implements the HTTP layer for account management.
type Handler struct {
	accountService *Service
	registrar      Registrar
	sessions       SessionCloser
	imageURL       auth.ImageURLResolver
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, registrar Registrar, sessions SessionCloser, imageURL auth.ImageURLResolver) *Handler {
	return &Handler{
		accountService: service,
		registrar:      registrar,
		sessions:       sessions,
		imageURL:       imageURL,
	}
}

// Routes returns a [chi.Router] configured with the account endpoints.
// It is mounted at /account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.current)
	router.Post("/", handler.register)
	router.Get("/{id}/verify", handler.verify)

	// Member endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Put("/username", handler.updateUsername)
		r.Put("/image", handler.updateImage)
		r.Delete("/", handler.delete)
	})

	// Moderation
	router.With(middleware.RequireAdmin).Put("/{id}/banned/{state}", handler.setBanned)

	return router
}

/*
GET /account.

Description: Returns the account behind the session cookie.

Response:
  - 200: AccountSummary
  - 400: No session
*/
func (handler *Handler) current(writer http.ResponseWriter, request *http.Request) {
	principal := requestutil.Principal(request)
	if principal == nil {
		respond.Error(writer, request, apperr.ValidationError(auth.MsgNoAccountLoggedIn))
		return
	}

	account, err := handler.accountService.Get(request.Context(), principal.AccountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account.Summary(handler.imageURL))
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

/*
POST /account.

Description: Registers a local account. The account must be verified through
the emailed link before it can log in.

Response:
  - 201: AccountSummary
  - 400: Validation, mismatch or email already taken
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.registrar.Register(request.Context(), auth.RegisterInput{
		Email:     input.Email,
		Password:  input.Password,
		Password2: input.Password2,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, account.Summary(handler.imageURL), MsgRegistered)
}

/*
GET /account/{id}/verify?token=.

Response:
  - 200: AccountSummary
  - 400: Malformed id, missing or wrong token, banned or already verified
  - 404: Unknown account or no live token
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.UUIDParam(request, "id", MsgInvalidAccountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.accountService.Verify(request.Context(), accountID, request.URL.Query().Get("token"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKWithMessage(writer, account.Summary(handler.imageURL), MsgVerified)
}

type usernameRequest struct {
	Username string `json:"username"`
}

/*
PUT /account/username.

Response:
  - 200: AccountSummary
  - 400: Validation or username taken
*/
func (handler *Handler) updateUsername(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input usernameRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.accountService.UpdateUsername(request.Context(), principal, input.Username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKWithMessage(writer, account.Summary(handler.imageURL), MsgUsernameUpdated)
}

/*
PUT /account/image.

Description: Accepts a multipart form with an "image" file. The content type is
sniffed from the bytes, not taken from the client.

Response:
  - 200: AccountSummary
  - 400: Missing, oversized or unsupported image
  - 503: Object storage not configured
*/
func (handler *Handler) updateImage(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxImageUploadBytes+(1<<20))
	if err := request.ParseMultipartForm(constants.MaxImageUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, apperr.ValidationError(MsgImageTooLarge))
			return
		}
		respond.Error(writer, request, apperr.ValidationError(MsgImageRequired))
		return
	}

	file, header, err := request.FormFile(FieldImage)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError(MsgImageRequired))
		return
	}
	defer file.Close()

	if header.Size > constants.MaxImageUploadBytes {
		respond.Error(writer, request, apperr.ValidationError(MsgImageTooLarge))
		return
	}

	head := make([]byte, 512)
	read, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		respond.Error(writer, request, apperr.ValidationError(MsgImageRequired))
		return
	}
	head = head[:read]

	account, err := handler.accountService.UpdateImage(request.Context(), principal, ImageUpload{
		Body:        io.MultiReader(bytes.NewReader(head), file),
		Size:        header.Size,
		ContentType: http.DetectContentType(head),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKWithMessage(writer, account.Summary(handler.imageURL), MsgImageUpdated)
}

/*
DELETE /account.

Description: Deletes the caller's account and everything it owns, then clears
the session cookie.
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.Delete(request.Context(), principal); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.sessions.Logout(writer, request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgDeleted)
}

/*
PUT /account/{id}/banned/{state}.

Response:
  - 200: AccountSummary
  - 400: Malformed id or state, admin target
  - 404: Unknown account
*/
func (handler *Handler) setBanned(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.UUIDParam(request, "id", MsgInvalidAccountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	banned, err := requestutil.BoolParam(request, "state")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.accountService.SetBanned(request.Context(), accountID, banned)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := MsgUnbanned
	if banned {
		message = MsgBanned
	}
	respond.OKWithMessage(writer, account.Summary(handler.imageURL), message)
}
