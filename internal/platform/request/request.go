// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/ctxutil"
	"github.com/taibuivan/quillpost/internal/platform/sec"
	"github.com/taibuivan/quillpost/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
UUIDParam retrieves a named URL parameter and checks that it is a well-formed UUID.

Returns:
  - string: The canonical lowercase UUID
  - error: apperr.ValidationError carrying message when the value is malformed
*/
func UUIDParam(request *http.Request, name, message string) (string, error) {
	parsed, err := uuid.Parse(chi.URLParam(request, name))
	if err != nil {
		return "", apperr.ValidationError(message)
	}
	return parsed.String(), nil
}

/*
BoolParam parses a "true"/"false" path segment such as the moderation state.
*/
func BoolParam(request *http.Request, name string) (bool, error) {
	switch strings.ToLower(chi.URLParam(request, name)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, apperr.ValidationError("Banned state must be true or false!")
	}
}

/*
Principal extracts the session principal from the request context.

Returns nil if the request is anonymous.
*/
func Principal(request *http.Request) *sec.Principal {
	return ctxutil.GetPrincipal(request.Context())
}

/*
RequiredPrincipal ensures the request carries a session and returns its principal.

Returns:
  - *sec.Principal: The resolved principal
  - error: apperr.Unauthorized if there is no session
*/
func RequiredPrincipal(request *http.Request) (*sec.Principal, error) {
	principal := ctxutil.GetPrincipal(request.Context())
	if principal == nil {
		return nil, apperr.Unauthorized(sec.MsgLoginRequired)
	}
	return principal, nil
}
