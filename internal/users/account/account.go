// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles the account state machine after registration.

# Architecture

  - Transitions: unverified -> verified (one way), banned <-> not banned, deleted (terminal).
  - Profile: username and profile image, stored in object storage.
  - Domain: This package depends on the auth package for the Account entity;
    reads go through [auth.AccountRepository], writes through [Repository].
*/
package account

import (
	"context"
	"io"
	"net/http"

	"github.com/taibuivan/quillpost/internal/users/auth"
)

// # Client Messages

const (
	MsgInvalidAccountID = "Invalid account id!"
	MsgAlreadyVerified  = "This account is already verified!"
	MsgVerifyBanned     = "This account is banned!"
	MsgBanAdmin         = "You can not ban an admin account!"
	MsgUsernameTaken    = "Username: %s is already taken!"
	MsgImageRequired    = "Please attach an image!"
	MsgImageType        = "Only png, jpeg, gif and webp images are allowed!"
	MsgImageTooLarge    = "The image is too large!"
	MsgImageStorage     = "Image uploads are not available right now!"

	MsgRegistered      = "Account created! Please check your email to verify it."
	MsgVerified        = "Account verified! You can now login."
	MsgUsernameUpdated = "Username updated!"
	MsgImageUpdated    = "Profile image updated!"
	MsgDeleted         = "Account deleted!"
	MsgBanned          = "Account banned!"
	MsgUnbanned        = "Account unbanned!"
)

// Field identifiers.
const (
	FieldUsername = "username"
	FieldImage    = "image"

	UsernameMinLength = 3
	UsernameMaxLength = 30
)

// # Repository Contracts

// Repository defines the account mutations owned by this package.
type Repository interface {
	/*
		UpdateUsername sets the public username.

		Returns:
		  - error: apperr.Conflict when taken, apperr.NotFound, storage failures
	*/
	UpdateUsername(context context.Context, accountID, username string) error

	// UpdateImage points the account at a new profile image object key.
	UpdateImage(context context.Context, accountID, imageKey string) error

	// MarkVerified flips the verification flag to true.
	MarkVerified(context context.Context, accountID string) error

	// SetBanned sets the moderation flag of the account row only.
	SetBanned(context context.Context, accountID string, banned bool) error

	/*
		Delete removes the account. Owned blogs, posts, comments, likes and
		notifications go with it through ON DELETE CASCADE.
	*/
	Delete(context context.Context, accountID string) error
}

// Registrar enrolls new accounts.
type Registrar interface {
	Register(context context.Context, input auth.RegisterInput) (*auth.Account, error)
}

// SessionCloser expires the session of the current request.
type SessionCloser interface {
	Logout(writer http.ResponseWriter, request *http.Request) error
}

// ImageUpload is a profile image read from a multipart form.
type ImageUpload struct {
	Body        io.Reader
	Size        int64
	ContentType string
}
