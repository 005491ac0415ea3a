// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Account Data Access

// AccountRepository defines the identity-side data access contract for accounts.
type AccountRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Account, error)

	/*
		FindByEmail returns the account with the given normalized email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*Account, error)

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: apperr.Conflict when the email is taken, or persistence failures
	*/
	Create(context context.Context, account *Account) error

	/*
		UpdatePassword replaces only the account's password hash.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - passwordHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, accountID, passwordHash string) error
}

// # Volatile Data Access

// SessionRepository stores server-side session records keyed by the hashed session id.
type SessionRepository interface {

	/*
		Create stores a session record and indexes it under its account.

		Parameters:
		  - context: context.Context
		  - sessionHash: string (SHA-256 of the raw session id)
		  - accountID: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, sessionHash, accountID string, ttl time.Duration) error

	/*
		AccountID resolves a session record to its account.

		Returns:
		  - string: Account ID
		  - error: apperr.NotFound if the record is absent or expired
	*/
	AccountID(context context.Context, sessionHash string) (string, error)

	/*
		Delete removes one session record. Deleting a missing record succeeds.
	*/
	Delete(context context.Context, sessionHash string) error

	/*
		DeleteAll removes every session record belonging to an account.

		Returns:
		  - int: Number of sessions revoked
		  - error: Persistence failures
	*/
	DeleteAll(context context.Context, accountID string) (int, error)
}

// OneTimeTokenRepository stores at most one single-use token digest per account.
type OneTimeTokenRepository interface {

	/*
		Set stores the token digest for an account, replacing any previous one.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - tokenHash: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, accountID, tokenHash string, ttl time.Duration) error

	/*
		Consume deletes the account's token if and only if its digest equals
		tokenHash. Compare and delete happen atomically, so two concurrent callers
		holding the same token can never both succeed.

		Returns:
		  - error: apperr.NotFound if no token is live, apperr.Forbidden on mismatch
	*/
	Consume(context context.Context, accountID, tokenHash string) error
}

// ResetTokenRepository holds password reset tokens.
type ResetTokenRepository = OneTimeTokenRepository

// VerificationTokenRepository holds email verification tokens.
type VerificationTokenRepository = OneTimeTokenRepository
