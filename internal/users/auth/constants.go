// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Authentication Constraints

const (
	// SessionIDLength is the byte length of the random session identifier.
	SessionIDLength = 32

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 32

	// VerifyTokenLength is the byte length of the random email verification token.
	VerifyTokenLength = 32

	// PasswordMinLength and PasswordMaxLength bound accepted passwords.
	// bcrypt ignores everything past 72 bytes.
	PasswordMinLength = 8
	PasswordMaxLength = 72

	// WelcomeMessage is the first notification every new account receives.
	WelcomeMessage = "Welcome to Quillpost! Verify your email to start blogging."
)

// # Providers

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// # Client Messages

const (
	MsgAccountNotFound     = "Account with email: %s not found!"
	MsgAccountIDNotFound   = "Account with id: %s not found!"
	MsgAccountExists       = "Account with email: %s already exists!"
	MsgAccountBanned       = "This account is banned! Please contact support."
	MsgAccountUnverified   = "Please verify your account!"
	MsgInvalidCredentials  = "Invalid credentials!"
	MsgPasswordMismatch    = "Passwords do not match!"
	MsgResetTokenNotFound  = "Password reset token not found!"
	MsgResetTokenInvalid   = "Invalid password reset token!"
	MsgVerifyTokenNotFound = "Verification token not found!"
	MsgVerifyTokenInvalid  = "Invalid verification token!"
	MsgNoAccountLoggedIn   = "no account logged in"
)

// # Field Identifiers

// Global field names for validation in the authentication domain.
const (
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldPassword2 = "password2"
	FieldAccountID = "accountId"
	FieldToken     = "token"
)
