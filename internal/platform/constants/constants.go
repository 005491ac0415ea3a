// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Sessions: cookie naming and Redis key prefixes.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "quillpost-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # Sessions

const (
	// SessionCookieName is the name of the signed cookie carrying the session id.
	SessionCookieName = "quillpost_session"

	// SessionValueKey is the key of the session id inside the signed cookie payload.
	SessionValueKey = "sid"

	// OAuthStateTTL bounds how long a social login round-trip may take.
	OAuthStateTTL = 10 * time.Minute

	// OAuthStateCookieName binds a pending social login to the browser that started it.
	OAuthStateCookieName = "quillpost_oauth_state"

	// OAuthStateValueKey is the key of the state inside the binding cookie.
	OAuthStateValueKey = "state"

	// OAuthStateKeyPurpose derives the state signing key from the session secret.
	OAuthStateKeyPurpose = "oauth-state"

	// ResetTokenTTL is the lifetime of a password reset token.
	ResetTokenTTL = 1 * time.Hour

	// VerifyTokenTTL is the lifetime of an email verification token.
	VerifyTokenTTL = 24 * time.Hour
)

// # Uploads

const (
	// MaxImageUploadBytes caps multipart profile image uploads.
	MaxImageUploadBytes = 5 << 20
)

// # JSON Field Identifiers

const (
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixResetToken      = "auth:reset_token:"
	RedisPrefixVerifyToken     = "auth:verify_token:"
	RedisPrefixSession         = "auth:session:"
	RedisPrefixAccountSessions = "auth:account_sessions:"
)
