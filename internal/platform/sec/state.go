// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidState is returned when an OAuth state parameter fails verification.
var ErrInvalidState = errors.New("invalid oauth state")

// StateClaims is the payload of the signed OAuth state parameter.
//
// Binding the provider name into the state prevents a state minted for one
// provider from being replayed against another provider's callback.
type StateClaims struct {
	jwt.RegisteredClaims

	Provider string `json:"prv"`
}

// StateSigner issues and verifies short-lived HS256 state tokens for OAuth round-trips.
type StateSigner struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewStateSigner creates a signer keyed by secret.
func NewStateSigner(secret, issuer string, ttl time.Duration) *StateSigner {
	return &StateSigner{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Issue returns a signed state token bound to provider.
func (signer *StateSigner) Issue(provider string) (string, error) {
	nonce, err := GenerateSecureToken(16)
	if err != nil {
		return "", err
	}

	currentTime := time.Now()
	claims := StateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        nonce,
			Issuer:    signer.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(signer.ttl)),
		},
		Provider: provider,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signer.secret)
	if err != nil {
		return "", fmt.Errorf("sign_state_failed: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry, issuer and provider binding of a state token.
func (signer *StateSigner) Verify(state, provider string) error {
	token, err := jwt.ParseWithClaims(state, &StateClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return signer.secret, nil
	}, jwt.WithIssuer(signer.issuer))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	claims, ok := token.Claims.(*StateClaims)
	if !ok || !token.Valid || claims.Provider != provider {
		return ErrInvalidState
	}
	return nil
}
