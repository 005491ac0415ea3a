// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quillpost/internal/platform/sec"
)

/*
TestPasswordHash verifies hashing and comparison, including salt uniqueness.
*/
func TestPasswordHash(t *testing.T) {
	first, err := sec.HashPassword("F4k3ap1s.io")
	require.NoError(t, err)

	second, err := sec.HashPassword("F4k3ap1s.io")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each hash carries its own salt")
	assert.True(t, sec.CheckPasswordHash("F4k3ap1s.io", first))
	assert.True(t, sec.CheckPasswordHash("F4k3ap1s.io", second))
	assert.False(t, sec.CheckPasswordHash("wrong", first))
	assert.False(t, sec.CheckPasswordHash("F4k3ap1s.io", ""))
}

/*
TestTokens verifies random token generation and digest comparison.
*/
func TestTokens(t *testing.T) {
	token, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.Len(t, token, 43)

	other, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)

	digest := sec.HashToken(token)
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, sec.HashToken(token))
	assert.NotEqual(t, digest, sec.HashToken(other))
}

/*
TestStateSigner covers issuing and verifying OAuth state tokens.
*/
func TestStateSigner(t *testing.T) {
	signer := sec.NewStateSigner("state-secret", "quillpost", time.Minute)

	state, err := signer.Issue("github")
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, signer.Verify(state, "github"))
	})

	t.Run("wrong_provider", func(t *testing.T) {
		assert.ErrorIs(t, signer.Verify(state, "google"), sec.ErrInvalidState)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		other := sec.NewStateSigner("another-secret", "quillpost", time.Minute)
		assert.ErrorIs(t, other.Verify(state, "github"), sec.ErrInvalidState)
	})

	t.Run("expired", func(t *testing.T) {
		expired := sec.NewStateSigner("state-secret", "quillpost", -time.Minute)
		stale, err := expired.Issue("github")
		require.NoError(t, err)
		assert.ErrorIs(t, signer.Verify(stale, "github"), sec.ErrInvalidState)
	})

	t.Run("garbage", func(t *testing.T) {
		assert.ErrorIs(t, signer.Verify("not-a-token", "github"), sec.ErrInvalidState)
	})
}

/*
TestDeriveKey checks that subkeys are stable and separated by purpose.
*/
func TestDeriveKey(t *testing.T) {
	const secret = "0123456789abcdef0123456789abcdef"

	key := sec.DeriveKey(secret, "oauth-state")
	assert.Len(t, key, 64)
	assert.Equal(t, key, sec.DeriveKey(secret, "oauth-state"))
	assert.NotEqual(t, key, sec.DeriveKey(secret, "other-purpose"))
	assert.NotEqual(t, key, sec.DeriveKey("another-secret", "oauth-state"))
	assert.NotContains(t, key, secret)

	// A state signed with the raw secret must not verify under the derived key.
	raw, err := sec.NewStateSigner(secret, "quillpost", time.Minute).Issue("github")
	require.NoError(t, err)
	derived := sec.NewStateSigner(key, "quillpost", time.Minute)
	assert.ErrorIs(t, derived.Verify(raw, "github"), sec.ErrInvalidState)
}

/*
TestUserRole checks role predicates.
*/
func TestUserRole(t *testing.T) {
	assert.True(t, sec.RoleAdmin.IsAdmin())
	assert.False(t, sec.RoleUser.IsAdmin())
	assert.True(t, sec.RoleUser.Valid())
	assert.False(t, sec.UserRole("moderator").Valid())
}
