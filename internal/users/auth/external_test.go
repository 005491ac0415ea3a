// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/sec"
	"github.com/taibuivan/quillpost/pkg/uuid"
)

/*
TestResolveExternal covers the provider login bridge.
*/
func TestResolveExternal(t *testing.T) {
	t.Run("existing account bypasses verification", func(t *testing.T) {
		account := newAccount(t, "social@fakeapis.io", "whatever1", func(a *Account) { a.IsVerified = false })
		f := newFixture(account)

		got, err := f.service.ResolveExternal(context.Background(), ProviderGitHub, "Social@FakeAPIs.io")
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
		assert.Zero(t, f.accounts.creates)
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("banned account is always rejected", func(t *testing.T) {
		account := newAccount(t, "banned@fakeapis.io", "whatever1", func(a *Account) { a.IsBanned = true })
		f := newFixture(account)

		_, err := f.service.ResolveExternal(context.Background(), ProviderGoogle, account.Email)
		assert.Equal(t, MsgAccountBanned, messageOf(err))
	})

	t.Run("unknown email creates an unverified user", func(t *testing.T) {
		f := newFixture()

		account, err := f.service.ResolveExternal(context.Background(), ProviderGoogle, "new@fakeapis.io")
		require.NoError(t, err)

		assert.Equal(t, "new@fakeapis.io", account.Email)
		assert.Equal(t, sec.RoleUser, account.Role)
		assert.False(t, account.IsVerified)
		assert.Empty(t, account.PasswordHash)
		require.Len(t, f.mailer.sent, 1)
		assert.Contains(t, f.mailer.sent[0].link, "/verify?token=")
		assert.NotEmpty(t, f.verifyTokens.get(account.ID))
		assert.Equal(t, []string{WelcomeMessage}, f.notifier.messages[account.ID])
	})

	t.Run("lost insert race returns the winner", func(t *testing.T) {
		winner := &Account{ID: uuid.New(), Email: "race@fakeapis.io", Role: sec.RoleUser}
		f := newFixture()
		f.accounts.createFn = func(account *Account) error {
			f.accounts.createFn = nil
			require.NoError(t, f.accounts.Create(context.Background(), winner))
			return apperr.Conflict("duplicate")
		}

		account, err := f.service.ResolveExternal(context.Background(), ProviderGitHub, "race@fakeapis.io")
		require.NoError(t, err)
		assert.Equal(t, winner.ID, account.ID)
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("missing email", func(t *testing.T) {
		f := newFixture()

		_, err := f.service.ResolveExternal(context.Background(), ProviderGitHub, " ")
		assert.Equal(t, 400, statusOf(err))
	})
}
