// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/objectstore"
	"github.com/taibuivan/quillpost/internal/platform/sec"
	"github.com/taibuivan/quillpost/internal/users/auth"
	"github.com/taibuivan/quillpost/pkg/uuid"
)

// # Fakes

// memoryStore serves both the auth reads and the account writes.
type memoryStore struct {
	mu       sync.Mutex
	accounts map[string]*auth.Account
}

func newMemoryStore(accounts ...*auth.Account) *memoryStore {
	store := &memoryStore{accounts: map[string]*auth.Account{}}
	for _, account := range accounts {
		store.accounts[account.ID] = account
	}
	return store
}

func (store *memoryStore) get(id string) (*auth.Account, error) {
	account, ok := store.accounts[id]
	if !ok {
		return nil, apperr.NotFoundf(auth.MsgAccountIDNotFound, id)
	}
	return account, nil
}

func (store *memoryStore) FindByID(_ context.Context, id string) (*auth.Account, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	account, err := store.get(id)
	if err != nil {
		return nil, err
	}
	copied := *account
	return &copied, nil
}

func (store *memoryStore) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, account := range store.accounts {
		if strings.EqualFold(account.Email, email) {
			copied := *account
			return &copied, nil
		}
	}
	return nil, apperr.NotFoundf(auth.MsgAccountNotFound, email)
}

func (store *memoryStore) Create(_ context.Context, account *auth.Account) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	copied := *account
	store.accounts[account.ID] = &copied
	return nil
}

func (store *memoryStore) UpdatePassword(_ context.Context, accountID, passwordHash string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	account, err := store.get(accountID)
	if err != nil {
		return err
	}
	account.PasswordHash = passwordHash
	return nil
}

func (store *memoryStore) UpdateUsername(_ context.Context, accountID, username string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, other := range store.accounts {
		if other.ID != accountID && strings.EqualFold(other.Username, username) {
			return apperr.Conflict("Username: " + username + " is already taken!")
		}
	}
	account, err := store.get(accountID)
	if err != nil {
		return err
	}
	account.Username = username
	return nil
}

func (store *memoryStore) UpdateImage(_ context.Context, accountID, imageKey string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	account, err := store.get(accountID)
	if err != nil {
		return err
	}
	account.ImageKey = imageKey
	return nil
}

func (store *memoryStore) MarkVerified(_ context.Context, accountID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	account, err := store.get(accountID)
	if err != nil {
		return err
	}
	account.IsVerified = true
	return nil
}

func (store *memoryStore) SetBanned(_ context.Context, accountID string, banned bool) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	account, err := store.get(accountID)
	if err != nil {
		return err
	}
	account.IsBanned = banned
	return nil
}

func (store *memoryStore) Delete(_ context.Context, accountID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, err := store.get(accountID); err != nil {
		return err
	}
	delete(store.accounts, accountID)
	return nil
}

type memoryImages struct {
	objects map[string][]byte
	deleted []string
}

func newMemoryImages() *memoryImages {
	return &memoryImages{objects: map[string][]byte{}}
}

func (images *memoryImages) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	images.objects[key] = data
	return nil
}

func (images *memoryImages) Delete(_ context.Context, key string) error {
	delete(images.objects, key)
	images.deleted = append(images.deleted, key)
	return nil
}

func (images *memoryImages) URL(key string) string {
	return "https://cdn.quillpost.test/" + key
}

// memoryTokens stores verification token digests per account.
type memoryTokens struct {
	mu     sync.Mutex
	hashes map[string]string
}

func (tokens *memoryTokens) Set(_ context.Context, accountID, tokenHash string, _ time.Duration) error {
	tokens.mu.Lock()
	defer tokens.mu.Unlock()
	tokens.hashes[accountID] = tokenHash
	return nil
}

func (tokens *memoryTokens) Consume(_ context.Context, accountID, tokenHash string) error {
	tokens.mu.Lock()
	defer tokens.mu.Unlock()

	stored, ok := tokens.hashes[accountID]
	if !ok {
		return apperr.NotFound(auth.MsgVerifyTokenNotFound)
	}
	if stored != tokenHash {
		return apperr.Forbidden(auth.MsgVerifyTokenInvalid)
	}
	delete(tokens.hashes, accountID)
	return nil
}

// issue stores a verification token for accountID and returns it raw.
func (tokens *memoryTokens) issue(accountID string) string {
	token := "verify-" + accountID
	_ = tokens.Set(context.Background(), accountID, sec.HashToken(token), time.Hour)
	return token
}

type recordingRevoker struct {
	revoked []string
}

func (revoker *recordingRevoker) RevokeAll(_ context.Context, accountID string) error {
	revoker.revoked = append(revoker.revoked, accountID)
	return nil
}

// # Fixture

type fixture struct {
	service *Service
	store   *memoryStore
	tokens  *memoryTokens
	images  *memoryImages
	revoker *recordingRevoker
}

func newFixture(accounts ...*auth.Account) *fixture {
	f := &fixture{
		store:   newMemoryStore(accounts...),
		tokens:  &memoryTokens{hashes: map[string]string{}},
		images:  newMemoryImages(),
		revoker: &recordingRevoker{},
	}
	f.service = NewService(f.store, f.store, f.tokens, f.images, f.revoker, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}

func member(mutate func(*auth.Account)) *auth.Account {
	account := &auth.Account{
		ID:    uuid.New(),
		Email: uuid.New() + "@fakeapis.io",
		Role:  sec.RoleUser,
	}
	if mutate != nil {
		mutate(account)
	}
	return account
}

func messageOf(err error) string {
	if appError := apperr.As(err); appError != nil {
		return appError.Message
	}
	return ""
}

// # Tests

/*
TestVerify covers the one-way verification transition.
*/
func TestVerify(t *testing.T) {
	fresh := member(nil)
	banned := member(func(a *auth.Account) { a.IsBanned = true })
	f := newFixture(fresh, banned)
	token := f.tokens.issue(fresh.ID)
	bannedToken := f.tokens.issue(banned.ID)

	t.Run("missing token", func(t *testing.T) {
		_, err := f.service.Verify(context.Background(), fresh.ID, "")
		assert.Equal(t, "Invalid token: This field is required", messageOf(err))
		assert.False(t, f.store.accounts[fresh.ID].IsVerified)
	})

	t.Run("wrong token", func(t *testing.T) {
		_, err := f.service.Verify(context.Background(), fresh.ID, bannedToken)
		assert.Equal(t, auth.MsgVerifyTokenInvalid, messageOf(err))
		assert.Equal(t, 400, apperr.As(err).HTTPStatus)
		assert.False(t, f.store.accounts[fresh.ID].IsVerified)
	})

	t.Run("no live token", func(t *testing.T) {
		other := member(nil)
		f := newFixture(other)

		_, err := f.service.Verify(context.Background(), other.ID, "guess")
		assert.Equal(t, auth.MsgVerifyTokenNotFound, messageOf(err))
		assert.True(t, apperr.IsNotFound(err))
	})

	account, err := f.service.Verify(context.Background(), fresh.ID, token)
	require.NoError(t, err)
	assert.True(t, account.IsVerified)
	assert.NotContains(t, f.tokens.hashes, fresh.ID)

	_, err = f.service.Verify(context.Background(), fresh.ID, token)
	assert.Equal(t, MsgAlreadyVerified, messageOf(err))
	assert.True(t, f.store.accounts[fresh.ID].IsVerified)

	_, err = f.service.Verify(context.Background(), banned.ID, bannedToken)
	assert.Equal(t, MsgVerifyBanned, messageOf(err))
	assert.False(t, f.store.accounts[banned.ID].IsVerified)

	_, err = f.service.Verify(context.Background(), uuid.New(), token)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestSetBanned covers the admin moderation of accounts.
*/
func TestSetBanned(t *testing.T) {
	target := member(nil)
	admin := member(func(a *auth.Account) { a.Role = sec.RoleAdmin })
	f := newFixture(target, admin)

	account, err := f.service.SetBanned(context.Background(), target.ID, true)
	require.NoError(t, err)
	assert.True(t, account.IsBanned)
	assert.True(t, f.store.accounts[target.ID].IsBanned)

	account, err = f.service.SetBanned(context.Background(), target.ID, false)
	require.NoError(t, err)
	assert.False(t, account.IsBanned)

	_, err = f.service.SetBanned(context.Background(), admin.ID, true)
	assert.Equal(t, MsgBanAdmin, messageOf(err))
	assert.False(t, f.store.accounts[admin.ID].IsBanned)

	_, err = f.service.SetBanned(context.Background(), uuid.New(), true)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestUpdateUsername covers validation and uniqueness.
*/
func TestUpdateUsername(t *testing.T) {
	owner := member(nil)
	other := member(func(a *auth.Account) { a.Username = "taken" })
	f := newFixture(owner, other)

	account, err := f.service.UpdateUsername(context.Background(), owner.Principal(), "  quill.writer ")
	require.NoError(t, err)
	assert.Equal(t, "quill.writer", account.Username)

	_, err = f.service.UpdateUsername(context.Background(), owner.Principal(), "Taken")
	assert.True(t, apperr.IsConflict(err))

	for _, invalid := range []string{"", "ab", "has space", strings.Repeat("a", UsernameMaxLength+1)} {
		_, err = f.service.UpdateUsername(context.Background(), owner.Principal(), invalid)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation), invalid)
	}
}

/*
TestUpdateImage checks that the previous object is replaced.
*/
func TestUpdateImage(t *testing.T) {
	owner := member(nil)
	f := newFixture(owner)

	first, err := f.service.UpdateImage(context.Background(), owner.Principal(), ImageUpload{
		Body: strings.NewReader("png-1"), Size: 5, ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.ImageKey, "accounts/"+owner.ID+"/"))
	assert.True(t, strings.HasSuffix(first.ImageKey, ".png"))

	second, err := f.service.UpdateImage(context.Background(), owner.Principal(), ImageUpload{
		Body: strings.NewReader("jpeg"), Size: 4, ContentType: "image/jpeg",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{first.ImageKey}, f.images.deleted)
	assert.Len(t, f.images.objects, 1)
	assert.Equal(t, second.ImageKey, f.store.accounts[owner.ID].ImageKey)

	_, err = f.service.UpdateImage(context.Background(), owner.Principal(), ImageUpload{
		Body: strings.NewReader("%PDF"), Size: 4, ContentType: "application/pdf",
	})
	assert.Equal(t, MsgImageType, messageOf(err))
}

func TestUpdateImageWithoutStorage(t *testing.T) {
	owner := member(nil)
	f := newFixture(owner)
	f.service.images = objectstore.Disabled{}

	_, err := f.service.UpdateImage(context.Background(), owner.Principal(), ImageUpload{
		Body: strings.NewReader("png"), Size: 3, ContentType: "image/png",
	})
	require.Error(t, err)
	assert.Equal(t, 503, apperr.As(err).HTTPStatus)
}

/*
TestDelete checks the terminal transition and its side effects.
*/
func TestDelete(t *testing.T) {
	owner := member(func(a *auth.Account) { a.ImageKey = "accounts/x/avatar.png" })
	f := newFixture(owner)

	require.NoError(t, f.service.Delete(context.Background(), owner.Principal()))

	_, err := f.store.FindByID(context.Background(), owner.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, []string{"accounts/x/avatar.png"}, f.images.deleted)
	assert.Equal(t, []string{owner.ID}, f.revoker.revoked)

	assert.True(t, apperr.IsNotFound(f.service.Delete(context.Background(), owner.Principal())))
}
