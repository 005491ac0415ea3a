// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
)

// # In-memory Fakes

type memoryAccounts struct {
	mu       sync.Mutex
	byID     map[string]*Account
	creates  int
	createFn func(account *Account) error
}

func newMemoryAccounts(accounts ...*Account) *memoryAccounts {
	store := &memoryAccounts{byID: map[string]*Account{}}
	for _, account := range accounts {
		store.byID[account.ID] = account
	}
	return store
}

func (store *memoryAccounts) FindByID(_ context.Context, id string) (*Account, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	account, ok := store.byID[id]
	if !ok {
		return nil, apperr.NotFoundf(MsgAccountIDNotFound, id)
	}
	copied := *account
	return &copied, nil
}

func (store *memoryAccounts) FindByEmail(_ context.Context, email string) (*Account, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, account := range store.byID {
		if strings.EqualFold(account.Email, email) {
			copied := *account
			return &copied, nil
		}
	}
	return nil, apperr.NotFoundf(MsgAccountNotFound, email)
}

func (store *memoryAccounts) Create(_ context.Context, account *Account) error {
	if store.createFn != nil {
		if err := store.createFn(account); err != nil {
			return err
		}
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	for _, existing := range store.byID {
		if strings.EqualFold(existing.Email, account.Email) {
			return apperr.Conflict("duplicate")
		}
	}
	store.creates++
	copied := *account
	store.byID[account.ID] = &copied
	return nil
}

func (store *memoryAccounts) UpdatePassword(_ context.Context, accountID, passwordHash string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	account, ok := store.byID[accountID]
	if !ok {
		return apperr.NotFoundf(MsgAccountIDNotFound, accountID)
	}
	account.PasswordHash = passwordHash
	return nil
}

func (store *memoryAccounts) remove(id string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.byID, id)
}

type memoryTokens struct {
	mu          sync.Mutex
	tokens      map[string]string
	msgNotFound string
	msgInvalid  string
}

func newMemoryResetTokens() *memoryTokens {
	return &memoryTokens{tokens: map[string]string{}, msgNotFound: MsgResetTokenNotFound, msgInvalid: MsgResetTokenInvalid}
}

func newMemoryVerifyTokens() *memoryTokens {
	return &memoryTokens{tokens: map[string]string{}, msgNotFound: MsgVerifyTokenNotFound, msgInvalid: MsgVerifyTokenInvalid}
}

func (store *memoryTokens) Set(_ context.Context, accountID, tokenHash string, _ time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.tokens[accountID] = tokenHash
	return nil
}

func (store *memoryTokens) Consume(_ context.Context, accountID, tokenHash string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	stored, ok := store.tokens[accountID]
	if !ok {
		return apperr.NotFound(store.msgNotFound)
	}
	if stored != tokenHash {
		return apperr.Forbidden(store.msgInvalid)
	}
	delete(store.tokens, accountID)
	return nil
}

func (store *memoryTokens) get(accountID string) string {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.tokens[accountID]
}

type recordingRevoker struct {
	mu      sync.Mutex
	revoked []string
}

func (revoker *recordingRevoker) RevokeAll(_ context.Context, accountID string) error {
	revoker.mu.Lock()
	defer revoker.mu.Unlock()
	revoker.revoked = append(revoker.revoked, accountID)
	return nil
}

type sentMail struct {
	kind    string
	account string
	link    string
}

type recordingMailer struct {
	sent []sentMail
}

func (mailer *recordingMailer) SendVerification(_ context.Context, account *Account, link string) error {
	mailer.sent = append(mailer.sent, sentMail{kind: "verify", account: account.ID, link: link})
	return nil
}

func (mailer *recordingMailer) SendPasswordReset(_ context.Context, account *Account, link string) error {
	mailer.sent = append(mailer.sent, sentMail{kind: "reset", account: account.ID, link: link})
	return nil
}

type recordingNotifier struct {
	messages map[string][]string
}

func (notifier *recordingNotifier) Notify(_ context.Context, accountID, message string) error {
	if notifier.messages == nil {
		notifier.messages = map[string][]string{}
	}
	notifier.messages[accountID] = append(notifier.messages[accountID], message)
	return nil
}

// # Fixture

type fixture struct {
	service      *Service
	accounts     *memoryAccounts
	tokens       *memoryTokens
	verifyTokens *memoryTokens
	revoker      *recordingRevoker
	mailer       *recordingMailer
	notifier     *recordingNotifier
}

func newFixture(accounts ...*Account) *fixture {
	f := &fixture{
		accounts:     newMemoryAccounts(accounts...),
		tokens:       newMemoryResetTokens(),
		verifyTokens: newMemoryVerifyTokens(),
		revoker:      &recordingRevoker{},
		mailer:       &recordingMailer{},
		notifier:     &recordingNotifier{},
	}
	f.service = NewService(f.accounts, f.tokens, f.verifyTokens, f.revoker, f.mailer, f.notifier,
		Links{BaseURL: "https://quillpost.test"}, nil, discardLogger())
	return f
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
