// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package like

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quillpost/internal/core/post"
	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/sec"
	"github.com/taibuivan/quillpost/pkg/uuid"
)

// memoryRepository enforces one like per (post, account) like the unique index.
type memoryRepository struct {
	mu    sync.Mutex
	likes map[string]*Like
}

func (repo *memoryRepository) ListLikes(_ context.Context, postID string, limit, offset int) ([]*Like, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	matched := []*Like{}
	for _, l := range repo.likes {
		if postID == "" || l.PostID == postID {
			copied := *l
			matched = append(matched, &copied)
		}
	}
	total := len(matched)
	if offset >= total {
		return []*Like{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (repo *memoryRepository) GetLike(_ context.Context, id string) (*Like, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	l, ok := repo.likes[id]
	if !ok {
		return nil, apperr.NotFoundf(MsgNotFound, id)
	}
	copied := *l
	return &copied, nil
}

func (repo *memoryRepository) CreateLike(_ context.Context, l *Like) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.likes {
		if existing.PostID == l.PostID && existing.AccountID == l.AccountID {
			return ErrAlreadyLiked
		}
	}
	copied := *l
	repo.likes[l.ID] = &copied
	return nil
}

func (repo *memoryRepository) DeleteLike(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	delete(repo.likes, id)
	return nil
}

type chains map[string]*post.Chain

func (c chains) Chain(_ context.Context, postID string) (*post.Chain, error) {
	chain, ok := c[postID]
	if !ok {
		return nil, apperr.NotFoundf(post.MsgNotFound, postID)
	}
	copied := *chain
	return &copied, nil
}

type recordingNotifier struct {
	recipients []string
	messages   []string
}

func (notifier *recordingNotifier) Notify(_ context.Context, accountID, message string) error {
	notifier.recipients = append(notifier.recipients, accountID)
	notifier.messages = append(notifier.messages, message)
	return nil
}

func user() *sec.Principal {
	return &sec.Principal{AccountID: uuid.New(), Role: sec.RoleUser, IsVerified: true}
}

func messageOf(err error) string {
	if appError := apperr.As(err); appError != nil {
		return appError.Message
	}
	return ""
}

func TestLikes(t *testing.T) {
	owner, fan, stranger := user(), user(), user()
	postID := uuid.New()
	chain := &post.Chain{PostID: postID, PostTitle: "Hello", PostAccountID: owner.AccountID, BlogAccountID: owner.AccountID}

	repo := &memoryRepository{likes: map[string]*Like{}}
	notifier := &recordingNotifier{}
	service := NewService(repo, chains{postID: chain}, notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))

	like, err := service.CreateLike(context.Background(), fan, CreateInput{PostID: postID})
	require.NoError(t, err)
	assert.Equal(t, []string{owner.AccountID}, notifier.recipients)
	assert.Equal(t, "Your post: Hello got a new like.", notifier.messages[0])

	t.Run("only once per account", func(t *testing.T) {
		_, err := service.CreateLike(context.Background(), fan, CreateInput{PostID: postID})
		assert.Equal(t, MsgAlreadyLiked, messageOf(err))
		assert.Equal(t, 400, apperr.As(err).HTTPStatus)
	})

	t.Run("owner likes without notifying themselves", func(t *testing.T) {
		_, err := service.CreateLike(context.Background(), owner, CreateInput{PostID: postID})
		require.NoError(t, err)
		assert.Len(t, notifier.recipients, 1)
	})

	t.Run("list by post", func(t *testing.T) {
		likes, total, err := service.ListLikes(context.Background(), postID, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, likes, 2)

		_, _, err = service.ListLikes(context.Background(), "nope", 10, 0)
		assert.Equal(t, MsgInvalidFilter, messageOf(err))
	})

	t.Run("banned chain", func(t *testing.T) {
		chain.AccountBanned = true
		defer func() { chain.AccountBanned = false }()

		_, err := service.CreateLike(context.Background(), stranger, CreateInput{PostID: postID})
		assert.Equal(t, post.MsgAccountOfBlogBanned, messageOf(err))
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := service.CreateLike(context.Background(), stranger, CreateInput{PostID: uuid.New()})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("delete", func(t *testing.T) {
		err := service.DeleteLike(context.Background(), stranger, like.ID)
		assert.Equal(t, "You can not delete a like that is not yours!", messageOf(err))

		require.NoError(t, service.DeleteLike(context.Background(), fan, like.ID))
		_, err = service.CreateLike(context.Background(), fan, CreateInput{PostID: postID})
		assert.NoError(t, err)
	})
}
