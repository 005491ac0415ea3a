// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quillpost/internal/core/post"
	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/ctxutil"
	"github.com/taibuivan/quillpost/internal/platform/sec"
	"github.com/taibuivan/quillpost/pkg/uuid"
)

type memoryRepository struct {
	mu       sync.Mutex
	comments map[string]*Comment
}

func (repo *memoryRepository) ListComments(_ context.Context, f Filter, limit, offset int) ([]*Comment, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	matched := []*Comment{}
	for _, c := range repo.comments {
		if f.PostID == "" || c.PostID == f.PostID {
			copied := *c
			matched = append(matched, &copied)
		}
	}
	total := len(matched)
	if offset >= total {
		return []*Comment{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (repo *memoryRepository) GetComment(_ context.Context, id string) (*Comment, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	c, ok := repo.comments[id]
	if !ok {
		return nil, apperr.NotFoundf(MsgNotFound, id)
	}
	copied := *c
	return &copied, nil
}

func (repo *memoryRepository) CreateComment(_ context.Context, c *Comment) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	copied := *c
	repo.comments[c.ID] = &copied
	return nil
}

func (repo *memoryRepository) UpdateComment(context context.Context, c *Comment) error {
	return repo.CreateComment(context, c)
}

func (repo *memoryRepository) DeleteComment(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	delete(repo.comments, id)
	return nil
}

func (repo *memoryRepository) SetBanned(_ context.Context, id string, banned bool) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.comments[id].IsBanned = banned
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

type sentNotification struct {
	accountID string
	message   string
}

type recordingNotifier struct {
	sent []sentNotification
	err  error
}

func (notifier *recordingNotifier) Notify(_ context.Context, accountID, message string) error {
	notifier.sent = append(notifier.sent, sentNotification{accountID, message})
	return notifier.err
}

type fixture struct {
	service  *Service
	repo     *memoryRepository
	chains   chains
	notifier *recordingNotifier
	postID   string
	owner    *sec.Principal
}

func newFixture() *fixture {
	owner := user()
	postID := uuid.New()
	f := &fixture{
		repo:     &memoryRepository{comments: map[string]*Comment{}},
		notifier: &recordingNotifier{},
		postID:   postID,
		owner:    owner,
		chains: chains{postID: {
			PostID:        postID,
			PostTitle:     "Hello",
			PostAccountID: owner.AccountID,
			BlogID:        uuid.New(),
			BlogAccountID: owner.AccountID,
		}},
	}
	f.service = NewService(f.repo, f.chains, f.notifier, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
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

func TestCreateComment(t *testing.T) {
	f := newFixture()
	commenter := user()

	comment, err := f.service.CreateComment(context.Background(), commenter, CreateInput{PostID: f.postID, Content: "Nice"})
	require.NoError(t, err)
	assert.Equal(t, commenter.AccountID, comment.AccountID)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, f.owner.AccountID, f.notifier.sent[0].accountID)
	assert.Equal(t, "Your post: Hello has a new comment.", f.notifier.sent[0].message)

	t.Run("own post is not notified", func(t *testing.T) {
		_, err := f.service.CreateComment(context.Background(), f.owner, CreateInput{PostID: f.postID, Content: "Thanks"})
		require.NoError(t, err)
		assert.Len(t, f.notifier.sent, 1)
	})

	t.Run("notification failure is ignored", func(t *testing.T) {
		f.notifier.err = errors.New("down")
		defer func() { f.notifier.err = nil }()

		_, err := f.service.CreateComment(context.Background(), commenter, CreateInput{PostID: f.postID, Content: "Again"})
		assert.NoError(t, err)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := f.service.CreateComment(context.Background(), commenter, CreateInput{PostID: uuid.New(), Content: "x"})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("empty content", func(t *testing.T) {
		_, err := f.service.CreateComment(context.Background(), commenter, CreateInput{PostID: f.postID, Content: "  "})
		assert.Equal(t, "Invalid content: This field is required", messageOf(err))
	})
}

func TestCommentChainGate(t *testing.T) {
	tests := []struct {
		name  string
		apply func(c *post.Chain)
		want  string
	}{
		{"post banned", func(c *post.Chain) { c.PostBanned = true }, post.MsgPostBanned},
		{"blog banned", func(c *post.Chain) { c.BlogBanned = true }, post.MsgBlogOfPostBanned},
		{"blog account banned", func(c *post.Chain) { c.AccountBanned = true }, post.MsgAccountOfBlogBanned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			commenter := user()

			existing, err := f.service.CreateComment(context.Background(), commenter, CreateInput{PostID: f.postID, Content: "before"})
			require.NoError(t, err)

			tt.apply(f.chains[f.postID])

			_, err = f.service.CreateComment(context.Background(), commenter, CreateInput{PostID: f.postID, Content: "after"})
			assert.Equal(t, tt.want, messageOf(err))

			_, err = f.service.UpdateComment(context.Background(), commenter, existing.ID, UpdateInput{Content: "edited"})
			assert.Equal(t, tt.want, messageOf(err))

			// Reads and deletes stay available.
			_, err = f.service.GetComment(context.Background(), existing.ID)
			assert.NoError(t, err)
			assert.NoError(t, f.service.DeleteComment(context.Background(), commenter, existing.ID))
		})
	}
}

func TestCommentOwnershipAndModeration(t *testing.T) {
	f := newFixture()
	author, stranger := user(), user()

	comment, err := f.service.CreateComment(context.Background(), author, CreateInput{PostID: f.postID, Content: "mine"})
	require.NoError(t, err)

	_, err = f.service.UpdateComment(context.Background(), stranger, comment.ID, UpdateInput{Content: "hijack"})
	assert.Equal(t, "You can not update a comment that is not yours!", messageOf(err))

	err = f.service.DeleteComment(context.Background(), stranger, comment.ID)
	assert.Equal(t, "You can not delete a comment that is not yours!", messageOf(err))

	updated, err := f.service.UpdateComment(context.Background(), author, comment.ID, UpdateInput{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	banned, err := f.service.SetBanned(context.Background(), comment.ID, true)
	require.NoError(t, err)
	assert.True(t, banned.IsBanned)

	_, err = f.service.UpdateComment(context.Background(), author, comment.ID, UpdateInput{Content: "again"})
	assert.Equal(t, MsgCommentBanned, messageOf(err))

	_, err = f.service.SetBanned(context.Background(), uuid.New(), false)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCreateCommentOnBannedBlogOverHTTP(t *testing.T) {
	f := newFixture()
	f.chains[f.postID].BlogBanned = true

	router := chi.NewRouter()
	NewHandler(f.service).RegisterRoutes(router)

	payload, err := json.Marshal(CreateInput{PostID: f.postID, Content: "hello"})
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	request = request.WithContext(ctxutil.WithPrincipal(request.Context(), user()))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var body struct {
		StatusCode int    `json:"statusCode"`
		Message    string `json:"msg"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "The blog of the post is banned! You can not interact with it.", body.Message)
	assert.Empty(t, f.repo.comments)
}
