// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package like

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/quillpost/internal/core/post"
	"github.com/taibuivan/quillpost/internal/platform/access"
	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/sec"
	"github.com/taibuivan/quillpost/internal/platform/validate"
	"github.com/taibuivan/quillpost/pkg/uuid"
)

type Service struct {
	repo     Repository
	posts    ChainResolver
	notifier Notifier
	logger   *slog.Logger
}

func NewService(repo Repository, posts ChainResolver, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		posts:    posts,
		notifier: notifier,
		logger:   logger,
	}
}

func (service *Service) ListLikes(context context.Context, postID string, limit, offset int) ([]*Like, int, error) {
	if postID != "" && !uuid.Valid(postID) {
		return nil, 0, apperr.ValidationError(MsgInvalidFilter)
	}
	return service.repo.ListLikes(context, postID, limit, offset)
}

type CreateInput struct {
	PostID string `json:"postId"`
}

// CreateLike likes a post once per account. The post's chain must be in good standing.
func (service *Service) CreateLike(context context.Context, principal *sec.Principal, input CreateInput) (*Like, error) {
	like := &Like{
		ID:        uuid.New(),
		PostID:    strings.TrimSpace(input.PostID),
		AccountID: principal.AccountID,
	}

	validator := &validate.Validator{}
	validator.Required(FieldPostID, like.PostID).
		Custom(FieldPostID, like.PostID != "" && !uuid.Valid(like.PostID), post.MsgInvalidID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	chain, err := service.posts.Chain(context, like.PostID)
	if err != nil {
		return nil, err
	}
	if err := chain.Violation(); err != nil {
		return nil, err
	}

	if err := service.repo.CreateLike(context, like); err != nil {
		if errors.Is(err, ErrAlreadyLiked) {
			return nil, apperr.Conflict(MsgAlreadyLiked)
		}
		return nil, err
	}

	if chain.PostAccountID != principal.AccountID {
		if err := service.notifier.Notify(context, chain.PostAccountID, fmt.Sprintf(NotificationMessage, chain.PostTitle)); err != nil {
			service.logger.Warn("like_notification_failed", slog.String("post_id", chain.PostID), slog.Any("error", err))
		}
	}

	return like, nil
}

func (service *Service) DeleteLike(context context.Context, principal *sec.Principal, id string) error {
	like, err := service.repo.GetLike(context, id)
	if err != nil {
		return err
	}

	if err := access.Owns(principal, like.AccountID, access.VerbDelete, resourceName); err != nil {
		return err
	}

	return service.repo.DeleteLike(context, id)
}
