// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/quillpost/internal/core/post"
	"github.com/taibuivan/quillpost/internal/platform/access"
	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/metrics"
	"github.com/taibuivan/quillpost/internal/platform/sec"
	"github.com/taibuivan/quillpost/internal/platform/validate"
	"github.com/taibuivan/quillpost/pkg/uuid"
)

type Service struct {
	repo     Repository
	posts    ChainResolver
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewService(repo Repository, posts ChainResolver, notifier Notifier, collector *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		posts:    posts,
		notifier: notifier,
		metrics:  collector,
		logger:   logger,
	}
}

func (service *Service) ListComments(context context.Context, filter Filter, limit, offset int) ([]*Comment, int, error) {
	if filter.PostID != "" && !uuid.Valid(filter.PostID) {
		return nil, 0, apperr.ValidationError(MsgInvalidFilter)
	}
	return service.repo.ListComments(context, filter, limit, offset)
}

func (service *Service) GetComment(context context.Context, id string) (*Comment, error) {
	return service.repo.GetComment(context, id)
}

type CreateInput struct {
	PostID  string `json:"postId"`
	Content string `json:"content"`
}

// CreateComment posts a comment under a post whose whole chain is in good standing,
// then tells the post owner.
func (service *Service) CreateComment(context context.Context, principal *sec.Principal, input CreateInput) (*Comment, error) {
	comment := &Comment{
		ID:        uuid.New(),
		PostID:    strings.TrimSpace(input.PostID),
		AccountID: principal.AccountID,
		Content:   strings.TrimSpace(input.Content),
	}

	validator := &validate.Validator{}
	validator.Required(FieldPostID, comment.PostID).
		Custom(FieldPostID, comment.PostID != "" && !uuid.Valid(comment.PostID), post.MsgInvalidID).
		Required(FieldContent, comment.Content).
		MaxLen(FieldContent, comment.Content, ContentMaxLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	chain, err := service.posts.Chain(context, comment.PostID)
	if err != nil {
		return nil, err
	}
	if err := chain.Violation(); err != nil {
		return nil, err
	}

	if err := service.repo.CreateComment(context, comment); err != nil {
		return nil, err
	}

	service.notifyOwner(context, chain, principal)
	service.logger.Info("comment_created", slog.String("comment_id", comment.ID), slog.String("post_id", comment.PostID))
	return comment, nil
}

type UpdateInput struct {
	Content string `json:"content"`
}

func (service *Service) UpdateComment(context context.Context, principal *sec.Principal, id string, input UpdateInput) (*Comment, error) {
	comment, err := service.repo.GetComment(context, id)
	if err != nil {
		return nil, err
	}

	if err := access.Owns(principal, comment.AccountID, access.VerbUpdate, MetricsResource); err != nil {
		return nil, err
	}

	if comment.IsBanned {
		return nil, apperr.Forbidden(MsgCommentBanned)
	}

	chain, err := service.posts.Chain(context, comment.PostID)
	if err != nil {
		return nil, err
	}
	if err := chain.Violation(); err != nil {
		return nil, err
	}

	comment.Content = strings.TrimSpace(input.Content)

	validator := &validate.Validator{}
	validator.Required(FieldContent, comment.Content).MaxLen(FieldContent, comment.Content, ContentMaxLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateComment(context, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (service *Service) DeleteComment(context context.Context, principal *sec.Principal, id string) error {
	comment, err := service.repo.GetComment(context, id)
	if err != nil {
		return err
	}

	if err := access.Owns(principal, comment.AccountID, access.VerbDelete, MetricsResource); err != nil {
		return err
	}

	if err := service.repo.DeleteComment(context, id); err != nil {
		return err
	}

	service.logger.Info("comment_deleted", slog.String("comment_id", id))
	return nil
}

func (service *Service) SetBanned(context context.Context, id string, banned bool) (*Comment, error) {
	comment, err := service.repo.GetComment(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.repo.SetBanned(context, id, banned); err != nil {
		return nil, err
	}

	comment.IsBanned = banned
	service.metrics.Moderation(MetricsResource, banned)
	service.logger.Info("comment_ban_changed", slog.String("comment_id", id), slog.Bool("banned", banned))
	return comment, nil
}

// notifyOwner is best effort: the comment already exists.
func (service *Service) notifyOwner(context context.Context, chain *post.Chain, author *sec.Principal) {
	if chain.PostAccountID == author.AccountID {
		return
	}

	if err := service.notifier.Notify(context, chain.PostAccountID, fmt.Sprintf(NotificationMessage, chain.PostTitle)); err != nil {
		service.logger.Warn("comment_notification_failed",
			slog.String("post_id", chain.PostID),
			slog.Any("error", err),
		)
	}
}
