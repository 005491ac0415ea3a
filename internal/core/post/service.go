// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/quillpost/internal/core/blog"
	"github.com/taibuivan/quillpost/internal/platform/access"
	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/metrics"
	"github.com/taibuivan/quillpost/internal/platform/sec"
	"github.com/taibuivan/quillpost/internal/platform/validate"
	"github.com/taibuivan/quillpost/pkg/pointer"
	"github.com/taibuivan/quillpost/pkg/uuid"
)

// BlogReader resolves the blog a new post is written into.
type BlogReader interface {
	GetBlog(context context.Context, id string) (*blog.Blog, error)
}

type Service struct {
	repo    Repository
	blogs   BlogReader
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(repo Repository, blogs BlogReader, collector *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		blogs:   blogs,
		metrics: collector,
		logger:  logger,
	}
}

func (service *Service) ListPosts(context context.Context, filter Filter, limit, offset int) ([]*Post, int, error) {
	if (filter.BlogID != "" && !uuid.Valid(filter.BlogID)) || (filter.AccountID != "" && !uuid.Valid(filter.AccountID)) {
		return nil, 0, apperr.ValidationError(MsgInvalidFilter)
	}
	return service.repo.ListPosts(context, filter, limit, offset)
}

func (service *Service) GetPost(context context.Context, id string) (*Post, error) {
	return service.repo.GetPost(context, id)
}

// Chain resolves the ownership chain of a post for comment and like gates.
func (service *Service) Chain(context context.Context, id string) (*Chain, error) {
	return service.repo.GetChain(context, id)
}

type CreateInput struct {
	BlogID  string `json:"blogId"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CreatePost writes a post into a blog the principal owns. A banned blog, or
// a banned owner, can not receive new posts.
func (service *Service) CreatePost(context context.Context, principal *sec.Principal, input CreateInput) (*Post, error) {
	post := &Post{
		ID:        uuid.New(),
		BlogID:    strings.TrimSpace(input.BlogID),
		AccountID: principal.AccountID,
		Title:     strings.TrimSpace(input.Title),
		Content:   strings.TrimSpace(input.Content),
	}

	validator := &validate.Validator{}
	validator.Required(FieldBlogID, post.BlogID).
		Custom(FieldBlogID, post.BlogID != "" && !uuid.Valid(post.BlogID), blog.MsgInvalidID)
	validatePost(validator, post)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	parent, err := service.blogs.GetBlog(context, post.BlogID)
	if err != nil {
		return nil, err
	}

	if err := access.Owns(principal, parent.AccountID, access.VerbPost, blog.MetricsResource); err != nil {
		return nil, err
	}

	if parent.IsBanned {
		return nil, apperr.Forbidden(MsgBlogBanned)
	}
	if principal.IsBanned {
		return nil, apperr.Forbidden(MsgBlogAccountBanned)
	}

	if err := service.repo.CreatePost(context, post); err != nil {
		return nil, err
	}

	post.BlogName = parent.Name
	service.logger.Info("post_created", slog.String("post_id", post.ID), slog.String("blog_id", post.BlogID))
	return post, nil
}

// UpdateInput is a partial update; nil fields keep their value.
type UpdateInput struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (service *Service) UpdatePost(context context.Context, principal *sec.Principal, id string, input UpdateInput) (*Post, error) {
	post, err := service.repo.GetPost(context, id)
	if err != nil {
		return nil, err
	}

	if err := access.Owns(principal, post.AccountID, access.VerbUpdate, MetricsResource); err != nil {
		return nil, err
	}

	post.Title = strings.TrimSpace(pointer.Fallback(input.Title, post.Title))
	post.Content = strings.TrimSpace(pointer.Fallback(input.Content, post.Content))

	validator := &validate.Validator{}
	validatePost(validator, post)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.UpdatePost(context, post); err != nil {
		return nil, err
	}

	service.logger.Info("post_updated", slog.String("post_id", post.ID))
	return post, nil
}

func (service *Service) DeletePost(context context.Context, principal *sec.Principal, id string) error {
	post, err := service.repo.GetPost(context, id)
	if err != nil {
		return err
	}

	if err := access.Owns(principal, post.AccountID, access.VerbDelete, MetricsResource); err != nil {
		return err
	}

	if err := service.repo.DeletePost(context, id); err != nil {
		return err
	}

	service.logger.Warn("post_deleted", slog.String("post_id", id))
	return nil
}

// SetBanned flips the post's own flag. Comments and likes read it through the chain.
func (service *Service) SetBanned(context context.Context, id string, banned bool) (*Post, error) {
	post, err := service.repo.GetPost(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.repo.SetBanned(context, id, banned); err != nil {
		return nil, err
	}

	post.IsBanned = banned
	service.metrics.Moderation(MetricsResource, banned)
	service.logger.Info("post_ban_changed", slog.String("post_id", id), slog.Bool("banned", banned))
	return post, nil
}

func validatePost(validator *validate.Validator, post *Post) {
	validator.Required(FieldTitle, post.Title).
		MaxLen(FieldTitle, post.Title, TitleMaxLength).
		Required(FieldContent, post.Content).
		MaxLen(FieldContent, post.Content, ContentMaxLength)
}
