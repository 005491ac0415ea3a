// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/quillpost/internal/platform/access"
	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/metrics"
	"github.com/taibuivan/quillpost/internal/platform/sec"
	"github.com/taibuivan/quillpost/internal/platform/validate"
	"github.com/taibuivan/quillpost/pkg/pointer"
	"github.com/taibuivan/quillpost/pkg/slug"
	"github.com/taibuivan/quillpost/pkg/uuid"
)

type Service struct {
	repo    Repository
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(repo Repository, collector *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		metrics: collector,
		logger:  logger,
	}
}

func (service *Service) ListBlogs(context context.Context, filter Filter, limit, offset int) ([]*Blog, int, error) {
	if filter.AccountID != "" && !uuid.Valid(filter.AccountID) {
		return nil, 0, apperr.ValidationError(MsgInvalidFilter)
	}
	return service.repo.ListBlogs(context, filter, limit, offset)
}

// GetBlog resolves a blog by id, or by slug when the key is not a UUID.
func (service *Service) GetBlog(context context.Context, idOrSlug string) (*Blog, error) {
	if uuid.Valid(idOrSlug) {
		return service.repo.GetBlog(context, idOrSlug)
	}
	return service.repo.GetBlogBySlug(context, strings.ToLower(idOrSlug))
}

type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (service *Service) CreateBlog(context context.Context, principal *sec.Principal, input CreateInput) (*Blog, error) {
	blog := &Blog{
		ID:          uuid.New(),
		AccountID:   principal.AccountID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
	}

	if err := validateBlog(blog); err != nil {
		return nil, err
	}

	if err := service.persist(context, blog, true, service.repo.CreateBlog); err != nil {
		return nil, err
	}

	service.logger.Info("blog_created", slog.String("blog_id", blog.ID), slog.String("account_id", blog.AccountID))
	return blog, nil
}

// UpdateInput is a partial update; nil fields keep their value.
type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (service *Service) UpdateBlog(context context.Context, principal *sec.Principal, id string, input UpdateInput) (*Blog, error) {
	blog, err := service.repo.GetBlog(context, id)
	if err != nil {
		return nil, err
	}

	if err := access.Owns(principal, blog.AccountID, access.VerbUpdate, MetricsResource); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(pointer.Fallback(input.Name, blog.Name))
	renamed := name != blog.Name
	blog.Name = name
	blog.Description = strings.TrimSpace(pointer.Fallback(input.Description, blog.Description))

	if err := validateBlog(blog); err != nil {
		return nil, err
	}

	if err := service.persist(context, blog, renamed, service.repo.UpdateBlog); err != nil {
		return nil, err
	}

	service.logger.Info("blog_updated", slog.String("blog_id", blog.ID))
	return blog, nil
}

func (service *Service) DeleteBlog(context context.Context, principal *sec.Principal, id string) error {
	blog, err := service.repo.GetBlog(context, id)
	if err != nil {
		return err
	}

	if err := access.Owns(principal, blog.AccountID, access.VerbDelete, MetricsResource); err != nil {
		return err
	}

	if err := service.repo.DeleteBlog(context, id); err != nil {
		return err
	}

	service.logger.Warn("blog_deleted", slog.String("blog_id", id))
	return nil
}

// SetBanned flips the blog's own flag. Its posts are not touched; they read
// the blog flag through the ownership chain.
func (service *Service) SetBanned(context context.Context, id string, banned bool) (*Blog, error) {
	blog, err := service.repo.GetBlog(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.repo.SetBanned(context, id, banned); err != nil {
		return nil, err
	}

	blog.IsBanned = banned
	service.metrics.Moderation(MetricsResource, banned)
	service.logger.Info("blog_ban_changed", slog.String("blog_id", id), slog.Bool("banned", banned))
	return blog, nil
}

func validateBlog(blog *Blog) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, blog.Name).
		MaxLen(FieldName, blog.Name, NameMaxLength).
		MaxLen(FieldDescription, blog.Description, DescriptionMaxLength)
	return validator.Err()
}

// persist writes the blog, regenerating the slug when the name changed.
// A slug collision between distinct names gets a random suffix.
func (service *Service) persist(context context.Context, blog *Blog, reslug bool, write func(context.Context, *Blog) error) error {
	base := blog.Slug
	if reslug {
		base = slug.From(blog.Name)
		if base == "" {
			return apperr.ValidationError(MsgInvalidSlug)
		}
		blog.Slug = base
	}

	for attempt := 1; ; attempt++ {
		err := write(context, blog)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrNameTaken):
			return apperr.Conflict(fmt.Sprintf(MsgNameExists, blog.Name))
		case errors.Is(err, ErrSlugTaken) && reslug && attempt < maxSlugAttempts:
			id := uuid.New()
			blog.Slug = base + "-" + id[len(id)-6:]
		default:
			return err
		}
	}
}
