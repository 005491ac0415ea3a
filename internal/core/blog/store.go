// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"
	"errors"
)

// Uniqueness failures reported by [Repository] writes.
var (
	ErrNameTaken = errors.New("blog name taken")
	ErrSlugTaken = errors.New("blog slug taken")
)

type Repository interface {
	ListBlogs(context context.Context, f Filter, limit, offset int) ([]*Blog, int, error)
	GetBlog(context context.Context, id string) (*Blog, error)
	GetBlogBySlug(context context.Context, slug string) (*Blog, error)
	// CreateBlog and UpdateBlog report taken names and slugs as ErrNameTaken / ErrSlugTaken.
	CreateBlog(context context.Context, b *Blog) error
	UpdateBlog(context context.Context, b *Blog) error
	DeleteBlog(context context.Context, id string) error
	SetBanned(context context.Context, id string, banned bool) error
}
