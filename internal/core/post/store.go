// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import "context"

type Repository interface {
	ListPosts(context context.Context, f Filter, limit, offset int) ([]*Post, int, error)
	GetPost(context context.Context, id string) (*Post, error)
	CreatePost(context context.Context, p *Post) error
	UpdatePost(context context.Context, p *Post) error
	DeletePost(context context.Context, id string) error
	SetBanned(context context.Context, id string, banned bool) error

	// GetChain resolves the post, its blog and the blog owner in one read.
	GetChain(context context.Context, id string) (*Chain, error)
}
