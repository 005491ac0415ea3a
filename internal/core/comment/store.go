// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import "context"

type Repository interface {
	ListComments(context context.Context, f Filter, limit, offset int) ([]*Comment, int, error)
	GetComment(context context.Context, id string) (*Comment, error)
	CreateComment(context context.Context, c *Comment) error
	UpdateComment(context context.Context, c *Comment) error
	DeleteComment(context context.Context, id string) error
	SetBanned(context context.Context, id string, banned bool) error
}
