// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package like

import "context"

type Repository interface {
	ListLikes(context context.Context, postID string, limit, offset int) ([]*Like, int, error)
	GetLike(context context.Context, id string) (*Like, error)
	CreateLike(context context.Context, l *Like) error
	DeleteLike(context context.Context, id string) error
}
