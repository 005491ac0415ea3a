// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import "github.com/taibuivan/quillpost/internal/platform/apperr"

const (
	MsgPostBanned          = "The post is banned! You can not interact with it."
	MsgBlogOfPostBanned    = "The blog of the post is banned! You can not interact with it."
	MsgAccountOfBlogBanned = "The account of the blog is banned! You can not interact with it."
)

// Chain is the ownership chain of a post: the post, its blog and the blog's
// owning account, with each level's ban flag.
type Chain struct {
	PostID        string
	PostTitle     string
	PostAccountID string
	PostBanned    bool

	BlogID        string
	BlogAccountID string
	BlogBanned    bool

	AccountBanned bool
}

// Violation reports the first banned level, walking from the post upwards.
// It returns nil when the post can be interacted with. Reads never consult it.
func (c *Chain) Violation() error {
	switch {
	case c.PostBanned:
		return apperr.Forbidden(MsgPostBanned)
	case c.BlogBanned:
		return apperr.Forbidden(MsgBlogOfPostBanned)
	case c.AccountBanned:
		return apperr.Forbidden(MsgAccountOfBlogBanned)
	default:
		return nil
	}
}
