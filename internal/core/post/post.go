// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import "time"

// Post is an entry in a blog. AccountID always equals the blog owner.
type Post struct {
	ID        string
	BlogID    string
	BlogName  string // joined from content.blog
	AccountID string
	Title     string
	Content   string
	IsBanned  bool
	LikeCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary is the public projection of a [Post].
type Summary struct {
	ID        string    `json:"id"`
	BlogID    string    `json:"blogId"`
	BlogName  string    `json:"blogName,omitempty"`
	AccountID string    `json:"accountId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsBanned  bool      `json:"isBanned"`
	LikeCount int       `json:"likeCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Post) Summary() Summary {
	return Summary{
		ID:        p.ID,
		BlogID:    p.BlogID,
		BlogName:  p.BlogName,
		AccountID: p.AccountID,
		Title:     p.Title,
		Content:   p.Content,
		IsBanned:  p.IsBanned,
		LikeCount: p.LikeCount,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// Filter holds the parameters for a paginated post search.
type Filter struct {
	BlogID    string
	AccountID string
	Title     string // case-insensitive substring
}

// Global field names for validation
const (
	FieldBlogID  = "blogId"
	FieldTitle   = "title"
	FieldContent = "content"

	TitleMaxLength   = 200
	ContentMaxLength = 20000
)

const (
	MsgNotFound          = "Post with id: %s not found!"
	MsgInvalidID         = "Invalid post id!"
	MsgInvalidFilter     = "Invalid blog or account id filter!"
	MsgBlogBanned        = "The blog is banned! You can not post in it."
	MsgBlogAccountBanned = "The account of the blog is banned! You can not post in it."
	MsgCreated           = "Post created!"
	MsgUpdated           = "Post updated!"
	MsgDeleted           = "Post deleted!"
	MsgBanned            = "Post banned!"
	MsgUnbanned          = "Post unbanned!"
)

// MetricsResource labels post moderation in metrics and ownership messages.
const MetricsResource = "post"
