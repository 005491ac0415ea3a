// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import "time"

// Blog is a named collection of posts owned by one account.
type Blog struct {
	ID            string
	AccountID     string
	OwnerUsername string // joined from users.account
	Name          string
	Slug          string
	Description   string
	IsBanned      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Summary is the public projection of a [Blog].
type Summary struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"accountId"`
	OwnerUsername string    `json:"ownerUsername,omitempty"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	IsBanned      bool      `json:"isBanned"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (b *Blog) Summary() Summary {
	return Summary{
		ID:            b.ID,
		AccountID:     b.AccountID,
		OwnerUsername: b.OwnerUsername,
		Name:          b.Name,
		Slug:          b.Slug,
		Description:   b.Description,
		IsBanned:      b.IsBanned,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// Filter holds the parameters for a paginated blog search.
type Filter struct {
	Name      string // case-insensitive substring
	AccountID string
}

// Global field names for validation
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldAccountID   = "accountId"

	NameMaxLength        = 100
	DescriptionMaxLength = 1000
)

const (
	MsgNotFound      = "Blog with id: %s not found!"
	MsgSlugNotFound  = "Blog with slug: %s not found!"
	MsgNameExists    = "Blog with name: %s exists! Please choose another name."
	MsgInvalidID     = "Invalid blog id!"
	MsgInvalidFilter = "Invalid account id filter!"
	MsgInvalidSlug   = "The blog name must contain at least one letter or digit!"
	MsgCreated       = "Blog created!"
	MsgUpdated       = "Blog updated!"
	MsgDeleted       = "Blog deleted!"
	MsgBanned        = "Blog banned!"
	MsgUnbanned      = "Blog unbanned!"
)

// MetricsResource labels blog moderation in metrics and ownership messages.
const MetricsResource = "blog"

// maxSlugAttempts bounds the retries when a generated slug collides.
const maxSlugAttempts = 5
