// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package access holds the resource ownership predicate shared by every
// mutating endpoint.
package access

import (
	"fmt"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/sec"
)

// Verbs used in ownership messages.
const (
	VerbUpdate = "update"
	VerbDelete = "delete"
	VerbRead   = "read"
	VerbPost   = "post in"
)

// Owns fails with a 400 "not yours" error unless principal owns the resource.
//
// Example:
//
//	access.Owns(principal, blog.AccountID, access.VerbUpdate, "blog")
//	// You can not update a blog that is not yours!
func Owns(principal *sec.Principal, ownerAccountID, verb, resource string) error {
	if principal == nil {
		return apperr.Unauthorized(sec.MsgLoginRequired)
	}
	if principal.AccountID != ownerAccountID {
		return apperr.Forbidden(fmt.Sprintf("You can not %s a %s that is not yours!", verb, resource))
	}
	return nil
}
