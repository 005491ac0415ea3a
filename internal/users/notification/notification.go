// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package notification stores the in-app messages an account receives:
// the welcome message, and comments or likes on its posts.
package notification

import (
	"context"
	"time"
)

// Notification is a single message addressed to an account.
type Notification struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	MsgNotFound   = "Notification with id: %s not found!"
	MsgInvalidID  = "Invalid notification id!"
	MsgMarkedRead = "Notification marked as read!"
	MsgDeleted    = "Notification deleted!"

	FieldMessage     = "message"
	MessageMaxLength = 500

	resourceName = "notification"
)

// Repository is the persistence contract for notifications.
type Repository interface {
	Create(context context.Context, notification *Notification) error
	List(context context.Context, accountID string, limit, offset int) ([]*Notification, int, error)
	Get(context context.Context, id string) (*Notification, error)
	MarkRead(context context.Context, id string) error
	Delete(context context.Context, id string) error
}
