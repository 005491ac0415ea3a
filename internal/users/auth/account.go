// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"strings"
	"time"

	"github.com/taibuivan/quillpost/internal/platform/sec"
)

// # Domain Entities

// Account represents a registered member or administrator.
//
// PasswordHash is empty for accounts created through a social provider.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Username     string
	Role         sec.UserRole
	IsBanned     bool
	IsVerified   bool
	ImageKey     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal projects the account onto the request principal used by the gates.
func (account *Account) Principal() *sec.Principal {
	return &sec.Principal{
		AccountID:  account.ID,
		Email:      account.Email,
		Role:       account.Role,
		IsBanned:   account.IsBanned,
		IsVerified: account.IsVerified,
	}
}

// # DTOs

// AccountSummary is the public projection of an [Account]. It never carries
// the password hash.
type AccountSummary struct {
	ID         string       `json:"id"`
	Email      string       `json:"email"`
	Username   string       `json:"username,omitempty"`
	Role       sec.UserRole `json:"role"`
	IsBanned   bool         `json:"isBanned"`
	IsVerified bool         `json:"isVerified"`
	Image      string       `json:"image,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// ImageURLResolver maps a stored object key to its public URL.
type ImageURLResolver func(key string) string

// Summary projects the account for API responses.
func (account *Account) Summary(resolve ImageURLResolver) AccountSummary {
	summary := AccountSummary{
		ID:         account.ID,
		Email:      account.Email,
		Username:   account.Username,
		Role:       account.Role,
		IsBanned:   account.IsBanned,
		IsVerified: account.IsVerified,
		CreatedAt:  account.CreatedAt,
	}
	if account.ImageKey != "" && resolve != nil {
		summary.Image = resolve(account.ImageKey)
	}
	return summary
}

// NormalizeEmail trims and lowercases an address. Emails are stored normalized
// so lookups can compare them exactly.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
