// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the users schema.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table      string
	ID         string
	Email      string
	Password   string
	Username   string
	Role       string
	IsBanned   string
	IsVerified string
	ImageKey   string
	CreatedAt  string
	UpdatedAt  string

	// Unique indexes, reported as the constraint name on violation
	EmailIndex    string
	UsernameIndex string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:      "users.account",
	ID:         "id",
	Email:      "email",
	Password:   "passwordhash",
	Username:   "username",
	Role:       "role",
	IsBanned:   "isbanned",
	IsVerified: "isverified",
	ImageKey:   "imagekey",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",

	EmailIndex:    "uq_account_email",
	UsernameIndex: "uq_account_username",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Password, t.Username, t.Role, t.IsBanned,
		t.IsVerified, t.ImageKey, t.CreatedAt, t.UpdatedAt,
	}
}
