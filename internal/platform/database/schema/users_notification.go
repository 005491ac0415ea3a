// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserNotificationTable represents the 'users.notification' table
type UserNotificationTable struct {
	Table     string
	ID        string
	AccountID string
	Message   string
	IsRead    string
	CreatedAt string
}

// UserNotification is the schema definition for users.notification
var UserNotification = UserNotificationTable{
	Table:     "users.notification",
	ID:        "id",
	AccountID: "accountid",
	Message:   "message",
	IsRead:    "isread",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t UserNotificationTable) Columns() []string {
	return []string{t.ID, t.AccountID, t.Message, t.IsRead, t.CreatedAt}
}
