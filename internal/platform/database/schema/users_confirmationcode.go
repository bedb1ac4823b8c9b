// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserConfirmationCodeTable represents the 'users.confirmationcode' table
type UserConfirmationCodeTable struct {
	Table      string
	UserID     string
	CodeHash   string
	IssuedAt   string
	ConsumedAt string
}

// UserConfirmationCode is the schema definition for users.confirmationcode
var UserConfirmationCode = UserConfirmationCodeTable{
	Table:      "users.confirmationcode",
	UserID:     "userid",
	CodeHash:   "codehash",
	IssuedAt:   "issuedat",
	ConsumedAt: "consumedat",
}
