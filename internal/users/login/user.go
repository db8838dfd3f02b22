// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

package login

import "time"

// Account is the public profile of a forum account. It is what a
// successful login returns to the client, serialized with the legacy
// plugin field names.
//
// Authgate only ever reads accounts; the host forum owns every field.
type Account struct {
	ID          string    `json:"uid"`
	Username    string    `json:"username"`
	Userslug    string    `json:"userslug"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayname"`
	Picture     string    `json:"picture"`
	JoinedAt    time.Time `json:"joindate"`
}

// SecureFields are the private security attributes of an account. They
// never leave the verification pipeline and are never serialized.
//
// # Coercion
//
// The backing store keeps `banned` and `emailconfirmed` as 0/1 integers;
// the store boundary coerces them to booleans exactly once, so pipeline
// logic never re-parses integers.
type SecureFields struct {
	PasswordHash   string
	Banned         bool
	EmailConfirmed bool
	PasswordExpiry *time.Time
}

// fetchedAccount is the joined result of the three concurrent sub-lookups.
// It exists only between fetch and verification; no partial form of it is
// ever observable.
type fetchedAccount struct {
	Profile *Account
	Secure  *SecureFields
	IsAdmin bool
}
