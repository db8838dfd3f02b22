// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

package login_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minhtran/authgate/internal/users/login"
)

/*
TestClassify checks the email/handle split for submitted identifiers.
*/
func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		kind       login.IdentifierKind
	}{
		{"plain_email", "alice@example.com", login.KindEmail},
		{"plain_handle", "alice", login.KindHandle},
		{"handle_with_spaces", "Alice Cooper", login.KindHandle},
		{"almost_email", "alice@", login.KindHandle},
		{"email_with_display_name", "Alice <alice@example.com>", login.KindHandle},
		{"empty", "", login.KindHandle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, login.Classify(tt.identifier))
		})
	}
}

/*
TestLookupKey checks that emails pass through untouched while handles are
slug-normalized.
*/
func TestLookupKey(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		kind       login.IdentifierKind
		key        string
	}{
		{"email_case_preserved", "Alice@Example.COM", login.KindEmail, "Alice@Example.COM"},
		{"handle_lowercased", "Alice", login.KindHandle, "alice"},
		{"handle_spaces_hyphenated", "Alice Cooper", login.KindHandle, "alice-cooper"},
		{"handle_already_slug", "alice-cooper", login.KindHandle, "alice-cooper"},
		{"handle_accents_folded", "Ödéon", login.KindHandle, "odeon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, login.LookupKey(tt.identifier, tt.kind))
		})
	}
}
