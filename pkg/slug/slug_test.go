// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minhtran/authgate/pkg/slug"
)

/*
TestFrom verifies username normalization against the forum's slug rules.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain_lowercase", "ghost", "ghost"},
		{"mixed_case", "JohnDoe", "johndoe"},
		{"spaces_collapse", "John Doe", "john-doe"},
		{"accents_stripped", "Jöhn Döe", "john-doe"},
		{"punctuation_collapses", "john..doe!!", "john-doe"},
		{"leading_trailing_trimmed", "  john  ", "john"},
		{"multi_hyphen_collapses", "john---doe", "john-doe"},
		{"digits_preserved", "user42", "user42"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

/*
TestFrom_Idempotent verifies that slugging a slug is a no-op, which is what
makes "John Doe" and "john-doe" interchangeable login identifiers.
*/
func TestFrom_Idempotent(t *testing.T) {
	inputs := []string{"John Doe", "Ünïcode Ûser", "a.b.c"}

	for _, input := range inputs {
		once := slug.From(input)
		assert.Equal(t, once, slug.From(once))
	}
}
