// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

package login

import (
	"context"
	"fmt"

	"github.com/minhtran/authgate/internal/platform/sec"
)

// BcryptVerifier is the production [PasswordVerifier], backed by the
// bcrypt comparison in the sec package.
type BcryptVerifier struct{}

// NewBcryptVerifier constructs a new [BcryptVerifier].
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare reports whether candidate matches the stored bcrypt hash. A
// mismatch is (false, nil); only a defective hash yields an error.
func (verifier *BcryptVerifier) Compare(_ context.Context, candidate, hash string) (bool, error) {
	match, err := sec.ComparePassword(candidate, hash)
	if err != nil {
		return false, fmt.Errorf("login_bcrypt_compare_failed: %w", err)
	}
	return match, nil
}
