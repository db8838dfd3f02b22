// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

// Package sec holds the cryptographic primitives consumed by the login
// pipeline. The password comparison is delegated entirely to bcrypt, which
// performs a constant-time digest comparison internally — callers treat it
// as a black-box verifier.
package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// Authgate itself never writes hashes in production (the host forum owns
// the account store); this exists for fixtures and operational tooling.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// ComparePassword compares a plain-text password with its hashed version,
// distinguishing a mismatch (false, nil) from a defective stored hash
// (false, error). Use this where the two outcomes must be handled
// differently; [CheckPasswordHash] collapses both into false.
func ComparePassword(plainTextPassword, existingHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("sec: failed to compare password: %w", err)
}
