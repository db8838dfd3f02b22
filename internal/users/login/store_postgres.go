// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

/*
Package login (Postgres) implements the account lookups against the host
forum's users.account table.

# Schema Table Mapping
  - users.account: Mirrored forum identity, profile and security columns.
*/
package login

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhtran/authgate/internal/platform/database/schema"
)

// # Repository Implementation

// PostgresDirectory implements [Directory] and [SecureStore] using pgx.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory creates a new Postgres implementation for account
// lookups.
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

// # Directory Methods

/*
ResolveByEmail returns the account id registered under email.

Description: The comparison is case-folded with LOWER on both sides, so
the submitted address matches however the forum stored it. The
idx_account_email_lower index keeps the folded lookup on an index scan.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Account id
  - error: ErrNoAccount or database execution failure
*/
func (directory *PostgresDirectory) ResolveByEmail(context context.Context, email string) (string, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE LOWER(%s) = LOWER($1)`,
		schema.UserAccount.ID, schema.UserAccount.Table, schema.UserAccount.Email,
	)

	var accountID string
	err := directory.pool.QueryRow(context, query, email).Scan(&accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNoAccount
		}
		return "", fmt.Errorf("postgres_directory_resolve_by_email_failed: %w", err)
	}

	return accountID, nil
}

/*
ResolveBySlug returns the account id indexed under the normalized
username slug.

Description: The slug column is already normalized at write time by the
forum, so the comparison is an exact match.

Parameters:
  - context: context.Context
  - userslug: string

Returns:
  - string: Account id
  - error: ErrNoAccount or database execution failure
*/
func (directory *PostgresDirectory) ResolveBySlug(context context.Context, userslug string) (string, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		schema.UserAccount.ID, schema.UserAccount.Table, schema.UserAccount.Userslug,
	)

	var accountID string
	err := directory.pool.QueryRow(context, query, userslug).Scan(&accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNoAccount
		}
		return "", fmt.Errorf("postgres_directory_resolve_by_slug_failed: %w", err)
	}

	return accountID, nil
}

/*
FetchProfile returns the public profile for an account id.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - *Account: Hydrated public profile
  - error: ErrNoAccount or database execution failure
*/
func (directory *PostgresDirectory) FetchProfile(context context.Context, accountID string) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Userslug,
		schema.UserAccount.Email, schema.UserAccount.DisplayName, schema.UserAccount.Picture,
		schema.UserAccount.JoinedAt,
		schema.UserAccount.Table, schema.UserAccount.ID,
	)

	account := &Account{}
	err := directory.pool.QueryRow(context, query, accountID).Scan(
		&account.ID,
		&account.Username,
		&account.Userslug,
		&account.Email,
		&account.DisplayName,
		&account.Picture,
		&account.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoAccount
		}
		return nil, fmt.Errorf("postgres_directory_fetch_profile_failed: %w", err)
	}

	return account, nil
}

/*
FetchAdminFlag reports whether the account holds the administrator role.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - bool: Administrator flag
  - error: Database execution failure
*/
func (directory *PostgresDirectory) FetchAdminFlag(context context.Context, accountID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT %s = 'administrator'
		FROM %s
		WHERE %s = $1`,
		schema.UserAccount.Role, schema.UserAccount.Table, schema.UserAccount.ID,
	)

	var isAdmin bool
	err := directory.pool.QueryRow(context, query, accountID).Scan(&isAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNoAccount
		}
		return false, fmt.Errorf("postgres_directory_fetch_admin_flag_failed: %w", err)
	}

	return isAdmin, nil
}

// # SecureStore Methods

/*
FetchSecureFields returns the security attributes for an account id.

Description: The banned and emailconfirmed columns are 0/1 smallints in
the forum schema; this boundary coerces them to booleans so nothing
downstream re-parses integers. passwordexpiry is NULL for accounts
without an expiry.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - *SecureFields: Hash, ban flag, confirmation flag, expiry
  - error: ErrNoAccount or database execution failure
*/
func (directory *PostgresDirectory) FetchSecureFields(context context.Context, accountID string) (*SecureFields, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserAccount.Password, schema.UserAccount.Banned,
		schema.UserAccount.EmailConfirmed, schema.UserAccount.PasswordExpiry,
		schema.UserAccount.Table, schema.UserAccount.ID,
	)

	var (
		fields         SecureFields
		banned         int16
		emailConfirmed int16
	)
	err := directory.pool.QueryRow(context, query, accountID).Scan(
		&fields.PasswordHash,
		&banned,
		&emailConfirmed,
		&fields.PasswordExpiry,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoAccount
		}
		return nil, fmt.Errorf("postgres_directory_fetch_secure_fields_failed: %w", err)
	}

	fields.Banned = banned == 1
	fields.EmailConfirmed = emailConfirmed == 1

	return &fields, nil
}
