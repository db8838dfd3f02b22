// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

package login_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtran/authgate/internal/platform/apperr"
	"github.com/minhtran/authgate/internal/platform/constants"
	"github.com/minhtran/authgate/internal/users/login"
	"github.com/minhtran/authgate/internal/users/throttle"
)

// # Test Doubles

type fakeDirectory struct {
	byEmail    map[string]string
	bySlug     map[string]string
	profiles   map[string]*login.Account
	admins     map[string]bool
	resolveErr error
}

func (directory *fakeDirectory) ResolveByEmail(_ context.Context, email string) (string, error) {
	if directory.resolveErr != nil {
		return "", directory.resolveErr
	}
	id, ok := directory.byEmail[strings.ToLower(email)]
	if !ok {
		return "", login.ErrNoAccount
	}
	return id, nil
}

func (directory *fakeDirectory) ResolveBySlug(_ context.Context, userslug string) (string, error) {
	if directory.resolveErr != nil {
		return "", directory.resolveErr
	}
	id, ok := directory.bySlug[userslug]
	if !ok {
		return "", login.ErrNoAccount
	}
	return id, nil
}

func (directory *fakeDirectory) FetchProfile(_ context.Context, accountID string) (*login.Account, error) {
	return directory.profiles[accountID], nil
}

func (directory *fakeDirectory) FetchAdminFlag(_ context.Context, accountID string) (bool, error) {
	return directory.admins[accountID], nil
}

type fakeSecureStore struct {
	fields   map[string]*login.SecureFields
	fetchErr error
}

func (store *fakeSecureStore) FetchSecureFields(_ context.Context, accountID string) (*login.SecureFields, error) {
	if store.fetchErr != nil {
		return nil, store.fetchErr
	}
	return store.fields[accountID], nil
}

// fakeVerifier matches plaintext candidates against the stored "hash"
// verbatim and records whether it was consulted at all.
type fakeVerifier struct {
	called bool
}

func (verifier *fakeVerifier) Compare(_ context.Context, candidate, hash string) (bool, error) {
	verifier.called = true
	return candidate == hash, nil
}

// # Fixture

type fixture struct {
	directory *fakeDirectory
	secure    *fakeSecureStore
	verifier  *fakeVerifier
	attempts  throttle.Store
	service   *login.Service
}

func newFixture(t *testing.T, options login.Options) *fixture {
	t.Helper()

	directory := &fakeDirectory{
		byEmail: map[string]string{"alice@example.com": "account-1"},
		bySlug:  map[string]string{"alice-cooper": "account-1"},
		profiles: map[string]*login.Account{
			"account-1": {
				ID:       "account-1",
				Username: "Alice Cooper",
				Userslug: "alice-cooper",
				Email:    "alice@example.com",
				JoinedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		admins: map[string]bool{},
	}
	secure := &fakeSecureStore{
		fields: map[string]*login.SecureFields{
			"account-1": {
				PasswordHash:   "correct horse battery staple",
				Banned:         false,
				EmailConfirmed: true,
			},
		},
	}
	verifier := &fakeVerifier{}
	attempts := throttle.NewMemoryStore(context.Background(), throttle.Policy{
		FreeRetries: 2,
		MinWait:     time.Minute,
		MaxWait:     time.Hour,
		Lifetime:    time.Hour,
	})

	return &fixture{
		directory: directory,
		secure:    secure,
		verifier:  verifier,
		attempts:  attempts,
		service:   login.NewService(directory, secure, attempts, verifier, options),
	}
}

func (f *fixture) authenticate(identifier, secret string) (*login.Account, error) {
	return f.service.Authenticate(context.Background(), login.Input{
		Identifier: identifier,
		Secret:     secret,
	})
}

// # Service Tests

/*
TestService_Authenticate_Success verifies the happy path for both
identifier kinds.
*/
func TestService_Authenticate_Success(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
	}{
		{"by_email", "alice@example.com"},
		{"by_handle", "Alice Cooper"},
		{"by_slugged_handle", "alice-cooper"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, login.Options{RequireConfirmed: true})

			account, err := f.authenticate(tt.identifier, "correct horse battery staple")
			require.NoError(t, err)
			require.NotNil(t, account)
			assert.Equal(t, "account-1", account.ID)
			assert.Equal(t, "alice-cooper", account.Userslug)
		})
	}
}

/*
TestService_Authenticate_EmailLookupIsCaseInsensitive verifies that a
differently cased email still resolves the account.
*/
func TestService_Authenticate_EmailLookupIsCaseInsensitive(t *testing.T) {
	f := newFixture(t, login.Options{RequireConfirmed: true})

	account, err := f.authenticate("Alice@Example.COM", "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, "account-1", account.ID)
}

/*
TestService_Authenticate_UnknownIdentifier verifies the rejection message
carries the raw submitted identifier, not its lookup key.
*/
func TestService_Authenticate_UnknownIdentifier(t *testing.T) {
	f := newFixture(t, login.Options{RequireConfirmed: true})

	account, err := f.authenticate("ghost@b.com", "whatever")
	assert.Nil(t, account)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CodeUnknownIdentifier, appError.Code)
	assert.Equal(t, "User ghost@b.com does not exist", appError.Message)
}

/*
TestService_Authenticate_WrongPassword verifies the invalid credential
rejection.
*/
func TestService_Authenticate_WrongPassword(t *testing.T) {
	f := newFixture(t, login.Options{RequireConfirmed: true})

	account, err := f.authenticate("alice@example.com", "hunter2")
	assert.Nil(t, account)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CodeInvalidCredentials, appError.Code)
	assert.Equal(t, "Invalid Password", appError.Message)
}

/*
TestService_Authenticate_BannedBeforePassword verifies a banned account is
rejected without the password ever being compared.
*/
func TestService_Authenticate_BannedBeforePassword(t *testing.T) {
	f := newFixture(t, login.Options{RequireConfirmed: true})
	f.secure.fields["account-1"].Banned = true

	account, err := f.authenticate("alice@example.com", "correct horse battery staple")
	assert.Nil(t, account)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CodeAccountBanned, appError.Code)
	assert.Equal(t, "User alice@example.com is banned.", appError.Message)
	assert.False(t, f.verifier.called, "password must not be compared for a banned account")
}

/*
TestService_Authenticate_Unconfirmed verifies the confirmation policy in
both modes.
*/
func TestService_Authenticate_Unconfirmed(t *testing.T) {
	t.Run("rejected_when_required", func(t *testing.T) {
		f := newFixture(t, login.Options{RequireConfirmed: true})
		f.secure.fields["account-1"].EmailConfirmed = false

		account, err := f.authenticate("alice@example.com", "correct horse battery staple")
		assert.Nil(t, account)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, apperr.CodeUnconfirmed, appError.Code)
		assert.Equal(t, "Email has not been confirmed", appError.Message)
	})

	t.Run("accepted_when_not_required", func(t *testing.T) {
		f := newFixture(t, login.Options{RequireConfirmed: false})
		f.secure.fields["account-1"].EmailConfirmed = false

		account, err := f.authenticate("alice@example.com", "correct horse battery staple")
		require.NoError(t, err)
		assert.Equal(t, "account-1", account.ID)
	})
}

/*
TestService_Authenticate_EmailOnlyMode verifies handle identifiers are
rejected as validation failures before the throttle sees them.
*/
func TestService_Authenticate_EmailOnlyMode(t *testing.T) {
	f := newFixture(t, login.Options{EmailOnly: true, RequireConfirmed: true})

	for i := 0; i < 10; i++ {
		account, err := f.authenticate("alice-cooper", "whatever")
		assert.Nil(t, account)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, apperr.CodeValidation, appError.Code)
		assert.Equal(t, constants.MsgNotAnEmail, appError.Message)
	}

	// None of the rejections above may have consumed the email budget.
	account, err := f.authenticate("alice@example.com", "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, "account-1", account.ID)
}

/*
TestService_Authenticate_BlocksAfterBudget verifies that failures beyond
the free budget produce the blocked rejection with a relative retry hint.
*/
func TestService_Authenticate_BlocksAfterBudget(t *testing.T) {
	f := newFixture(t, login.Options{RequireConfirmed: true})

	// FreeRetries (2) plus the one over-budget admission.
	for i := 0; i < 3; i++ {
		_, err := f.authenticate("alice@example.com", "wrong")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, apperr.CodeInvalidCredentials, appError.Code)
	}

	account, err := f.authenticate("alice@example.com", "correct horse battery staple")
	assert.Nil(t, account)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CodeBlocked, appError.Code)
	assert.True(t, strings.HasPrefix(appError.Message, constants.MsgTooManyAttempts),
		"blocked message must carry the retry hint suffix: %q", appError.Message)
}

/*
TestService_Authenticate_BudgetIsPerIdentifier verifies one identifier's
exhausted budget never blocks another.
*/
func TestService_Authenticate_BudgetIsPerIdentifier(t *testing.T) {
	f := newFixture(t, login.Options{RequireConfirmed: true})

	for i := 0; i < 4; i++ {
		_, _ = f.authenticate("ghost@b.com", "whatever")
	}

	account, err := f.authenticate("alice@example.com", "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, "account-1", account.ID)
}

/*
TestService_Authenticate_SuccessResetsBudget verifies a successful login
clears prior failures so the full budget is available again.
*/
func TestService_Authenticate_SuccessResetsBudget(t *testing.T) {
	f := newFixture(t, login.Options{RequireConfirmed: true})

	for i := 0; i < 2; i++ {
		_, err := f.authenticate("alice@example.com", "wrong")
		require.Error(t, err)
	}

	_, err := f.authenticate("alice@example.com", "correct horse battery staple")
	require.NoError(t, err)

	// The full budget of three admissions is available again.
	for i := 0; i < 3; i++ {
		_, err := f.authenticate("alice@example.com", "wrong")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, apperr.CodeInvalidCredentials, appError.Code)
	}
}

/*
TestService_Authenticate_UpstreamFailureIsForgiven verifies that a
directory outage neither leaks details nor consumes the caller's budget.
*/
func TestService_Authenticate_UpstreamFailureIsForgiven(t *testing.T) {
	f := newFixture(t, login.Options{RequireConfirmed: true})
	f.directory.resolveErr = errors.New("connection refused")

	// Far more outage rejections than the budget allows.
	for i := 0; i < 10; i++ {
		account, err := f.authenticate("alice@example.com", "correct horse battery staple")
		assert.Nil(t, account)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, apperr.CodeInternal, appError.Code)
	}

	// Once the directory recovers the account logs straight in.
	f.directory.resolveErr = nil
	account, err := f.authenticate("alice@example.com", "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, "account-1", account.ID)
}

/*
TestService_Authenticate_SecureStoreFailureIsForgiven verifies the same
refund behavior for the secure field fetch.
*/
func TestService_Authenticate_SecureStoreFailureIsForgiven(t *testing.T) {
	f := newFixture(t, login.Options{RequireConfirmed: true})
	f.secure.fetchErr = errors.New("connection reset")

	for i := 0; i < 10; i++ {
		_, err := f.authenticate("alice@example.com", "correct horse battery staple")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, apperr.CodeInternal, appError.Code)
	}

	f.secure.fetchErr = nil
	account, err := f.authenticate("alice@example.com", "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, "account-1", account.ID)
}
