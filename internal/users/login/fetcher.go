// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

package login

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

/*
fetchAccount assembles the full account view for verification.

Description: Issues the three sub-lookups — public profile, secure fields,
administrator flag — concurrently against the account store and joins
them. The result is available only once all three complete; if any one
fails, the whole fetch fails atomically and no partial result reaches the
verifier. This stage applies no business rules.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - *fetchedAccount: The joined view.
  - error: The first sub-lookup failure, wrapped.
*/
func (service *Service) fetchAccount(context context.Context, accountID string) (*fetchedAccount, error) {
	group, groupCtx := errgroup.WithContext(context)

	fetched := &fetchedAccount{}

	group.Go(func() error {
		profile, err := service.directory.FetchProfile(groupCtx, accountID)
		if err != nil {
			return fmt.Errorf("login_fetch_profile_failed: %w", err)
		}
		fetched.Profile = profile
		return nil
	})

	group.Go(func() error {
		secure, err := service.secure.FetchSecureFields(groupCtx, accountID)
		if err != nil {
			return fmt.Errorf("login_fetch_secure_fields_failed: %w", err)
		}
		fetched.Secure = secure
		return nil
	})

	group.Go(func() error {
		isAdmin, err := service.directory.FetchAdminFlag(groupCtx, accountID)
		if err != nil {
			return fmt.Errorf("login_fetch_admin_flag_failed: %w", err)
		}
		fetched.IsAdmin = isAdmin
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return fetched, nil
}
