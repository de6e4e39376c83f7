// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/store"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator resolves login credentials to a principal
type Authenticator interface {
	Authenticate(ctx context.Context, identity, dob string) (Principal, error)
}

// CredentialAuthenticator matches identity and date of birth exactly,
// trying voters before admins. There is no secret beyond those two fields.
type CredentialAuthenticator struct {
	voters store.Voters
	admins store.Admins
}

func NewCredentialAuthenticator(voters store.Voters, admins store.Admins) *CredentialAuthenticator {
	return &CredentialAuthenticator{voters: voters, admins: admins}
}

func (a *CredentialAuthenticator) Authenticate(ctx context.Context, identity, dob string) (Principal, error) {
	if identity == "" || dob == "" {
		return Principal{}, ErrInvalidCredentials
	}

	voter, err := a.voters.FindByCredentials(ctx, identity, dob)
	if err == nil {
		return Principal{Role: models.RoleVoter, ID: voter.Identity}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return Principal{}, fmt.Errorf("voter lookup: %w", err)
	}

	admin, err := a.admins.FindByCredentials(ctx, identity, dob)
	if err == nil {
		return Principal{Role: models.RoleAdmin, ID: admin.Identity}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return Principal{}, fmt.Errorf("admin lookup: %w", err)
	}

	return Principal{}, ErrInvalidCredentials
}
