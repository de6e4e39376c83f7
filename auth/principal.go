// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"

	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
)

// Principal is the authenticated caller of a request.
// ID is the voter's identity number or the admin's identity.
type Principal struct {
	Role string `json:"role"`
	ID   string `json:"id"`
}

func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }
func (p Principal) IsVoter() bool { return p.Role == models.RoleVoter }

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller attached by the session middleware
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
