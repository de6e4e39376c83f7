// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication, session tokens, and the request principal.

# Credentials

Login uses an identity number and a date of birth:

	authn := auth.NewCredentialAuthenticator(st.Voters(), st.Admins())
	p, err := authn.Authenticate(ctx, "12345", "2000-01-01")

Voters are matched first, then admins. A miss returns ErrInvalidCredentials.
Handlers depend on the Authenticator interface so a stronger scheme can
replace this one without touching them.

# Session Tokens

Session tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateSessionToken()

The cookie carries the token plus an HMAC-SHA256 signature:

	value := auth.SignToken(token, secret)
	token, err := auth.VerifySignedToken(value, secret)

A tampered or truncated cookie is rejected before the session store is
consulted.

# Principal

The session middleware attaches the caller to the request context:

	ctx = auth.WithPrincipal(ctx, auth.Principal{Role: models.RoleVoter, ID: "12345"})
	p, ok := auth.PrincipalFromContext(r.Context())

# IP Hashing

Rejected logins are logged with a salted hash instead of the raw address:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
