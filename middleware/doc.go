// Package middleware gates HTTP handlers on a valid session token.
//
// A [Gate] reads the "authToken" cookie first and falls back to an
// "Authorization: Bearer" header, then delegates the decision to an
// [Authenticator] (normally *goSession.Engine). On success the
// [goSession.IdentityClaim] and the raw token are attached to the request
// context; see [IdentityFromContext] and [TokenFromContext].
//
// This package does not parse tokens or touch the revocation registry itself.
package middleware
