// Package goSession is a session-token authentication engine: email and
// password login, signed JWT session tokens, and a revocation registry that
// makes logout stick before the token expires.
//
// Engine methods are safe for concurrent use after [Builder.Build].
//
// # Layout
//
// goSession is the public surface: [Engine], [Builder], [Config], and the
// value types returned by its operations. Flow orchestration and audit
// dispatch live under internal/. Token signing is in jwt, password hashing
// in password, the blacklist in revocation, user storage in store/..., and
// the HTTP guard in middleware.
//
// # Validation order
//
// Validate rejects an empty token, then consults the revocation registry,
// then verifies signature and expiry. A registry that cannot answer fails the
// validation closed with [ErrRevocationUnavailable]. Validate never reads the
// user store.
//
// # Login
//
// An unknown email and a wrong password both return [ErrInvalidCredentials],
// and the unknown-email path still runs a password comparison against a
// dummy hash so both take comparable time.
package goSession
