// Package jwt issues and verifies session tokens.
//
// A session token is a compact JWT whose payload carries the user identity
// (userId), issued-at, expiry and a random token id (jti). Only the algorithm
// the Manager was built with is accepted when parsing.
package jwt
