// Package revocation implements the token blacklist consulted on every
// session validation.
//
// A token found here is rejected even when its signature and expiry are
// valid. Entries are never removed while the token could still verify;
// once the token's own expiry has passed the entry is redundant and may be
// pruned ([Memory.Prune] driven by a [Sweeper], or Redis key TTL for [Redis]).
//
// Backends store a SHA-256 fingerprint of the token, never the token itself.
package revocation
