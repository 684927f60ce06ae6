// Package password verifies plaintext passwords against stored one-way hashes.
//
// The login path only ever calls [Verifier.Verify]. Hashing exists for seeding
// credential records and for tests.
//
// # Supported formats
//
//	$2a$ / $2b$ / $2y$                                  bcrypt
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>   argon2id (PHC)
//
// [Auto] picks the verifier from the hash prefix, so a store may hold a mix of
// both while credentials migrate.
//
// # What this package must NOT do
//
//   - Store or retrieve credential records.
//   - Import any other goSession package.
//   - Log plaintext passwords or hash parameters.
package password
