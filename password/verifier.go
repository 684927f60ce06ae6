package password

import (
	"errors"
	"strings"
)

// ErrUnsupportedHash is returned when a stored hash matches no known format.
var ErrUnsupportedHash = errors.New("unsupported password hash format")

// Verifier reports whether a plaintext password matches an encoded hash.
//
// A mismatch is (false, nil). An error means the hash itself could not be
// used, which callers should treat as a server-side fault rather than a bad
// password.
type Verifier interface {
	Verify(password, encodedHash string) (bool, error)
}

// Hasher produces encoded hashes that the matching [Verifier] accepts.
type Hasher interface {
	Hash(password string) (string, error)
}

// Auto dispatches verification on the hash prefix.
type Auto struct {
	bcrypt *Bcrypt
	argon2 *Argon2
}

// NewAuto returns a verifier that accepts both bcrypt and argon2id hashes.
// A nil argument falls back to that algorithm's defaults.
func NewAuto(b *Bcrypt, a *Argon2) *Auto {
	if b == nil {
		b = NewBcrypt(0)
	}
	if a == nil {
		a = &Argon2{config: DefaultArgon2Config()}
	}
	return &Auto{bcrypt: b, argon2: a}
}

// Verify implements [Verifier].
func (v *Auto) Verify(password, encodedHash string) (bool, error) {
	switch {
	case isBcryptHash(encodedHash):
		return v.bcrypt.Verify(password, encodedHash)
	case strings.HasPrefix(encodedHash, "$"+algorithmID+"$"):
		return v.argon2.Verify(password, encodedHash)
	default:
		return false, ErrUnsupportedHash
	}
}

func isBcryptHash(encodedHash string) bool {
	return strings.HasPrefix(encodedHash, "$2a$") ||
		strings.HasPrefix(encodedHash, "$2b$") ||
		strings.HasPrefix(encodedHash, "$2y$")
}
