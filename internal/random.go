package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// RandomString returns n bytes from crypto/rand, base64url encoded without
// padding.
func RandomString(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("random length must be > 0")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
