package middleware

import (
	"net/http"
	"strings"
)

// DefaultCookieName is the session cookie consulted before the Authorization header.
const DefaultCookieName = "authToken"

// ExtractToken returns the candidate session token of r. A non-empty cookie
// named cookieName wins; otherwise the first word after "Bearer " in the
// Authorization header is used. It returns "" when neither is present.
func ExtractToken(r *http.Request, cookieName string) string {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	token, _ := bearerToken(r.Header.Get("Authorization"))
	return token
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if i := strings.IndexByte(token, ' '); i >= 0 {
		token = token[:i]
	}
	if token == "" {
		return "", false
	}

	return token, true
}
