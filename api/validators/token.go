package validators

import (
	"net/http"
	"strings"
)

// BearerToken extracts the token from the Authorization header. An empty
// string means no usable credential was presented.
func BearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}
