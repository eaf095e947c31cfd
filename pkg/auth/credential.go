package auth

import (
	"net/http"
	"strings"
)

// credential is the raw, unauthenticated claim extracted from a
// request's Authorization header, before Resolve looks it up.
type credential struct {
	apiKeyID     string
	apiKeySecret string
	setupToken   string
	present      bool
}

// parseAuthorization splits the Authorization header into one of two
// schemes: "Bearer <key_id>:<secret>" for API keys, or
// "Setup <token>" for the one-time setup token. Any other shape (or a
// missing header) yields a credential with present == false, which
// Resolve maps to Anonymous.
func parseAuthorization(r *http.Request) credential {
	header := r.Header.Get("Authorization")
	if header == "" {
		return credential{}
	}
	scheme, value, ok := strings.Cut(header, " ")
	if !ok {
		return credential{}
	}
	switch scheme {
	case "Bearer":
		keyID, secret, ok := strings.Cut(value, ":")
		if !ok || keyID == "" || secret == "" {
			return credential{}
		}
		return credential{apiKeyID: keyID, apiKeySecret: secret, present: true}
	case "Setup":
		if value == "" {
			return credential{}
		}
		return credential{setupToken: value, present: true}
	default:
		return credential{}
	}
}
