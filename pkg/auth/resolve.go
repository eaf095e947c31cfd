package auth

import (
	"context"
	"net/http"

	"github.com/revaer/revaer/pkg/revaerr"
	"github.com/revaer/revaer/pkg/types"
)

// Resolve computes the AuthContext for an inbound request per spec
// §4.5. A missing credential resolves to Anonymous rather than erroring
// here — whether Anonymous is admissible for this particular endpoint
// is Admit's job, since that depends on the endpoint's read/write
// nature and the instance's configured auth_mode.
func Resolve(ctx context.Context, facade Facade, r *http.Request) (Context, error) {
	cred := parseAuthorization(r)
	if !cred.present {
		return Anonymous, nil
	}

	if cred.setupToken != "" {
		if err := facade.ConsumeSetupToken(ctx, cred.setupToken); err != nil {
			return Context{}, err
		}
		return Context{Kind: KindSetupToken, SetupToken: cred.setupToken}, nil
	}

	key, err := facade.AuthenticateApiKey(ctx, cred.apiKeyID, cred.apiKeySecret)
	if err != nil {
		return Context{}, err
	}
	if key == nil {
		return Context{}, &revaerr.AuthError{Reason: revaerr.AuthInvalidCredential}
	}
	return Context{Kind: KindApiKey, KeyID: key.KeyID, Label: key.Label, RateLimit: key.RateLimit}, nil
}

// Admit enforces spec §4.5's "When snapshot auth_mode is None, anonymous
// is admitted for read-only endpoints": any resolved ApiKey or
// SetupToken context is always admitted (the caller that constructed it
// already authenticated), and an Anonymous context is admitted only for
// a read-only endpoint under AuthModeNone.
func Admit(c Context, authMode types.AuthMode, readOnly bool) error {
	if c.Kind != KindAnonymous {
		return nil
	}
	if authMode == types.AuthModeNone && readOnly {
		return nil
	}
	return &revaerr.AuthError{Reason: revaerr.AuthMissingCredential}
}
