package auth

import (
	"github.com/revaer/revaer/pkg/types"
)

// Kind discriminates the three admissible authentication outcomes per
// spec §4.5: `AuthContext ∈ { ApiKey{key_id}, SetupToken(token), Anonymous }`.
type Kind int

const (
	KindAnonymous Kind = iota
	KindApiKey
	KindSetupToken
)

// Context is the resolved identity of one inbound request.
type Context struct {
	Kind Kind

	// Populated when Kind == KindApiKey.
	KeyID     string
	Label     string
	RateLimit *types.RateLimit

	// Populated when Kind == KindSetupToken.
	SetupToken string
}

// Anonymous is the zero-credential context, admitted for read-only
// endpoints when the snapshot's auth_mode is AuthModeNone.
var Anonymous = Context{Kind: KindAnonymous}

// CanRefresh reports whether this context may call RefreshApiKey: only
// an ApiKey context may, per spec §4.5's "Anonymous or setup contexts
// are rejected on refresh."
func (c Context) CanRefresh() bool { return c.Kind == KindApiKey }
