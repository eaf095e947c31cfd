package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/revaer/revaer/pkg/types"
)

type fakeFacade struct {
	keys        map[string]*types.ApiKey
	secrets     map[string]string
	validTokens map[string]bool
	refreshed   map[string]time.Time
}

func newFakeFacade() *fakeFacade {
	return &fakeFacade{
		keys:        map[string]*types.ApiKey{},
		secrets:     map[string]string{},
		validTokens: map[string]bool{},
		refreshed:   map[string]time.Time{},
	}
}

func (f *fakeFacade) AuthenticateApiKey(ctx context.Context, keyID, secret string) (*types.ApiKey, error) {
	key, ok := f.keys[keyID]
	if !ok {
		return nil, nil
	}
	if f.secrets[keyID] != secret {
		return nil, nil
	}
	return key, nil
}

func (f *fakeFacade) ConsumeSetupToken(ctx context.Context, token string) error {
	if !f.validTokens[token] {
		return errInvalidToken
	}
	delete(f.validTokens, token)
	return nil
}

func (f *fakeFacade) RefreshApiKeyExpiry(ctx context.Context, keyID string) (time.Time, error) {
	newExpiry := time.Now().Add(90 * 24 * time.Hour)
	f.refreshed[keyID] = newExpiry
	return newExpiry, nil
}

type fakeError string

func (e fakeError) Error() string { return string(e) }

const errInvalidToken = fakeError("invalid token")

func reqWithAuth(header string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/v1/torrents", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	return r
}

func TestResolveNoHeaderIsAnonymous(t *testing.T) {
	c, err := Resolve(context.Background(), newFakeFacade(), reqWithAuth(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Kind != KindAnonymous {
		t.Errorf("expected KindAnonymous, got %v", c.Kind)
	}
}

func TestResolveMalformedHeaderIsAnonymous(t *testing.T) {
	c, err := Resolve(context.Background(), newFakeFacade(), reqWithAuth("garbage"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Kind != KindAnonymous {
		t.Errorf("expected KindAnonymous for a malformed header, got %v", c.Kind)
	}
}

func TestResolveValidApiKey(t *testing.T) {
	f := newFakeFacade()
	f.keys["key-1"] = &types.ApiKey{KeyID: "key-1", Label: "ci"}
	f.secrets["key-1"] = "s3cret"

	c, err := Resolve(context.Background(), f, reqWithAuth("Bearer key-1:s3cret"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Kind != KindApiKey || c.KeyID != "key-1" || c.Label != "ci" {
		t.Errorf("unexpected context: %+v", c)
	}
}

func TestResolveInvalidApiKeySecret(t *testing.T) {
	f := newFakeFacade()
	f.keys["key-1"] = &types.ApiKey{KeyID: "key-1"}
	f.secrets["key-1"] = "s3cret"

	_, err := Resolve(context.Background(), f, reqWithAuth("Bearer key-1:wrong"))
	if err == nil {
		t.Fatal("expected an error for a wrong secret")
	}
}

func TestResolveUnknownApiKey(t *testing.T) {
	_, err := Resolve(context.Background(), newFakeFacade(), reqWithAuth("Bearer missing:whatever"))
	if err == nil {
		t.Fatal("expected an error for an unknown key id")
	}
}

func TestResolveValidSetupToken(t *testing.T) {
	f := newFakeFacade()
	f.validTokens["plaintext-token"] = true

	c, err := Resolve(context.Background(), f, reqWithAuth("Setup plaintext-token"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Kind != KindSetupToken || c.SetupToken != "plaintext-token" {
		t.Errorf("unexpected context: %+v", c)
	}
}

func TestResolveInvalidSetupToken(t *testing.T) {
	_, err := Resolve(context.Background(), newFakeFacade(), reqWithAuth("Setup bogus"))
	if err == nil {
		t.Fatal("expected an error for an invalid setup token")
	}
}

func TestAdmitAnonymousRejectedWhenAuthModeApiKey(t *testing.T) {
	err := Admit(Anonymous, types.AuthModeApiKey, true)
	if err == nil {
		t.Fatal("expected anonymous rejected under AuthModeApiKey")
	}
}

func TestAdmitAnonymousAllowedReadOnlyWhenAuthModeNone(t *testing.T) {
	err := Admit(Anonymous, types.AuthModeNone, true)
	if err != nil {
		t.Errorf("expected anonymous admitted for read-only under AuthModeNone, got %v", err)
	}
}

func TestAdmitAnonymousRejectedForWriteEvenWhenAuthModeNone(t *testing.T) {
	err := Admit(Anonymous, types.AuthModeNone, false)
	if err == nil {
		t.Fatal("expected anonymous rejected for a mutating endpoint even under AuthModeNone")
	}
}

func TestAdmitApiKeyAlwaysAllowed(t *testing.T) {
	c := Context{Kind: KindApiKey, KeyID: "key-1"}
	if err := Admit(c, types.AuthModeApiKey, false); err != nil {
		t.Errorf("expected an authenticated ApiKey context always admitted, got %v", err)
	}
}

func TestRefreshApiKeyRejectsAnonymous(t *testing.T) {
	_, err := RefreshApiKey(context.Background(), newFakeFacade(), Anonymous)
	if err == nil {
		t.Fatal("expected anonymous context rejected on refresh")
	}
}

func TestRefreshApiKeyRejectsSetupToken(t *testing.T) {
	c := Context{Kind: KindSetupToken, SetupToken: "t"}
	_, err := RefreshApiKey(context.Background(), newFakeFacade(), c)
	if err == nil {
		t.Fatal("expected setup-token context rejected on refresh")
	}
}

func TestRefreshApiKeyExtendsExpiry(t *testing.T) {
	f := newFakeFacade()
	c := Context{Kind: KindApiKey, KeyID: "key-1"}

	expiry, err := RefreshApiKey(context.Background(), f, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expiry.After(time.Now()) {
		t.Error("expected refreshed expiry in the future")
	}
	if _, ok := f.refreshed["key-1"]; !ok {
		t.Error("expected RefreshApiKeyExpiry to be called on the facade")
	}
}
