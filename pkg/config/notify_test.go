package config

import "testing"

func TestDecodeNotificationValid(t *testing.T) {
	change, err := decodeNotification("app_profile:42:UPDATE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if change.Table != TableAppProfile || change.Revision != 42 || change.Op != "UPDATE" {
		t.Errorf("unexpected decode: %+v", change)
	}
}

func TestDecodeNotificationOpMayContainNoColon(t *testing.T) {
	change, err := decodeNotification("api_keys:7:INSERT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if change.Op != "INSERT" {
		t.Errorf("expected op INSERT, got %q", change.Op)
	}
}

func TestDecodeNotificationMissingParts(t *testing.T) {
	if _, err := decodeNotification("app_profile:42"); err == nil {
		t.Fatal("expected an error for a payload missing the op segment")
	}
}

func TestDecodeNotificationNonIntegerRevision(t *testing.T) {
	if _, err := decodeNotification("app_profile:not-a-number:UPDATE"); err == nil {
		t.Fatal("expected an error for a non-integer revision")
	}
}
