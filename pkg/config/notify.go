package config

import (
	"strconv"
	"strings"

	"github.com/revaer/revaer/pkg/revaerr"
)

// ChangedTable names which singleton table a SettingsChange refers to.
type ChangedTable string

const (
	TableAppProfile    ChangedTable = "app_profile"
	TableEngineProfile ChangedTable = "engine_profile"
	TableFsPolicy      ChangedTable = "fs_policy"
	TableApiKeys       ChangedTable = "api_keys"
	TableSetupTokens   ChangedTable = "setup_tokens"
	TableNamedSecrets  ChangedTable = "named_secrets"
)

// SettingsChange is the typed decoding of a `settings` channel payload.
type SettingsChange struct {
	Table    ChangedTable
	Revision int64
	Op       string
}

// decodeNotification parses a `"<table>:<revision>:<op>"` payload into a
// typed SettingsChange, per spec §4.4's "Change stream decoding".
func decodeNotification(payload string) (SettingsChange, error) {
	parts := strings.SplitN(payload, ":", 3)
	if len(parts) != 3 {
		return SettingsChange{}, &revaerr.NotificationPayloadError{Payload: payload, Reason: "expected \"<table>:<revision>:<op>\""}
	}
	rev, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return SettingsChange{}, &revaerr.NotificationPayloadError{Payload: payload, Reason: "revision is not an integer"}
	}
	return SettingsChange{Table: ChangedTable(parts[0]), Revision: rev, Op: parts[2]}, nil
}
