package store

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/revaerr"
	"github.com/revaer/revaer/pkg/types"
)

// GetAppProfile reads the singleton app_profile row, creating it with
// its zero-value defaults on first access (the migration that creates
// the table does not seed a row, since the initial instance name and
// port are operator-chosen at first boot).
func (q *Queries) GetAppProfile(ctx context.Context) (*types.AppProfile, error) {
	row := q.q.QueryRow(ctx, `
		SELECT id, instance_name, mode, auth_mode, version, http_bind_host,
		       http_port, telemetry, label_policies, immutable_keys,
		       revision, created_at, updated_at
		FROM app_profile WHERE id = $1`, singletonID)

	var p types.AppProfile
	var telemetry, labelPolicies []byte
	err := row.Scan(&p.ID, &p.InstanceName, &p.Mode, &p.AuthMode, &p.Version,
		&p.HTTPBindHost, &p.HTTPPort, &telemetry, &labelPolicies, &p.ImmutableKeys,
		new(int64), &p.CreatedAt, &p.UpdatedAt)
	if err == ErrNoRows {
		return nil, &revaerr.DataAccessError{Operation: "get_app_profile", Source: err}
	}
	if err != nil {
		return nil, wrapDB("get_app_profile", err)
	}
	if err := json.Unmarshal(telemetry, &p.Telemetry); err != nil {
		return nil, wrapDB("get_app_profile.telemetry", err)
	}
	if err := json.Unmarshal(labelPolicies, &p.LabelPolicies); err != nil {
		return nil, wrapDB("get_app_profile.label_policies", err)
	}
	return &p, nil
}

// SeedAppProfile inserts the singleton app_profile row if it does not
// already exist, with the given initial instance name/port. Used once
// at first-boot migration.
func (q *Queries) SeedAppProfile(ctx context.Context, instanceName string, httpPort int) error {
	telemetry, _ := json.Marshal(types.TelemetrySettings{Level: "info", Format: "console"})
	_, err := q.q.Exec(ctx, `
		INSERT INTO app_profile (id, instance_name, mode, auth_mode, version,
		                          http_bind_host, http_port, telemetry, label_policies, immutable_keys)
		VALUES ($1, $2, $3, $4, 1, '', $5, $6, '[]', '{}')
		ON CONFLICT (id) DO NOTHING`,
		singletonID, instanceName, types.AppModeSetup, types.AuthModeApiKey, httpPort, telemetry)
	return wrapDB("seed_app_profile", err)
}

// PutAppProfile overwrites the singleton app_profile row with p and
// bumps its Version. Called by pkg/config after diffing and validating
// a sub-update, inside the owning ApplyInTx.
func (q *Queries) PutAppProfile(ctx context.Context, p *types.AppProfile) error {
	telemetry, err := json.Marshal(p.Telemetry)
	if err != nil {
		return wrapDB("put_app_profile.telemetry", err)
	}
	labelPolicies, err := json.Marshal(p.LabelPolicies)
	if err != nil {
		return wrapDB("put_app_profile.label_policies", err)
	}
	if p.LabelPolicies == nil {
		labelPolicies = []byte("[]")
	}
	if p.ImmutableKeys == nil {
		p.ImmutableKeys = []string{}
	}
	_, err = q.q.Exec(ctx, `
		UPDATE app_profile
		SET instance_name = $2, mode = $3, auth_mode = $4, version = version + 1,
		    http_bind_host = $5, http_port = $6, telemetry = $7, label_policies = $8,
		    immutable_keys = $9
		WHERE id = $1`,
		singletonID, p.InstanceName, p.Mode, p.AuthMode, p.HTTPBindHost, p.HTTPPort,
		telemetry, labelPolicies, p.ImmutableKeys)
	return wrapDB("put_app_profile", err)
}

// MaxRevision returns the highest revision across every revision-bearing
// table, used as ConfigSnapshot.Revision.
func (q *Queries) MaxRevision(ctx context.Context) (int64, error) {
	var rev int64
	err := q.q.QueryRow(ctx, `
		SELECT GREATEST(
			(SELECT COALESCE(MAX(revision),0) FROM app_profile),
			(SELECT COALESCE(MAX(revision),0) FROM engine_profile),
			(SELECT COALESCE(MAX(revision),0) FROM fs_policy),
			(SELECT COALESCE(MAX(revision),0) FROM api_keys),
			(SELECT COALESCE(MAX(revision),0) FROM setup_tokens),
			(SELECT COALESCE(MAX(revision),0) FROM named_secrets)
		)`).Scan(&rev)
	return rev, wrapDB("max_revision", err)
}

// SingletonID exposes the fixed singleton row id for use in cross-table
// helpers outside this package (e.g. tests seeding fixtures).
func SingletonID() uuid.UUID { return singletonID }
