package store

import (
	"context"
	"encoding/json"

	"github.com/revaer/revaer/pkg/types"
)

// GetEngineProfile reads the singleton engine_profile row.
func (q *Queries) GetEngineProfile(ctx context.Context) (*types.EngineProfile, error) {
	row := q.q.QueryRow(ctx, `
		SELECT network, limits, behavior, storage, tracker, alt_speed, ip_filter, peer_classes
		FROM engine_profile WHERE id = $1`, singletonID)

	var network, limits, behavior, storage, tracker, altSpeed, ipFilter, peerClasses []byte
	if err := row.Scan(&network, &limits, &behavior, &storage, &tracker, &altSpeed, &ipFilter, &peerClasses); err != nil {
		return nil, wrapDB("get_engine_profile", err)
	}

	var p types.EngineProfile
	for _, u := range []struct {
		data []byte
		dest any
	}{
		{network, &p.Network}, {limits, &p.Limits}, {behavior, &p.Behavior},
		{storage, &p.Storage}, {tracker, &p.Tracker}, {altSpeed, &p.AltSpeed},
		{ipFilter, &p.IPFilter}, {peerClasses, &p.PeerClasses},
	} {
		if err := json.Unmarshal(u.data, u.dest); err != nil {
			return nil, wrapDB("get_engine_profile.unmarshal", err)
		}
	}
	return &p, nil
}

// SeedEngineProfile inserts a default engine_profile row if missing.
func (q *Queries) SeedEngineProfile(ctx context.Context, defaults *types.EngineProfile) error {
	network, _ := json.Marshal(defaults.Network)
	limits, _ := json.Marshal(defaults.Limits)
	behavior, _ := json.Marshal(defaults.Behavior)
	storage, _ := json.Marshal(defaults.Storage)
	tracker, _ := json.Marshal(defaults.Tracker)
	altSpeed, _ := json.Marshal(defaults.AltSpeed)
	ipFilter, _ := json.Marshal(defaults.IPFilter)
	peerClasses, _ := json.Marshal(defaults.PeerClasses)
	_, err := q.q.Exec(ctx, `
		INSERT INTO engine_profile (id, network, limits, behavior, storage, tracker, alt_speed, ip_filter, peer_classes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		singletonID, network, limits, behavior, storage, tracker, altSpeed, ipFilter, peerClasses)
	return wrapDB("seed_engine_profile", err)
}

// PutEngineProfile overwrites the singleton engine_profile row.
func (q *Queries) PutEngineProfile(ctx context.Context, p *types.EngineProfile) error {
	network, err := json.Marshal(p.Network)
	if err != nil {
		return wrapDB("put_engine_profile.network", err)
	}
	limits, err := json.Marshal(p.Limits)
	if err != nil {
		return wrapDB("put_engine_profile.limits", err)
	}
	behavior, err := json.Marshal(p.Behavior)
	if err != nil {
		return wrapDB("put_engine_profile.behavior", err)
	}
	storage, err := json.Marshal(p.Storage)
	if err != nil {
		return wrapDB("put_engine_profile.storage", err)
	}
	tracker, err := json.Marshal(p.Tracker)
	if err != nil {
		return wrapDB("put_engine_profile.tracker", err)
	}
	altSpeed, err := json.Marshal(p.AltSpeed)
	if err != nil {
		return wrapDB("put_engine_profile.alt_speed", err)
	}
	ipFilter, err := json.Marshal(p.IPFilter)
	if err != nil {
		return wrapDB("put_engine_profile.ip_filter", err)
	}
	peerClasses, err := json.Marshal(p.PeerClasses)
	if err != nil {
		return wrapDB("put_engine_profile.peer_classes", err)
	}
	_, err = q.q.Exec(ctx, `
		UPDATE engine_profile
		SET network = $2, limits = $3, behavior = $4, storage = $5, tracker = $6,
		    alt_speed = $7, ip_filter = $8, peer_classes = $9
		WHERE id = $1`,
		singletonID, network, limits, behavior, storage, tracker, altSpeed, ipFilter, peerClasses)
	return wrapDB("put_engine_profile", err)
}
