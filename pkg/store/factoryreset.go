package store

import "context"

// FactoryReset truncates every configuration and runtime-state table in
// a single transaction, per spec §4.3's "truncates configuration +
// runtime state in one transaction". The app_profile/engine_profile/
// fs_policy singleton rows are deleted along with everything else — the
// caller (pkg/config) is responsible for re-seeding fresh singletons in
// the same transaction so the instance re-enters Setup mode cleanly.
func (q *Queries) FactoryReset(ctx context.Context) error {
	_, err := q.q.Exec(ctx, `
		TRUNCATE TABLE
			app_profile, engine_profile, fs_policy,
			api_keys, setup_tokens, named_secrets`)
	return wrapDB("factory_reset", err)
}
