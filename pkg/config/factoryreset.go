package config

import (
	"context"

	"github.com/revaer/revaer/pkg/store"
	"github.com/revaer/revaer/pkg/types"
)

// FactoryReset truncates every configuration and runtime-state table and
// re-seeds fresh singleton rows in one transaction, returning the
// instance cleanly to AppModeSetup per spec §4.3. The pre-reset
// instance_name, http_port, and library_root are preserved across the
// reset since they are operator-chosen host facts, not settings being
// reset.
func (f *Facade) FactoryReset(ctx context.Context) error {
	return f.store.ApplyInTx(ctx, func(ctx context.Context, q *store.Queries) error {
		prior, err := q.GetAppProfile(ctx)
		if err != nil {
			return err
		}
		priorPolicy, err := q.GetFsPolicy(ctx)
		if err != nil {
			return err
		}

		if err := q.FactoryReset(ctx); err != nil {
			return err
		}

		if err := q.SeedAppProfile(ctx, prior.InstanceName, prior.HTTPPort); err != nil {
			return err
		}
		if err := q.SeedEngineProfile(ctx, &types.EngineProfile{}); err != nil {
			return err
		}
		if err := q.SeedFsPolicy(ctx, priorPolicy.LibraryRoot); err != nil {
			return err
		}
		return nil
	})
}
