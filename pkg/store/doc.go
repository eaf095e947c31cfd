/*
Package store is Revaer's data access layer (C3): table definitions (via
embedded goose migrations), typed row read/write helpers, API-key and
setup-token lifecycle management, the `settings` LISTEN/NOTIFY channel,
and the factory-reset entry point.

Every row-level mutation here goes through Postgres, never an in-memory
cache — pkg/config (C4) holds no persistent copy of settings and relies
on this package to read fresh inside each transaction. Revision bumping
is a database-side concern: a BEFORE UPDATE trigger
(revaer_bump_revision, see db/migrations/00001_init.sql) assigns the next
value from a single shared sequence to whichever row was actually
written and emits a `pg_notify('settings', "<table>:<revision>:<op>")`
in the same statement, so only genuinely touched columns ever bump a
revision and the notify payload is never out of sync with what was
committed.

# Singletons vs. sets

AppProfile, EngineProfile, and FsPolicy are singleton rows (one per
table, by a fixed well-known id) stored mostly as JSONB for their nested
sections — this package never hand-rolls per-field SQL for something
like EngineProfile.Network; it reads and writes one JSONB document per
section and leaves structural validation to pkg/validate and pkg/config.
ApiKeys, SetupTokens, and NamedSecrets are true row sets.

# Transactions

ApplyInTx is the only way a caller should combine more than one write
with a single notify/revision outcome: it begins a transaction, hands
the caller a *Queries bound to it, and commits or rolls back based on
the callback's return. pkg/config's apply_changeset uses exactly one
ApplyInTx per call, per spec §4.4's "performed inside one transaction".
*/
package store
