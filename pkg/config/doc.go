/*
Package config is Revaer's configuration facade (C4): the single
transactional entry point onto AppProfile, EngineProfile, and FsPolicy,
plus the setup-token and API-key lifecycle that gates the Setup→Active
transition and request authentication.

The facade holds no persistent in-memory copy of settings (spec §5):
every operation opens a store.Queries bound either directly to the pool
or to a fresh transaction, reads, and returns. What looks like "facade
state" — watcher reattachment, the argon2id hasher, the AES secrets
manager — is all either stateless or owns exactly the narrow runtime
state spec §5 calls out (the watcher's single LISTEN connection).

# Operations

  - Snapshot reads all three singletons and derives EngineEffective, the
    normalized view runtime consumers actually use.
  - Watch layers a change-stream on top of Snapshot: LISTEN/NOTIFY when
    available, periodic revision polling as a fallback, with automatic
    reattachment — see watch.go for the exact state machine.
  - ApplyChangeset is the only mutation path: it diffs every touched
    field against AppProfile.ImmutableKeys, validates with pkg/validate,
    normalizes the engine profile, and commits only if something
    actually changed.
  - IssueSetupToken/ConsumeSetupToken drive the one-way Setup→Active
    transition; AuthenticateApiKey and HasApiKeys back pkg/auth's
    per-request credential resolution.
  - FactoryReset truncates everything and re-seeds fresh singleton rows.

# Integration points

  - pkg/httpapi calls Snapshot/ApplyChangeset/IssueSetupToken/
    ConsumeSetupToken/FactoryReset directly from HTTP handlers.
  - pkg/auth calls AuthenticateApiKey and RefreshApiKeyExpiry.
  - pkg/sse uses Watch's snapshot stream to know when to re-derive
    subscriber-visible state (e.g. a changed FsPolicy affecting where
    artifacts land).
  - pkg/fsops reads FsPolicy via Snapshot before each run.
*/
package config
