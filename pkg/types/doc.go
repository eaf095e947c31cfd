/*
Package types defines the core data structures used throughout Revaer.

This package contains the domain model shared by the configuration facade,
the filesystem pipeline, the event bus, and the HTTP/SSE surface: the three
relational singletons (AppProfile, EngineProfile, FsPolicy), authentication
primitives (ApiKey, SetupToken, NamedSecret), the torrent status view
contract, and the on-disk filesystem-pipeline sidecar (FsOpsMeta).

# Design

  - Enums are typed strings with exported constants, matching the rest of
    this codebase's convention rather than int iota, so values round-trip
    through JSON and logs without a translation table.
  - Optional scalar fields on "Update" structs (the partial-changeset
    shapes accepted by the configuration facade) are pointers: nil means
    "leave unchanged", a non-nil pointer to a zero value is a deliberate
    reset. Optional scalars on read-model types (TorrentStatus, etc.) use
    the same convention for the same reason — nil is "not applicable",
    not "zero".
  - Nothing in this package talks to the database or the filesystem; it is
    pure data plus the small amount of pure logic (TouchedPaths, defaults)
    that has no business living closer to the transport or storage layers.

# Integration points

  - pkg/config builds ConfigSnapshot and consumes Changeset.
  - pkg/store reads/writes AppProfile/EngineProfile/FsPolicy/ApiKey/
    SetupToken/NamedSecret rows.
  - pkg/fsops reads FsPolicy and owns FsOpsMeta's on-disk lifecycle.
  - pkg/torrentapi maps TorrentStatus and related views to wire DTOs.
*/
package types
