// Package torrentapi implements the Torrent API Mapping (C9): request/
// response DTOs for torrent creation, listing, detail, selection,
// option updates, and actions, plus the TorrentEngine interface this
// module expects from the underlying protocol engine. The wire-level
// torrent protocol itself is out of scope; engine is an external
// collaborator this package only shapes an interface boundary around,
// exercised in tests by a deterministic in-memory fake.
package torrentapi
