/*
Package validate implements Revaer's validators and normalizers (C1):
pure functions from raw, wire-shaped input to domain values or a typed
*Error{Section, Field, Value, Reason}.

Every function here is free of I/O and side effects — no filesystem
stat, no database lookup, no clock dependency beyond an explicit `now`
parameter where a check is time-relative (ApiKeyExpiry). That keeps
these checks trivially unit-testable and lets the configuration facade
(pkg/config) compose them into its own InvalidField error without
re-deriving the section/field/reason triple from a generic error string.

Two glob dialects are deliberately not unified here: GlobList rejects
malformed entries (empty strings, or anything that fails to compile
under gobwas/glob's flat dialect), and expands the @skip_fluff sentinel
into its fixed pattern family (types.SkipFluffPatterns). That syntax
gate runs once, at changeset-apply time; the resulting strings are
handed, unparsed, to pkg/fsops, which compiles them with
bmatcuk/doublestar/v4's `**`-capable dialect for the actual per-file
cleanup match at run time. gobwas/glob only ever validates; it never
matches a path in this codebase.
*/
package validate
