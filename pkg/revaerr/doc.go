/*
Package revaerr is Revaer's shared error taxonomy: a handful of plain
structs (InvalidFieldError, ImmutableFieldError, ConflictError, AuthError,
StoredHashInvalidError, SecretHashFailedError, DatabaseError,
DataAccessError, NotificationPayloadError, RateLimitError) wrapped with
fmt.Errorf's %w along call chains and inspected at the HTTP boundary with
errors.As. This mirrors the reference stack's plain-struct-plus-wrapping
convention; no third-party errors library is introduced; see DESIGN.md
for why.

ToProblem converts any error into an RFC9457 Problem by walking the same
errors.As chain, so pkg/httpapi's handlers never duplicate the
error-to-status-code mapping — they call revaerr.ToProblem and write the
result as-is.
*/
package revaerr
