// Package revaerr is Revaer's shared error taxonomy (spec §7): a small
// set of typed structs the configuration facade, filesystem pipeline,
// and HTTP surface build and wrap with fmt.Errorf's %w rather than
// communicating failure as bare strings. The HTTP layer inspects these
// with errors.As to pick a status code and RFC9457 problem type.
package revaerr

import (
	"fmt"

	"github.com/revaer/revaer/pkg/validate"
)

// InvalidFieldError is C1/C4's validation failure: a single field whose
// value was rejected.
type InvalidFieldError struct {
	Section string
	Field   string
	Value   string
	Reason  string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %s.%s: %s", e.Section, e.Field, e.Reason)
}

// FromValidateError adapts a validate.Error (C1's pure-function result)
// into the facade's InvalidFieldError without re-deriving section/field.
func FromValidateError(err *validate.Error) *InvalidFieldError {
	if err == nil {
		return nil
	}
	return &InvalidFieldError{Section: err.Section, Field: err.Field, Value: err.Value, Reason: err.Reason}
}

// ImmutableFieldError is returned when a changeset touches a field path
// matching the app profile's immutable-key set.
type ImmutableFieldError struct {
	Section string
	Field   string
}

func (e *ImmutableFieldError) Error() string {
	return fmt.Sprintf("field %s.%s is immutable", e.Section, e.Field)
}

// ConflictCode enumerates C4's conflict-class failures.
type ConflictCode string

const (
	ConflictSetupTokenMissing      ConflictCode = "SetupTokenMissing"
	ConflictSetupTokenExpired      ConflictCode = "SetupTokenExpired"
	ConflictSetupTokenInvalid      ConflictCode = "SetupTokenInvalid"
	ConflictModeAlreadyActive      ConflictCode = "ModeAlreadyActive"
	ConflictFactoryResetConfirm    ConflictCode = "FactoryResetConfirmMismatch"
	ConflictSetupRequired          ConflictCode = "SetupRequired"
)

// ConflictError is a 409-class failure: the request is well-formed but
// inadmissible given current server state.
type ConflictError struct {
	Code    ConflictCode
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(e.Code)
}

// AuthErrorReason enumerates C5's 401-class failures.
type AuthErrorReason string

const (
	AuthMissingCredential AuthErrorReason = "missing_credential"
	AuthExpiredCredential AuthErrorReason = "expired_credential"
	AuthInvalidCredential AuthErrorReason = "invalid_credential"
)

// AuthError is a 401-class authentication failure.
type AuthError struct {
	Reason AuthErrorReason
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// SecretHashFailedError wraps a failure hashing or deriving a secret
// (out-of-memory, misconfigured Argon2id parameters).
type SecretHashFailedError struct {
	Source error
}

func (e *SecretHashFailedError) Error() string {
	return fmt.Sprintf("secret hash failed: %v", e.Source)
}

func (e *SecretHashFailedError) Unwrap() error { return e.Source }

// StoredHashInvalidError is a fatal 500: a persisted PHC hash string
// does not parse. Distinct from a verified mismatch.
type StoredHashInvalidError struct {
	Context string
}

func (e *StoredHashInvalidError) Error() string {
	return fmt.Sprintf("stored hash invalid: %s", e.Context)
}

// DatabaseError wraps a failure from the underlying Postgres driver.
type DatabaseError struct {
	Operation string
	Source    error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database operation %q failed: %v", e.Operation, e.Source)
}

func (e *DatabaseError) Unwrap() error { return e.Source }

// DataAccessError wraps a failure at the typed row-struct layer (C3)
// above the raw driver error, e.g. a row that should exist but doesn't.
type DataAccessError struct {
	Operation string
	Source    error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access operation %q failed: %v", e.Operation, e.Source)
}

func (e *DataAccessError) Unwrap() error { return e.Source }

// NotificationPayloadError is raised when a `settings` LISTEN/NOTIFY
// payload cannot be parsed into a SettingsChange.
type NotificationPayloadError struct {
	Payload string
	Reason  string
}

func (e *NotificationPayloadError) Error() string {
	return fmt.Sprintf("invalid notification payload %q: %s", e.Payload, e.Reason)
}

// RateLimitError is a 429-class failure carrying the retry-after
// duration in seconds.
type RateLimitError struct {
	RetryAfterSeconds int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %ds", e.RetryAfterSeconds)
}
