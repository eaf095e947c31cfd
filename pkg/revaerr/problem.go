package revaerr

import (
	"errors"
	"net/http"
)

// InvalidParam is one entry of an RFC9457 problem's invalid_params list.
type InvalidParam struct {
	Pointer string `json:"pointer"`
	Message string `json:"message"`
}

// Problem is an RFC9457 "Problem Details for HTTP APIs" document.
type Problem struct {
	Type          string         `json:"type"`
	Title         string         `json:"title"`
	Status        int            `json:"status"`
	Detail        string         `json:"detail,omitempty"`
	InvalidParams []InvalidParam `json:"invalid_params,omitempty"`
}

// ToProblem maps a revaerr-typed error (or any other error) to an
// RFC9457 Problem, selecting a status code and problem type per the
// taxonomy in spec §7. Unrecognized errors map to a generic 500.
func ToProblem(err error) Problem {
	var invalidField *InvalidFieldError
	if errors.As(err, &invalidField) {
		return Problem{
			Type:   "https://revaer.dev/problems/invalid-field",
			Title:  "Invalid field",
			Status: http.StatusBadRequest,
			Detail: invalidField.Error(),
			InvalidParams: []InvalidParam{{
				Pointer: "/" + invalidField.Section + "/" + invalidField.Field,
				Message: invalidField.Reason,
			}},
		}
	}

	var immutable *ImmutableFieldError
	if errors.As(err, &immutable) {
		return Problem{
			Type:   "https://revaer.dev/problems/immutable-field",
			Title:  "Immutable field",
			Status: http.StatusBadRequest,
			Detail: immutable.Error(),
			InvalidParams: []InvalidParam{{
				Pointer: "/" + immutable.Section + "/" + immutable.Field,
				Message: "field is immutable",
			}},
		}
	}

	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return Problem{
			Type:   "https://revaer.dev/problems/" + string(conflict.Code),
			Title:  string(conflict.Code),
			Status: http.StatusConflict,
			Detail: conflict.Message,
		}
	}

	var auth *AuthError
	if errors.As(err, &auth) {
		return Problem{
			Type:   "https://revaer.dev/problems/unauthorized",
			Title:  "Unauthorized",
			Status: http.StatusUnauthorized,
			Detail: auth.Error(),
		}
	}

	var storedHashInvalid *StoredHashInvalidError
	if errors.As(err, &storedHashInvalid) {
		return Problem{
			Type:   "https://revaer.dev/problems/stored-hash-invalid",
			Title:  "Stored hash invalid",
			Status: http.StatusInternalServerError,
			Detail: storedHashInvalid.Error(),
		}
	}

	var secretHashFailed *SecretHashFailedError
	if errors.As(err, &secretHashFailed) {
		return Problem{
			Type:   "https://revaer.dev/problems/secret-hash-failed",
			Title:  "Secret hash failed",
			Status: http.StatusInternalServerError,
			Detail: secretHashFailed.Error(),
		}
	}

	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return Problem{
			Type:   "https://revaer.dev/problems/database-error",
			Title:  "Database error",
			Status: http.StatusInternalServerError,
			Detail: dbErr.Error(),
		}
	}

	var dataAccessErr *DataAccessError
	if errors.As(err, &dataAccessErr) {
		return Problem{
			Type:   "https://revaer.dev/problems/data-access-error",
			Title:  "Data access error",
			Status: http.StatusInternalServerError,
			Detail: dataAccessErr.Error(),
		}
	}

	var rateLimit *RateLimitError
	if errors.As(err, &rateLimit) {
		return Problem{
			Type:   "https://revaer.dev/problems/rate-limited",
			Title:  "Rate limited",
			Status: http.StatusTooManyRequests,
			Detail: rateLimit.Error(),
		}
	}

	var notifPayload *NotificationPayloadError
	if errors.As(err, &notifPayload) {
		return Problem{
			Type:   "https://revaer.dev/problems/notification-payload-invalid",
			Title:  "Notification payload invalid",
			Status: http.StatusInternalServerError,
			Detail: notifPayload.Error(),
		}
	}

	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return Problem{
		Type:   "https://revaer.dev/problems/internal-error",
		Title:  "Internal server error",
		Status: http.StatusInternalServerError,
		Detail: detail,
	}
}
