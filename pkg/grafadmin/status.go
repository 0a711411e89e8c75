package grafadmin

import "net/http"

// Status is the symbolic result of an API operation. Callers branch on Status
// alone; payload fields on an outcome are meaningful only when Status is
// StatusOK.
type Status string

const (
	// StatusOK covers all 2xx responses.
	StatusOK Status = "ok"
	// StatusAccessDenied covers 401 and 403 responses.
	StatusAccessDenied Status = "access-denied"
	// StatusNotFound covers 404 responses.
	StatusNotFound Status = "not-found"
	// StatusError covers every response not mapped by another status.
	StatusError Status = "error"
	// StatusConnectionError is the retry engine's fallback after the retry
	// budget is exhausted. Treat as unavailable; retry at caller discretion.
	StatusConnectionError Status = "connection-error"

	// Endpoint-specific statuses produced through per-operation overrides.
	StatusAlreadyExists        Status = "already-exists"
	StatusInvalidData          Status = "invalid-data"
	StatusMissingMandatoryData Status = "missing-mandatory-data"
	StatusOrgNotFound          Status = "org-not-found"
	StatusUserNotFound         Status = "user-not-found"
)

// Classify maps an HTTP status code to a Status. Overrides are consulted
// first; unmatched codes fall through to the default table: 2xx is StatusOK,
// 401/403 is StatusAccessDenied, 404 is StatusNotFound, anything else is
// StatusError.
func Classify(code int, overrides map[int]Status) Status {
	if status, ok := overrides[code]; ok {
		return status
	}

	switch {
	case code >= http.StatusOK && code < http.StatusMultipleChoices:
		return StatusOK
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return StatusAccessDenied
	case code == http.StatusNotFound:
		return StatusNotFound
	default:
		return StatusError
	}
}

// ClassifyResponse resolves the status for a response that may already carry a
// symbolic status. A non-empty status (the retry engine's connection-error
// fallback) is returned unchanged; otherwise the numeric code is classified.
func ClassifyResponse(status Status, code int, overrides map[int]Status) Status {
	if status != "" {
		return status
	}

	return Classify(code, overrides)
}
