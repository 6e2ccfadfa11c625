package types

// SuccessEnvelope wraps every 2xx response body so clients always unwrap
// the same top-level "data" key regardless of endpoint.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing shape of a failed request. Code is a stable
// machine-readable string; Message may vary. Details is only populated for
// codes that allow structured payloads, such as validation field errors.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps non-2xx response bodies under a top-level "error" key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
