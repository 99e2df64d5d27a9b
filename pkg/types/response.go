package types

// SuccessEnvelope wraps every successful API payload under a "data" key so
// clients can decode errors and successes with the same top-level shape.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire form of a failed request. Code matches the error codes
// in pkg/errors; Message is populated only for client-fault codes.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
