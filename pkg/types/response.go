package types

// SuccessEnvelope is the uniform success payload. Meta carries advisory
// metadata such as the required-field constraints report.
type SuccessEnvelope struct {
	Data  any               `json:"data"`
	Meta  map[string]any    `json:"meta,omitempty"`
	Links map[string]string `json:"links,omitempty"`
}

// ErrorSource points at the offending attribute of a request document.
type ErrorSource struct {
	Pointer string `json:"pointer"`
}

// APIError is one entry of the uniform error envelope.
type APIError struct {
	Status string       `json:"status"`
	Title  string       `json:"title"`
	Detail string       `json:"detail,omitempty"`
	Source *ErrorSource `json:"source,omitempty"`
}

// ErrorEnvelope wraps every non-2xx response body.
type ErrorEnvelope struct {
	Errors []APIError `json:"errors"`
}
