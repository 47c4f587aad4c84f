package internal

const (
	// RequestIDHeader carries a client generated id so a call can be matched
	// against the server side logs.
	RequestIDHeader = "X-Client-Request-Id"

	APIKeyMask = "********"
)
