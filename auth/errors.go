package auth

import "fmt"

// TransportError indicates the token request could not be sent, or its
// response could not be read. The wrapped cause is the underlying network
// failure.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("token request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError indicates the token endpoint answered with a non-success
// status. Body carries the raw response for diagnosis: authorization servers
// put the useful detail there rather than in the status line.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("token endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// MalformedResponseError indicates a success response that could not be used:
// either undecodable JSON or a payload missing the access_token field.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed token response: %s", e.Reason)
}
