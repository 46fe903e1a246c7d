package dramaapi

import "fmt"

// NetworkError reports a request that never produced an HTTP response.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("execute request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TransportError reports a response whose status is outside 2xx.
type TransportError struct {
	URL        string
	Status     int
	StatusText string
	// BodyPrefix holds at most the first 200 characters of the body.
	BodyPrefix string
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("HTTP %d %s", e.Status, e.StatusText)
	if e.BodyPrefix != "" {
		msg += ": " + e.BodyPrefix
	}
	return msg
}

// DecodeError reports a 2xx response whose body is not valid JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
