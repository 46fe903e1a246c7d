// Package dramaapi is the HTTP client for the short-drama catalog API.
//
// The client returns raw decoded payloads (numbers preserved as json.Number)
// and leaves shaping to the catalog package; the upstream schema is not
// stable enough to decode into fixed structs here.
//
// Two URL strategies are supported through Endpoints. In proxy mode requests
// go to a local backend (default http://localhost:8787) that hides API keys
// and CORS concerns; in direct mode they go straight to the API origin under
// /api/v1.
//
// Every request reports its progress to an optional Observer (loading, ok,
// error) and fails with one of three typed errors: NetworkError when the
// server cannot be reached, TransportError for a non-2xx status and
// DecodeError for a body that is not a single JSON value. The client never
// retries.
package dramaapi
