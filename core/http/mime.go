package http

// Mime constants for the handful of content types the framework itself
// ever sets (JSON helpers, SSE upgrade, plain-text error bodies). This is
// deliberately not a general extension-to-mime lookup table — content
// negotiation is limited to one MIME per response, chosen by the handler.
const (
	MimeTextPlain       = "text/plain"
	MimeApplicationJSON = "application/json"
	MimeOctetStream     = "application/octet-stream"
	MimeEventStream     = "text/event-stream"
)
