package tracing

// Context carries request identifiers across layers for log correlation.
type Context struct {
	RequestID     string `json:"request_id"`
	RequestSource string `json:"request_source"`
}
