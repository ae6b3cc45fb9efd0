package tracing

// Context carries the request identifiers attached by the tracing middleware.
type Context struct {
	RequestID     string
	RequestSource string
}
