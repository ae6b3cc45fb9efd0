package values

// Response status identifiers used across the REST facade.
const (
	Success        = "success"
	Created        = "created"
	Error          = "error"
	BadRequestBody = "bad-request-body"
	Unprocessable  = "unprocessable"
	NotAllowed     = "not-allowed"
	Conflict       = "conflict"
	NotFound       = "not-found"
	NotAuthorised  = "not-authorised"
	TokenExpired   = "token-expired"
	ActiveLogin    = "active-login"
)

const (
	HeaderRequestSource = "X-Request-Source"
	HeaderRequestID     = "X-Request-ID"
	HeaderActorID       = "X-Actor-ID"
	HeaderActorRole     = "X-Actor-Role"
)

type contextKey string

const (
	ContextTracingKey = contextKey("tracing-context")
	ContextActorKey   = contextKey("actor")
)
