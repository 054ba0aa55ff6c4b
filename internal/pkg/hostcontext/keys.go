package hostcontext

// Shared Locals keys used across controllers and middlewares
const (
	ContextKey = "HOST_CONTEXT"
	KeyHostID  = "host_id"
)
