package middlewares

const (
	ctxUserIDKey = "auth.userID"
	ctxEmailKey  = "auth.email"

	// CtxRequestID is shared with the request logger and respond helpers.
	CtxRequestID = "request_id"
)
