package middleware

// ErrorResponse mirrors api.ErrorResponse; api imports this package, not the reverse.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Context keys set by the middleware in this package.
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextSession   = "session"
	ContextRequestID = "requestID"
)
