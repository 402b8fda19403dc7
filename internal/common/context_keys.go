// File: internal/common/context_keys.go
package common

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
	// SessionKey is the context key for the request's *session.Session
	SessionKey = "session"
	// RequestIDKey is the context key for the request ID
	RequestIDKey = "requestID"
)
