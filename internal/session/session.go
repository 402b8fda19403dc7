// File: internal/session/session.go
package session

import (
	"local_services_backend/internal/common"

	"github.com/gin-gonic/gin"
)

// Identity is what the identity provider tells us about the caller.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Session is the per-request view of who is calling. It is built by the auth
// middleware and handed explicitly to services; a nil *Session is anonymous.
type Session struct {
	identity *Identity
}

// Anonymous returns a session with no identity.
func Anonymous() *Session {
	return &Session{}
}

// New returns an authenticated session for id.
func New(id Identity) *Session {
	return &Session{identity: &id}
}

// Authenticated reports whether the session carries an identity.
func (s *Session) Authenticated() bool {
	return s != nil && s.identity != nil && s.identity.UserID != ""
}

// UserID returns the caller's id, or "" when anonymous.
func (s *Session) UserID() string {
	if !s.Authenticated() {
		return ""
	}
	return s.identity.UserID
}

// Email returns the caller's email, or "" when anonymous.
func (s *Session) Email() string {
	if !s.Authenticated() {
		return ""
	}
	return s.identity.Email
}

// Identity returns a copy of the caller's identity.
func (s *Session) Identity() (Identity, bool) {
	if !s.Authenticated() {
		return Identity{}, false
	}
	return *s.identity, true
}

// Set stores s on the gin context.
func Set(c *gin.Context, s *Session) {
	c.Set(common.SessionKey, s)
}

// FromContext returns the session stored by the auth middleware, or an anonymous one.
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(common.SessionKey); ok {
		if s, ok := v.(*Session); ok && s != nil {
			return s
		}
	}
	return Anonymous()
}
