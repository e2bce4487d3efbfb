// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller's session. A session stands in for the
// browser tab that owns a draft, a message cache and a status mirror; it is
// carried in the X-Session-ID header and defaults to AnonymousSession.
package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderSessionID carries the caller's session identifier.
	HeaderSessionID = "X-Session-ID"
	// AnonymousSession is used when no session header is sent.
	AnonymousSession = "anonymous"

	ctxKeySession = "sessionID"
)

var sessionPattern = regexp.MustCompile(`^[A-Za-z0-9._~:\-]{1,128}$`)

// ValidSessionID reports whether id is an acceptable session identifier.
func ValidSessionID(id string) bool { return sessionPattern.MatchString(id) }

// Session validates X-Session-ID and stores it in the context. Malformed
// values are rejected with 400.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := strings.TrimSpace(c.GetHeader(HeaderSessionID))
		if sid == "" {
			sid = AnonymousSession
		}
		if !ValidSessionID(sid) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "bad_session",
				"message":    "invalid " + HeaderSessionID,
			})
			return
		}
		c.Set(ctxKeySession, sid)
		c.Next()
	}
}

// SessionID returns the session resolved by Session, or AnonymousSession.
func SessionID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeySession); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return AnonymousSession
}
