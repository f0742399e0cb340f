package httpserver

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const (
	identityKey     = "identity"
	requestIDHeader = "X-Request-ID"
)

// requireIdentity aborts with 401 unless the session cookie carries a valid
// token. It is the only gate in front of the vault routes.
func (s *HTTPServer) requireIdentity(c *gin.Context) {
	id, ok := s.auth.ResolveIdentity(c.Request)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgUnauthorized})
		return
	}
	c.Set(identityKey, id)
	c.Next()
}

func identity(c *gin.Context) auth.Identity {
	v, _ := c.Get(identityKey)
	id, _ := v.(auth.Identity)
	return id
}

// requestLogger tags each request with an id and logs it once finished.
// Bodies are never logged; they may carry secrets.
func (s *HTTPServer) requestLogger(c *gin.Context) {
	start := time.Now()

	reqID, err := common.MakeRandHexString(8)
	if err == nil {
		c.Header(requestIDHeader, reqID)
	}

	c.Next()

	s.logger.Info(c.Request.Context(), "http request",
		"request_id", reqID,
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"duration", time.Since(start),
	)
}

func (s *HTTPServer) recovery(c *gin.Context, recovered any) {
	s.logger.Error(c.Request.Context(), "panic in handler", "panic", recovered, "path", c.FullPath())
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
}
