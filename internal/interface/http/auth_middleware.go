package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// apiKeyMiddleware accepts requests whose Authorization header ends with the
// configured key, so both "Bearer <key>" and a bare key pass.
func apiKeyMiddleware(apiKey string) gin.HandlerFunc {
	expected := []byte(apiKey)
	return func(c *gin.Context) {
		fields := strings.Fields(c.GetHeader("Authorization"))
		if len(fields) == 0 {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing authorization header", nil))
			return
		}
		presented := []byte(fields[len(fields)-1])
		if len(expected) == 0 || subtle.ConstantTimeCompare(presented, expected) != 1 {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid api key", nil))
			return
		}
		c.Next()
	}
}
