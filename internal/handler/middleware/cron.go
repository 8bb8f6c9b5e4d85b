package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"exoterior-booking/internal/handler/httperr"
	"exoterior-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

var errUnauthorized = errs.New("missing or invalid cron secret")

// RequireCronSecret is a no-op when secret is empty.
func RequireCronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthorized, "Unauthorized")
			return
		}
		c.Next()
	}
}
