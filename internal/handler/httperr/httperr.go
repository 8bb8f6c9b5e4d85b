package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the wire shape every rejection shares: {"error": "...", "conflict": true?}.
type Response struct {
	Status   int    `json:"-"`
	Error    string `json:"error"`
	Conflict bool   `json:"conflict,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string) {
	abort(c, err, Response{Status: status, Error: msg})
}

func AbortWithConflict(c *gin.Context, status int, err error, msg string) {
	abort(c, err, Response{Status: status, Error: msg, Conflict: true})
}

func abort(c *gin.Context, err error, resp Response) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(resp.Status, resp)
}
