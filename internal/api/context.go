package api

import "github.com/gin-gonic/gin"

const requestIDKey = "pullconf.request_id"

func setRequestID(c *gin.Context, id string) { c.Set(requestIDKey, id) }

// RequestID returns the correlation ID assigned to this request by
// RequestIDMiddleware, or "" if the middleware wasn't installed.
func RequestID(c *gin.Context) string {
	v, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}
