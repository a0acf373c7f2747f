package problem

import "github.com/gin-gonic/gin"

// Respond writes d as application/problem+json and aborts the chain.
func Respond(c *gin.Context, d Details) {
	// gin keeps a Content-Type that is already set.
	c.Header("Content-Type", ContentType)
	c.AbortWithStatusJSON(d.Status, d)
}

// Abort attaches err to the context for the error boundary to render.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
