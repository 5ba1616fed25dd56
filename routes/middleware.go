package routes

import (
	"github.com/centros-finder/helpers/utils"
	"github.com/gin-gonic/gin"
)

// RequestID keeps a valid incoming X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(utils.RequestIDHeader)
		if !utils.IsUUID(id) {
			id = utils.GenerateUUID()
		}
		c.Set(utils.RequestIDKey, id)
		c.Header(utils.RequestIDHeader, id)
		c.Next()
	}
}
