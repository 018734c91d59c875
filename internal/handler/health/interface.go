package health

import "github.com/gin-gonic/gin"

type IHealthHandler interface {
	// Basic is the liveness check
	Basic(c *gin.Context)
	Database(c *gin.Context)
	Prices(c *gin.Context)
	Jobs(c *gin.Context)
}
