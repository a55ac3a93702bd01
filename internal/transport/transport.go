package transport

import (
	"net/http"

	"github.com/ds124wfegd/sizefit/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	// RequestTimeout in seconds, 0 disables the deadline.
	RequestTimeout int
	MaxUploadMB    int64
}

func InitRoutes(handler *CompressionHandler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger())

	if opts.MaxUploadMB > 0 {
		router.MaxMultipartMemory = opts.MaxUploadMB << 20
	}

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Expose-Headers", "Content-Disposition, X-Size-Warning, X-Skipped-Files, X-Job-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "sizefit",
		})
	})

	api := router.Group("/", middleware.Timeout(opts.RequestTimeout))
	{
		api.POST("/process", handler.Process)
		api.POST("/batch", handler.Batch)
		api.GET("/jobs/:id", handler.GetJob)
	}

	return router
}
