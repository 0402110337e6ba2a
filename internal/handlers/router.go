package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/careerkit/internal/auth"
	"github.com/justsurfingit/careerkit/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	Auth           auth.Authenticator
	Jobs           *JobHandler
	Documents      *DocumentHandler
}

// NewRouter wires CORS, auth and every route under /api/v1.
func NewRouter(rc RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	config := cors.DefaultConfig()
	if len(rc.AllowedOrigins) == 0 || (len(rc.AllowedOrigins) == 1 && rc.AllowedOrigins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = rc.AllowedOrigins
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type", "Origin", "Content-Length"}
	r.Use(cors.New(config))
	// Any preflight the CORS middleware did not answer still ends here, without a body.
	r.Use(func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)

		authed := api.Group("", middleware.RequireUser(rc.Auth))
		authed.POST("/jobs/extract-gmail", rc.Jobs.ExtractGmailJobs)
		authed.GET("/opportunities", rc.Jobs.ListOpportunities)
		authed.GET("/applications", rc.Jobs.ListApplications)
		authed.POST("/documents/generate", rc.Documents.GenerateDocuments)
	}
	return r
}
