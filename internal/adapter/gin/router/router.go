package router

import (
	"net/http"

	"user-directory-service/internal/adapter/gin/handler"
	"user-directory-service/internal/adapter/gin/middleware"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// swaggerSpecFile is the OpenAPI document rendered by the Swagger UI.
const swaggerSpecFile = "./api/swagger/users.swagger.json"

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	userHandler *handler.UserHandler,
	rateLimiter *middleware.RateLimiter,
	corsConfig middleware.CORSConfig,
	environment string,
	log *zap.Logger,
) *gin.Engine {
	// Gin defaults to debug mode; quiet it down outside development
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(corsConfig))
	if rateLimiter != nil {
		router.Use(rateLimiter.Handler())
	}

	// Greeting endpoint
	router.GET("/", userHandler.Index)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "user-directory-service",
		})
	})

	users := router.Group("/users")
	{
		users.POST("/", userHandler.CreateUser)
		users.GET("/", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	// Swagger UI plus the raw spec file it renders
	swaggerUI := httpSwagger.Handler(
		httpSwagger.URL("/swagger/users.swagger.json"),
	)
	router.GET("/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/users.swagger.json" {
			c.File(swaggerSpecFile)
			return
		}
		swaggerUI.ServeHTTP(c.Writer, c.Request)
	})

	return router
}
