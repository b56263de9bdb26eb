package routes

import (
	"funko-catalog-api/internal/auth"
	"funko-catalog-api/internal/handlers"
	"funko-catalog-api/internal/middleware"
	"funko-catalog-api/internal/realtime"
	"funko-catalog-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	DB       *gorm.DB
	Service  *service.FunkoService
	Notifier *realtime.Notifier
	Issuer   *auth.TokenIssuer
	Logger   zerolog.Logger

	// LoginRate and LoginBurst throttle POST /api/login per client IP; zero disables it.
	LoginRate  float64
	LoginBurst int
}

func SetupRoutes(deps Dependencies) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery(), middleware.RequestLogger(deps.Logger))

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Funko Catalog API is running",
		})
	})

	funkos := handlers.NewFunkoHandler(deps.Service)
	authHandler := handlers.NewAuthHandler(deps.DB, deps.Issuer)
	ws := handlers.NewWebSocketHandler(deps.Notifier)

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		if deps.LoginRate > 0 {
			api.POST("/login", middleware.RateLimit(deps.LoginRate, deps.LoginBurst), authHandler.Login)
		} else {
			api.POST("/login", authHandler.Login)
		}

		api.GET("/funkos", funkos.List)
		api.GET("/funkos/stats", funkos.Stats)
		api.GET("/funkos/:id", funkos.Get)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware(deps.Issuer))
	{
		protectedRoutes.POST("/funkos", funkos.Create)
		protectedRoutes.PUT("/funkos/:id", funkos.Update)
		protectedRoutes.DELETE("/funkos/:id", funkos.Delete)

		protectedRoutes.GET("/ws", ws.Serve)
	}

	return ginRouter
}
