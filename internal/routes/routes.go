// Package routes defines HTTP routes for the directory API.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stalberm/business-directory-api/internal/config"
	"github.com/stalberm/business-directory-api/internal/handlers"
	"github.com/stalberm/business-directory-api/internal/middleware"
	"github.com/stalberm/business-directory-api/internal/service"
)

// Handlers bundles the handler set wired by Setup.
type Handlers struct {
	Users      *handlers.UserHandler
	Businesses *handlers.BusinessHandler
	Reviews    *handlers.ReviewHandler
	Photos     *handlers.PhotoHandler
	Health     *handlers.HealthHandler
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, h Handlers, tokens service.TokenService, redisClient *goredis.Client, cfg *config.Config, log *logrus.Logger) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Metrics())

	router.GET("/health", h.Health.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuthentication(tokens)

	users := router.Group("/users")
	{
		users.POST("", middleware.OptionalAuthentication(tokens), h.Users.Register)
		users.POST("/login",
			middleware.LoginRateLimiter(redisClient, cfg.RateLimitWindow, cfg.RateLimitMax, log),
			h.Users.Login)
		users.GET("/:userid", requireAuth, h.Users.GetUser)
		users.GET("/:userid/businesses", requireAuth, h.Users.ListBusinesses)
		users.GET("/:userid/reviews", requireAuth, h.Users.ListReviews)
		users.GET("/:userid/photos", requireAuth, h.Users.ListPhotos)
	}

	businesses := router.Group("/businesses")
	{
		businesses.GET("", h.Businesses.List)
		businesses.POST("", requireAuth, h.Businesses.Create)
		businesses.GET("/:businessid", h.Businesses.Get)
		businesses.PUT("/:businessid", requireAuth, h.Businesses.Update)
		businesses.DELETE("/:businessid", requireAuth, h.Businesses.Delete)
	}

	reviews := router.Group("/reviews")
	{
		reviews.POST("", requireAuth, h.Reviews.Create)
		reviews.GET("/:reviewid", h.Reviews.Get)
		reviews.PUT("/:reviewid", requireAuth, h.Reviews.Update)
		reviews.DELETE("/:reviewid", requireAuth, h.Reviews.Delete)
	}

	photos := router.Group("/photos")
	{
		photos.POST("", requireAuth, h.Photos.Create)
		photos.GET("/:photoid", h.Photos.Get)
		photos.PUT("/:photoid", requireAuth, h.Photos.Update)
		photos.DELETE("/:photoid", requireAuth, h.Photos.Delete)
	}

	router.NoRoute(handlers.RespondNotFound)
}
