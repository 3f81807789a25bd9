// Package main is the entry point for the business directory API.
package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stalberm/business-directory-api/internal/config"
	"github.com/stalberm/business-directory-api/internal/handlers"
	"github.com/stalberm/business-directory-api/internal/routes"
	"github.com/stalberm/business-directory-api/internal/service"
	"github.com/stalberm/business-directory-api/internal/store"
	"github.com/stalberm/business-directory-api/pkg/redis"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()

	// Blocks until the document store is reachable.
	st, err := store.Connect(context.Background(), cfg.MongoURI(), cfg.MongoDBName, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to document store")
	}

	var redisClient *goredis.Client
	if cfg.RedisEnabled() {
		client, err := redis.NewClient(cfg)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, login rate limiting disabled")
		} else {
			redisClient = client
		}
	}

	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenExpiry)
	auth := service.NewAuthService(st, hasher, tokens, log)
	policy := service.NewAuthorizationPolicy(st)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	routes.Setup(router, routes.Handlers{
		Users:      handlers.NewUserHandler(auth, policy, st, log),
		Businesses: handlers.NewBusinessHandler(st, policy, log),
		Reviews:    handlers.NewReviewHandler(st, policy, log),
		Photos:     handlers.NewPhotoHandler(st, policy, log),
		Health:     handlers.NewHealthHandler(),
	}, tokens, redisClient, cfg, log)

	log.Infof("server listening on port %s", cfg.Port)
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}
