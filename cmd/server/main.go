package main

import (
	"log"
	"net/http"

	_ "authd/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"authd/internal/auth"
	"authd/internal/cache"
	"authd/internal/config"
	"authd/internal/db"
	"authd/internal/handler"
	"authd/internal/model"
	"authd/internal/repository"
	"authd/internal/router"
	"authd/internal/service"
)

// @title User Account & Authentication API
// @version 1.0
// @description Minimal user-account service with bearer-token authentication and an authentication attempt log.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set; refusing to start without a signing key")
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.AuthAttempt{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)
	attemptRepo := repository.NewAttemptRepository(gormDB)

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	authService := service.NewAuthService(userRepo, hasher, jwtService)
	userService := service.NewUserService(userRepo, attemptRepo, hasher, cacheClient)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	router.Register(e, cfg, authHandler, userHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
