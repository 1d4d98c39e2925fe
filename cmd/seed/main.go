package main

import (
	"context"
	"errors"
	"log"
	"os"

	"gorm.io/gorm"

	"authd/internal/auth"
	"authd/internal/config"
	"authd/internal/db"
	"authd/internal/model"
	"authd/internal/repository"
	"authd/internal/service"
)

// Seeds an initial admin account so a fresh deployment has a usable login.
// Controlled by ADMIN_EMAIL, ADMIN_PASSWORD, ADMIN_FIRST_NAME, ADMIN_LAST_NAME.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}
	firstName := getEnv("ADMIN_FIRST_NAME", "Admin")
	lastName := os.Getenv("ADMIN_LAST_NAME")

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.AuthAttempt{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	authService := service.NewAuthService(userRepo, hasher, auth.NewJWTService(cfg.JWTSecret))

	ctx := context.Background()

	existing, err := userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check for existing admin: %v", err)
	}
	if existing != nil {
		log.Printf("Admin account %s already exists, nothing to do", email)
		return
	}

	user, err := authService.Register(ctx, service.RegisterInput{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
	})
	if err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	// Registration never grants the admin flag; promote explicitly.
	user.IsAdmin = true
	if err := userRepo.Save(ctx, user); err != nil {
		log.Fatalf("Failed to promote admin account: %v", err)
	}

	log.Printf("Seed completed successfully! Admin account: %s (%s)", user.Email, user.ID)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
