package main

import (
	"context"
	"log"
	"time"

	"anoa.com/freelancehub/internal/bootstrap"
	"anoa.com/freelancehub/internal/config"
	"anoa.com/freelancehub/internal/server"
	"anoa.com/freelancehub/pkg/database"
	"anoa.com/freelancehub/pkg/mailer"
	"anoa.com/freelancehub/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(database.Config{
		URL:      cfg.DatabaseURL,
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
		Debug:    cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.IsDevelopment() {
		if err := bootstrap.SeedAdminUser(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	srv := server.NewServer(cfg, server.Deps{
		DB:      db,
		Redis:   connectRedis(cfg.RedisURL),
		Mailer:  newMailer(cfg),
		Storage: newStorage(cfg),
	})

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func connectRedis(url string) *redis.Client {
	if url == "" {
		log.Println("REDIS_URL not set, realtime notifications and rate limiting disabled")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unreachable, continuing without it: %v", err)
		_ = client.Close()
		return nil
	}
	return client
}

func newMailer(cfg *config.Config) mailer.Mailer {
	if cfg.SMTPUsername == "" && cfg.IsDevelopment() {
		log.Println("SMTP_USERNAME not set, emails are kept in memory")
		return mailer.NewMemory(cfg.SMTPFrom)
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
}

func newStorage(cfg *config.Config) storage.FileStorage {
	files, err := storage.NewCloudinaryStorage(storage.CloudinaryConfig{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	})
	if err != nil {
		log.Printf("file storage unavailable, uploads disabled: %v", err)
		return nil
	}
	return files
}
