package main

import (
	"context"
	"log"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/config"
	"slotskolan.se/forum/internal/entity"
	categoryRepo "slotskolan.se/forum/internal/modules/category/repository"
	categoryService "slotskolan.se/forum/internal/modules/category/service"
	"slotskolan.se/forum/internal/server"
	"slotskolan.se/forum/pkg/database"
	"slotskolan.se/forum/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	response.SetExposeDetails(cfg.ExposeErrorDetails)

	db, err := database.Connect(cfg.DatabaseURL, cfg.DatabaseLog)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := db.AutoMigrate(entity.Models()...); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	ctx := context.Background()
	if err := categoryService.NewCategoryService(categoryRepo.NewCategoryRepository(db)).SeedDefaults(ctx); err != nil {
		log.Fatalf("failed to seed categories: %v", err)
	}
	if cfg.IsDevelopment() {
		if err := seedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	redisClient := connectRedis(ctx, cfg.RedisURL)

	var meili meilisearch.ServiceManager
	if cfg.MeiliSearchHost != "" {
		meili = meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	} else {
		log.Println("MEILISEARCH_HOST not set, search is disabled")
	}

	srv := server.NewServer(cfg, db, redisClient, meili)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// connectRedis returns nil when redis is not configured or unreachable.
func connectRedis(ctx context.Context, url string) *redis.Client {
	if url == "" {
		log.Println("REDIS_URL not set, rate limiting and live notifications are disabled")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("redis unreachable, continuing without it: %v", err)
		client.Close()
		return nil
	}
	return client
}

func seedAdminUser(db *gorm.DB) error {
	const email = "admin@slotskolan.se"

	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := entity.User{
		Username:     "admin",
		Email:        email,
		PasswordHash: string(hashedPasswordBytes),
		Role:         entity.RoleAdmin,
	}
	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("✅ Admin user seeded successfully")
	log.Println("   Email: " + email)
	log.Println("   Password: " + password)

	return nil
}
