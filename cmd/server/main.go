package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/3pWEBQUERY/TGND/internal/cache"
	"github.com/3pWEBQUERY/TGND/internal/config"
	"github.com/3pWEBQUERY/TGND/internal/db"
	"github.com/3pWEBQUERY/TGND/internal/feed"
	"github.com/3pWEBQUERY/TGND/internal/interaction"
	"github.com/3pWEBQUERY/TGND/internal/router"
	"github.com/3pWEBQUERY/TGND/internal/storage"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Printf("closing database: %v", err)
		}
	}()

	var rdb *redis.Client
	if cfg.RedisHost != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisHost + ":" + cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
	}

	counts, err := cache.New(1024)
	if err != nil {
		log.Fatalf("cache: %v", err)
	}

	engine := interaction.NewEngine(gdb)
	feedSvc := feed.NewService(gdb, engine, counts)

	// Post media goes to S3 when a bucket is configured; otherwise everything
	// lands on local disk next to the profile images.
	profiles := storage.NewLocalStore(filepath.Join(cfg.UploadDir, "profile-images"), cfg.PublicURL+"/uploads/profile-images")
	var media storage.BlobStore = storage.NewLocalStore(cfg.UploadDir, cfg.PublicURL+"/uploads")
	if cfg.S3BucketName != "" {
		s3Store, err := storage.NewS3Store(cfg)
		if err != nil {
			log.Fatalf("s3: %v", err)
		}
		media = s3Store
	}

	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 30 * 24 * 60 * 60, HttpOnly: true})
	r.Use(sessions.Sessions("tgnd_session", store))

	r.Static("/uploads", cfg.UploadDir)

	router.RegisterRoutes(r, router.Deps{
		DB:       gdb,
		Engine:   engine,
		Feed:     feedSvc,
		Media:    media,
		Profiles: profiles,
		Redis:    rdb,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
