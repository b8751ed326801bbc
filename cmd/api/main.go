package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"posts-app/controllers"
	"posts-app/db"
	"posts-app/middlewares"
	"posts-app/routes"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	config, err := db.LoadDBConfig()
	if err != nil {
		log.Fatalf("Error loading database config: %v", err)
	}

	initCtx, cancelInit := context.WithTimeout(ctx, 30*time.Second)
	conn, err := db.Open(initCtx, *config)
	cancelInit()
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer conn.Close()

	if err := db.Migrate(conn, "postgres"); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	posts := &controllers.PostsHandler{DB: conn}
	if redisCfg, ok := db.LoadRedisConfig(); ok {
		client, err := db.NewRedisClient(ctx, redisCfg)
		if err != nil {
			log.Fatalf("Error initializing Redis: %v", err)
		}
		defer client.Close()
		posts.Cache = &db.RedisCache{Client: client}
	} else {
		log.Println("REDIS_URL is not set; posts cache disabled.")
	}

	bearerToken, err := middlewares.LoadBearerTokenConfig()
	if errors.Is(err, middlewares.ErrBearerTokenUnset) {
		log.Println("BEARER_TOKEN is not set; API key check disabled.")
	}

	rateLimiter := middlewares.NewRateLimiter(middlewares.LoadRateLimit(), time.Minute)
	go rateLimiter.Cleanup(ctx, 2*time.Minute)

	handler := routes.SetupRoutes(routes.Config{
		BearerToken: bearerToken,
		Cors:        middlewares.LoadCorsConfig(),
		RateLimiter: rateLimiter,
	}, posts)

	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = ":8000"
	}

	srv := &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    100 * time.Second,
		WriteTimeout:   100 * time.Second,
		MaxHeaderBytes: 7500,
		IdleTimeout:    120 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()
	log.Printf("Server started on %s", addr)

	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %+v", err)
	}

	wg.Wait()
	log.Println("Server exited gracefully")
}
