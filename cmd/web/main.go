package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"posts-app/client"
	"posts-app/form"
	"posts-app/ui"
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

	cfg, err := client.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading posts API config: %v", err)
	}

	api, err := client.New(cfg, &http.Client{})
	if err != nil {
		log.Fatalf("Error creating posts API client: %v", err)
	}

	controller := form.New(api, log.Default())
	go func() {
		if err := controller.Mount(ctx); err == nil {
			log.Println("Initial posts list loaded.")
		}
	}()

	addr := os.Getenv("WEB_ADDR")
	if addr == "" {
		addr = ":3000"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           (&ui.Handler{Controller: controller}).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()
	log.Printf("Form server started on %s", addr)

	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %+v", err)
	}

	wg.Wait()
	log.Println("Form server exited gracefully")
}
