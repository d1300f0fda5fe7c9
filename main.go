package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voyago/voyago/internal/adapter/amadeus"
	"github.com/voyago/voyago/internal/adapter/llm"
	"github.com/voyago/voyago/internal/config"
	store "github.com/voyago/voyago/internal/repository"
	"github.com/voyago/voyago/internal/service"
	"github.com/voyago/voyago/internal/tools"
	httptransport "github.com/voyago/voyago/internal/transport/http"
	"github.com/voyago/voyago/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting voyago...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("LLM URL: %s", cfg.LLMBaseURL)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize inventory client with its token source
	tokenSource := amadeus.NewTokenSource(cfg.AmadeusBaseURL, cfg.AmadeusClientID, cfg.AmadeusClientSecret, 10*time.Second)
	inventory := amadeus.NewClient(cfg.AmadeusBaseURL, tokenSource, 30*time.Second)

	// Initialize tool registry
	registry := tools.NewTravelRegistry(inventory)

	// Initialize chat client (nil when unconfigured; chat endpoints serve 503)
	chatClient := llm.NewChatClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMTimeout)

	// Initialize policy engine
	ctx := context.Background()
	policyContent := policy.DefaultPolicy
	if cfg.PolicyFile != "" {
		data, err := os.ReadFile(cfg.PolicyFile)
		if err != nil {
			log.Fatalf("Failed to read policy file: %v", err)
		}
		policyContent = string(data)
	}
	policyEngine, err := policy.NewEngine(ctx, policyContent)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize service
	svc := service.New(db, chatClient, registry, policyEngine, cfg)

	// Create HTTP server
	server := httptransport.NewServer(svc)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down voyago...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("voyago stopped")
}
