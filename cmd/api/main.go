package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/careerkit/internal/auth"
	"github.com/justsurfingit/careerkit/internal/config"
	"github.com/justsurfingit/careerkit/internal/database"
	"github.com/justsurfingit/careerkit/internal/handlers"
	"github.com/justsurfingit/careerkit/internal/services"
)

func main() {
	// 1. Configuration
	cfg := config.Load()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Database Connection
	db, err := database.Connect(cfg.Database.DSN, cfg.IsProduction())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// 3. Session verification against the auth service
	authenticator, err := auth.NewSupabaseAuthenticator(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.Supabase.HTTPTimeout)
	if err != nil {
		log.Fatal("Failed to configure authentication:", err)
	}

	// 4. Text generation. Without a key the server still starts; document
	// generation then answers with a configuration error.
	ctx := context.Background()
	var generator services.Generator
	llmService, err := services.NewLLMService(ctx, cfg.LLM)
	switch {
	case errors.Is(err, services.ErrGenerationNotConfigured):
		log.Printf("⚠️  %v. Document generation disabled.", err)
	case err != nil:
		log.Fatal("Failed to create LLM client:", err)
	default:
		generator = llmService
	}

	// 5. Core Services
	jobService := services.NewJobService(db)
	profileService := services.NewProfileService(db)

	emailService := services.NewEmailService(services.NewGmailClientForToken, jobService)
	emailService.SearchMaxResults = cfg.Extraction.SearchMaxResults
	emailService.MaxMessagesPerSource = cfg.Extraction.MaxMessagesPerSource
	emailService.Timeout = cfg.Extraction.Timeout

	tailorService := services.NewTailorService(profileService, generator)
	tailorService.CoverLetterLimits = cfg.LLM.CoverLetter
	tailorService.CVLimits = cfg.LLM.CV

	// 6. Router
	r := handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth:           authenticator,
		Jobs:           handlers.NewJobHandler(emailService, jobService),
		Documents:      handlers.NewDocumentHandler(tailorService),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s...", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Stopped.")
}
