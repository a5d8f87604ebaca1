package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lumenite-labs/ragcore/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	ingestionService  driving.IngestionService
	chatService       driving.ChatService
	suggestionService driving.SuggestionService

	// Infrastructure
	db Pinger // PostgreSQL health check
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		Version:        "dev",
		AllowedOrigins: []string{"http://localhost:3000"},
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	ingestionService driving.IngestionService,
	chatService driving.ChatService,
	suggestionService driving.SuggestionService,
	db Pinger, // can be nil
) *Server {
	s := &Server{
		router:            http.NewServeMux(),
		version:           cfg.Version,
		ingestionService:  ingestionService,
		chatService:       chatService,
		suggestionService: suggestionService,
		db:                db,
	}

	cors := NewCORSMiddleware(cfg.AllowedOrigins)

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:     cors.Handler(s.router),
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: chat responses stream for as long as the
		// reasoning pipeline produces items
		IdleTimeout: 60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health endpoints
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Chat endpoints
	s.router.HandleFunc("POST /api/v1/chat/message", s.handleChatMessage)
	s.router.HandleFunc("GET /api/v1/chat/suggestions", s.handleChatSuggestions)
	s.router.HandleFunc("POST /api/v1/chat/suggestions", s.handleChatSuggestions)

	// File endpoints
	s.router.HandleFunc("POST /api/v1/files/upload", s.handleUploadFile)
	s.router.HandleFunc("POST /api/v1/files/upload-url", s.handleUploadURL)
	s.router.HandleFunc("GET /api/v1/files", s.handleListFiles)
	s.router.HandleFunc("DELETE /api/v1/files/{id}", s.handleDeleteFile)
	s.router.HandleFunc("GET /api/v1/files/indices", s.handleListIndices)
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
