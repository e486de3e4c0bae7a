// Package server provides the HTTP REST API for the resume parsing service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/profile"
	"github.com/jonathan/resume-parser/internal/server/middleware"
	"github.com/jonathan/resume-parser/internal/server/ratelimit"
	"github.com/jonathan/resume-parser/internal/storage"
)

// DocumentsStore is the subset of database operations the handlers need.
type DocumentsStore interface {
	CreateDocument(ctx context.Context, userID uuid.UUID, filename string, fileSize int64, mimeType, storagePath string) (uuid.UUID, error)
	GetDocument(ctx context.Context, docID, userID uuid.UUID) (*db.Document, error)
	ListDocuments(ctx context.Context, userID uuid.UUID) ([]db.Document, error)
	GetProfileByDocumentID(ctx context.Context, docID uuid.UUID) (*profile.CandidateProfile, error)
}

// DocumentParser runs the full parse pipeline for one document.
type DocumentParser interface {
	Parse(ctx context.Context, docID, ownerID uuid.UUID) (*profile.CandidateProfile, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	database   *db.DB
	store      DocumentsStore
	blobs      storage.BlobStore
	parser     DocumentParser
	limiter    *ratelimit.Limiter
	jwtService *JWTService
	llmClient  llm.Client
}

// New creates a new server instance
func New(cfg *config.ServerConfig) (*Server, error) {
	// Connect to database
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	blobs, err := storage.NewFSStore(cfg.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob store: %w", err)
	}

	// A missing credential is not fatal at startup: uploads and reads still
	// work, and parse requests surface the configuration failure instead.
	var client llm.Client
	if cfg.APIKey == "" {
		log.Printf("no completion-service credential configured; parse requests will fail")
		client = llm.Unconfigured()
	} else {
		client, err = llm.NewClient(context.Background(), cfg.LLM, cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create completion client: %w", err)
		}
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s := &Server{
		database:   database,
		store:      database,
		blobs:      blobs,
		parser:     pipeline.NewParser(database, blobs, client, nil),
		limiter:    ratelimit.NewLimiter(ratelimit.NewPGStore(database.Pool()), ratelimit.LoadConfig()),
		jwtService: NewJWTService(jwtConfig),
		llmClient:  client,
	}

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	authed := middleware.Auth(s.jwtService)
	mux.Handle("POST /documents", authed(http.HandlerFunc(s.handleUpload)))
	mux.Handle("GET /documents", authed(http.HandlerFunc(s.handleListDocuments)))
	mux.Handle("GET /documents/{id}", authed(http.HandlerFunc(s.handleGetDocument)))
	mux.Handle("POST /documents/{id}/parse", authed(http.HandlerFunc(s.handleParse)))
	mux.Handle("GET /documents/{id}/profile", authed(http.HandlerFunc(s.handleGetProfile)))

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Long timeout for parse requests
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
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

	if err := s.llmClient.Close(); err != nil {
		log.Printf("Error closing completion client: %v", err)
	}

	s.database.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, d ratelimit.Decision) {
	if d.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", d.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", d.Remaining))
	}
}
