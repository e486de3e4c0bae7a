package server

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/server/middleware"
)

// handleUpload accepts a multipart resume upload, stores the blob, and
// registers a pending document for the authenticated user.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	req := UploadRequest{
		Filename: filepath.Base(header.Filename),
		MimeType: header.Header.Get("Content-Type"),
		FileSize: int64(len(data)),
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// The locator is namespaced by owner so blobs from different users can
	// never collide, and prefixed with a fresh UUID so re-uploads of the
	// same filename keep distinct blobs.
	locator := fmt.Sprintf("%s/%s_%s", userID, uuid.New(), req.Filename)
	if err := s.blobs.Store(r.Context(), locator, data); err != nil {
		log.Printf("Error storing blob %s: %v", locator, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	docID, err := s.store.CreateDocument(r.Context(), userID, req.Filename, req.FileSize, req.MimeType, locator)
	if err != nil {
		log.Printf("Error creating document record: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to create document")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"id":       docID,
		"filename": req.Filename,
		"status":   db.StatusPending,
	})
}

// handleListDocuments returns the authenticated user's documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	docs, err := s.store.ListDocuments(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing documents for %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"documents": docs})
}

// handleGetDocument returns one document owned by the authenticated user.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	docID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	doc, err := s.store.GetDocument(r.Context(), docID, userID)
	if err != nil {
		log.Printf("Error fetching document %s: %v", docID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to fetch document")
		return
	}
	if doc == nil {
		s.errorResponse(w, http.StatusNotFound, "document not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, doc)
}

// handleParse runs the extraction pipeline for a document. Parse requests
// are rate limited per user; uploads and reads are not.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	docID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	decision := s.limiter.Allow(r.Context(), "parse:"+userID.String())
	s.setRateLimitHeaders(w, decision)
	if !decision.Allowed {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(decision.RetryAfter.Seconds())))
		s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	prof, err := s.parser.Parse(r.Context(), docID, userID)
	if err != nil {
		log.Printf("Parse failed for document %s: %v", docID, err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"document_id": docID,
		"status":      db.StatusCompleted,
		"profile":     prof,
	})
}

// handleGetProfile returns the latest stored profile for a document the
// authenticated user owns.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	docID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	// Ownership check first: a profile for someone else's document must be
	// indistinguishable from a missing document.
	doc, err := s.store.GetDocument(r.Context(), docID, userID)
	if err != nil {
		log.Printf("Error fetching document %s: %v", docID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to fetch document")
		return
	}
	if doc == nil {
		s.errorResponse(w, http.StatusNotFound, "document not found")
		return
	}

	prof, err := s.store.GetProfileByDocumentID(r.Context(), docID)
	if err != nil {
		log.Printf("Error fetching profile for document %s: %v", docID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	if prof == nil {
		s.errorResponse(w, http.StatusNotFound, "no profile for document")
		return
	}

	s.jsonResponse(w, http.StatusOK, prof)
}
