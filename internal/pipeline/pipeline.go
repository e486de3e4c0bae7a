// Package pipeline orchestrates resume ingestion: download, text extraction,
// model invocation, normalization, and persistence with consistent status
// transitions.
package pipeline

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/extract"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/profile"
	"github.com/jonathan/resume-parser/internal/storage"
)

// MinUsableTextLength is the threshold below which extracted text is too thin
// to justify a model call. Insufficient content is a normal low-information
// outcome, not an error.
const MinUsableTextLength = 20

// DocumentStore is the datastore surface the orchestrator needs. *db.DB
// satisfies it; tests substitute stubs.
type DocumentStore interface {
	GetDocument(ctx context.Context, docID, userID uuid.UUID) (*db.Document, error)
	UpdateDocumentStatus(ctx context.Context, docID uuid.UUID, status string, errorMessage *string) error
	InsertProfile(ctx context.Context, docID uuid.UUID, p *profile.CandidateProfile) (uuid.UUID, error)
}

// Parser runs the ingestion state machine for one document per invocation.
// Invocations for different documents are independent; the datastore is the
// only shared state.
type Parser struct {
	store     DocumentStore
	blobs     storage.BlobStore
	client    llm.Client
	extractor *extract.Extractor
}

// NewParser composes the pipeline from its collaborators.
func NewParser(store DocumentStore, blobs storage.BlobStore, client llm.Client, extractor *extract.Extractor) *Parser {
	if extractor == nil {
		extractor = extract.New()
	}
	return &Parser{store: store, blobs: blobs, client: client, extractor: extractor}
}

// Parse runs the full ingestion pipeline for the given document on behalf of
// the given principal. It guarantees a terminal status write for every
// invocation that gets past the ownership check: completed on the success and
// degraded paths, failed on download, configuration, and persistence
// failures. Model-side failure degrades to a raw-text-only profile rather
// than failing the document; the user still gets searchable text.
func (p *Parser) Parse(ctx context.Context, docID, ownerID uuid.UUID) (*profile.CandidateProfile, error) {
	doc, err := p.store.GetDocument(ctx, docID, ownerID)
	if err != nil {
		return nil, &PersistenceError{Op: "load document", Err: err}
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	// Best-effort transition out of pending. The terminal write below is the
	// one that must never be skipped.
	if err := p.store.UpdateDocumentStatus(ctx, docID, db.StatusProcessing, nil); err != nil {
		log.Printf("pipeline: document %s: failed to mark processing: %v", docID, err)
	}

	data, err := p.blobs.Download(ctx, doc.StoragePath)
	if err != nil {
		dlErr := &DownloadError{Locator: doc.StoragePath, Err: err}
		if ferr := p.markFailed(ctx, docID, dlErr.Error()); ferr != nil {
			return nil, ferr
		}
		return nil, dlErr
	}

	// Extraction never fails; an empty result is a valid degenerate case.
	text := p.extractor.Extract(data, doc.Filename, doc.MimeType)

	var prof *profile.CandidateProfile
	if len([]rune(text)) < MinUsableTextLength {
		prof = profile.Empty(text)
	} else {
		prof, err = p.runModel(ctx, docID, text)
		if err != nil {
			// Missing credential is the one model-stage failure that is not
			// absorbed: it is fatal configuration, never retried.
			if ferr := p.markFailed(ctx, docID, err.Error()); ferr != nil {
				return nil, ferr
			}
			return nil, err
		}
	}

	if _, err := p.store.InsertProfile(ctx, docID, prof); err != nil {
		insErr := &PersistenceError{Op: "insert profile", Err: err}
		if ferr := p.markFailed(ctx, docID, insErr.Error()); ferr != nil {
			return nil, ferr
		}
		return nil, insErr
	}

	if err := p.store.UpdateDocumentStatus(ctx, docID, db.StatusCompleted, nil); err != nil {
		log.Printf("pipeline: document %s: terminal status write failed: %v", docID, err)
		return nil, &PersistenceError{Op: "mark document completed", Err: err}
	}
	return prof, nil
}

// runModel executes prompt construction, the completion call, and
// normalization. Service and malformed-output failures degrade to a raw-text
// profile; only a missing credential is surfaced as an error.
func (p *Parser) runModel(ctx context.Context, docID uuid.UUID, text string) (*profile.CandidateProfile, error) {
	prompt := llm.BuildExtractionPrompt(text)

	out, err := p.client.GenerateJSON(ctx, prompt)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			return nil, &ConfigurationError{Err: err}
		}
		log.Printf("pipeline: document %s: completion failed, storing raw text only: %v", docID, err)
		return profile.Empty(text), nil
	}

	// Strict validation is advisory; the lenient normalizer decides.
	if err := profile.ValidateShape(llm.CleanJSONBlock(out)); err != nil {
		log.Printf("pipeline: document %s: %v", docID, err)
	}

	prof, err := profile.Normalize(out)
	if err != nil {
		log.Printf("pipeline: document %s: model output unusable, storing raw text only: %v", docID, err)
		return profile.Empty(text), nil
	}
	prof.RawText = text
	return prof, nil
}

// markFailed records the terminal failed status with an error message. A
// failure of this write is the one truly fatal condition left.
func (p *Parser) markFailed(ctx context.Context, docID uuid.UUID, msg string) error {
	if err := p.store.UpdateDocumentStatus(ctx, docID, db.StatusFailed, &msg); err != nil {
		log.Printf("pipeline: document %s: terminal status write failed: %v", docID, err)
		return &PersistenceError{Op: "mark document failed", Err: err}
	}
	return nil
}
