package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateDocument inserts a new document record in pending status and returns
// its ID.
func (db *DB) CreateDocument(ctx context.Context, userID uuid.UUID, filename string, fileSize int64, mimeType, storagePath string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.pool.Exec(ctx,
		`INSERT INTO resume_documents (id, user_id, filename, file_size, mime_type, storage_path, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, userID, filename, fileSize, mimeType, storagePath, StatusPending,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create document: %w", err)
	}
	return id, nil
}

// GetDocument loads a document by ID, scoped to its owner. Ownership is
// enforced in the query itself so a foreign document is indistinguishable
// from a missing one. Returns nil without error when no row matches.
func (db *DB) GetDocument(ctx context.Context, docID, userID uuid.UUID) (*Document, error) {
	var d Document
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, filename, file_size, mime_type, storage_path, status, error_message, created_at, updated_at
		 FROM resume_documents
		 WHERE id = $1 AND user_id = $2`,
		docID, userID,
	).Scan(&d.ID, &d.UserID, &d.Filename, &d.FileSize, &d.MimeType, &d.StoragePath, &d.Status, &d.ErrorMessage, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &d, nil
}

// ListDocuments returns the caller's documents, newest first.
func (db *DB) ListDocuments(ctx context.Context, userID uuid.UUID) ([]Document, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, filename, file_size, mime_type, storage_path, status, error_message, created_at, updated_at
		 FROM resume_documents
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.Filename, &d.FileSize, &d.MimeType, &d.StoragePath, &d.Status, &d.ErrorMessage, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// UpdateDocumentStatus moves a document to a new lifecycle status. The error
// message is cleared on success transitions and recorded on failure ones.
func (db *DB) UpdateDocumentStatus(ctx context.Context, docID uuid.UUID, status string, errorMessage *string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE resume_documents SET status = $1, error_message = $2, updated_at = NOW() WHERE id = $3`,
		status, errorMessage, docID,
	)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}
	return nil
}
