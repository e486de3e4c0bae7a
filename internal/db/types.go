package db

import (
	"time"

	"github.com/google/uuid"
)

// Document lifecycle statuses. A document starts pending at upload time and
// every parse attempt ends in completed or failed; processing is never a
// resting state.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Document represents an uploaded resume file awaiting or holding extraction.
type Document struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Filename     string     `json:"filename"`
	FileSize     int64      `json:"file_size"`
	MimeType     string     `json:"mime_type"`
	StoragePath  string     `json:"storage_path"` // opaque locator into the blob store
	Status       string     `json:"status"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}
