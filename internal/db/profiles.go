package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-parser/internal/profile"
)

// InsertProfile persists an extracted candidate profile for a document.
// Every call inserts a new row; a re-parse therefore produces a new record
// rather than updating in place.
func (db *DB) InsertProfile(ctx context.Context, docID uuid.UUID, p *profile.CandidateProfile) (uuid.UUID, error) {
	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal skills: %w", err)
	}
	experience, err := json.Marshal(p.Experience)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal experience: %w", err)
	}
	education, err := json.Marshal(p.Education)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal education: %w", err)
	}

	id := uuid.New()
	_, err = db.pool.Exec(ctx,
		`INSERT INTO candidate_profiles (id, document_id, full_name, email, phone, location, skills, experience, education, raw_text)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, docID, p.FullName, p.Email, p.Phone, p.Location, skills, experience, education, p.RawText,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert profile: %w", err)
	}
	return id, nil
}

// GetProfileByDocumentID returns the most recent profile for a document, or
// nil without error when the document has never been parsed successfully.
func (db *DB) GetProfileByDocumentID(ctx context.Context, docID uuid.UUID) (*profile.CandidateProfile, error) {
	var (
		p          profile.CandidateProfile
		skills     []byte
		experience []byte
		education  []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT full_name, email, phone, location, skills, experience, education, raw_text
		 FROM candidate_profiles
		 WHERE document_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		docID,
	).Scan(&p.FullName, &p.Email, &p.Phone, &p.Location, &skills, &experience, &education, &p.RawText)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if err := json.Unmarshal(skills, &p.Skills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
	}
	if err := json.Unmarshal(experience, &p.Experience); err != nil {
		return nil, fmt.Errorf("failed to unmarshal experience: %w", err)
	}
	if err := json.Unmarshal(education, &p.Education); err != nil {
		return nil, fmt.Errorf("failed to unmarshal education: %w", err)
	}
	return &p, nil
}
