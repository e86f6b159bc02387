package recordings

import (
	"context"
	"errors"

	"github.com/mnemovox/recorder/internal/models"
)

// ErrRecordingNotFound is returned when a recording does not exist
var ErrRecordingNotFound = errors.New("recording not found")

// SearchResult is one ranked full-text match with its source recording
type SearchResult struct {
	ID               uint     `json:"id"`
	OriginalFilename string   `json:"original_filename"`
	TranscriptText   string   `json:"transcript_text"`
	Excerpts         []string `json:"excerpts"`
	Score            float64  `json:"relevance_score"`
}

// Service defines the operations on the recording store and its search index
type Service interface {
	// Create persists a new recording row
	Create(ctx context.Context, recording *models.Recording) error

	// Get retrieves a recording by ID
	Get(ctx context.Context, id uint) (*models.Recording, error)

	// List returns one page of recordings ordered by import time, newest
	// first, along with the total row count
	List(ctx context.Context, page, perPage int) ([]models.Recording, int64, error)

	// ListByStatus returns all recordings in the given lifecycle state
	ListByStatus(ctx context.Context, status models.RecordingStatus) ([]models.Recording, error)

	// CompleteTranscription writes a successful transcription result, moves
	// the row to complete and syncs the search index for it
	CompleteTranscription(ctx context.Context, id uint, text string, segments models.SegmentList, language string) error

	// FailTranscription moves the row to error, leaving transcript fields
	// and the search index untouched
	FailTranscription(ctx context.Context, id uint) error

	// ResetForRetranscription moves a row back to pending, clears prior
	// transcript fields and applies any supplied overrides. Audio metadata
	// is preserved. Returns the status the row had before the reset.
	ResetForRetranscription(ctx context.Context, id uint, model, language *string) (models.RecordingStatus, error)

	// SyncIndex reconciles the search index entry for one recording with
	// the row's current state: the entry exists iff the row is complete
	SyncIndex(ctx context.Context, id uint) error

	// Delete removes the row, its index entry and its backing file.
	// File deletion is best-effort and never blocks the row deletion.
	Delete(ctx context.Context, id uint) error

	// Search runs a ranked full-text query over completed recordings
	Search(ctx context.Context, term string, page, perPage int) ([]SearchResult, int64, error)
}

// Repository defines the persistence operations for recordings
type Repository interface {
	Create(ctx context.Context, recording *models.Recording) error
	GetByID(ctx context.Context, id uint) (*models.Recording, error)
	Update(ctx context.Context, recording *models.Recording) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]models.Recording, int64, error)
	ListByStatus(ctx context.Context, status models.RecordingStatus) ([]models.Recording, error)
	CountCompleteWithTranscript(ctx context.Context) (int64, error)
}
