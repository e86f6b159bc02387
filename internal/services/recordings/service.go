package recordings

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mnemovox/recorder/internal/models"
	"github.com/mnemovox/recorder/internal/search"
)

// service implements the Service interface
type service struct {
	repo        Repository
	index       *search.Index
	storageRoot string
}

// NewService creates a new recording service
func NewService(repo Repository, index *search.Index, storageRoot string) Service {
	return &service{repo: repo, index: index, storageRoot: storageRoot}
}

// Create persists a new recording row
func (s *service) Create(ctx context.Context, recording *models.Recording) error {
	if recording == nil {
		return errors.New("recording cannot be nil")
	}
	if recording.TranscriptStatus == "" {
		recording.TranscriptStatus = models.StatusPending
	}
	return s.repo.Create(ctx, recording)
}

// Get retrieves a recording by ID
func (s *service) Get(ctx context.Context, id uint) (*models.Recording, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns one page of recordings plus the total count
func (s *service) List(ctx context.Context, page, perPage int) ([]models.Recording, int64, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * perPage
	return s.repo.List(ctx, offset, perPage)
}

// ListByStatus returns all recordings in the given lifecycle state
func (s *service) ListByStatus(ctx context.Context, status models.RecordingStatus) ([]models.Recording, error) {
	return s.repo.ListByStatus(ctx, status)
}

// CompleteTranscription writes a successful result and syncs the index.
// The index sync is not skippable: a complete row without an index entry is
// invisible to search, which is exactly the defect this layering prevents.
func (s *service) CompleteTranscription(ctx context.Context, id uint, text string, segments models.SegmentList, language string) error {
	if err := segments.Validate(); err != nil {
		return fmt.Errorf("rejecting transcription result for recording %d: %w", id, err)
	}

	recording, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	recording.TranscriptStatus = models.StatusComplete
	recording.TranscriptText = &text
	recording.TranscriptSegments = segments
	recording.TranscriptLanguage = &language
	recording.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, recording); err != nil {
		return fmt.Errorf("updating recording %d: %w", id, err)
	}

	return s.SyncIndex(ctx, id)
}

// FailTranscription moves the row to error. Transcript fields stay null and
// the search index is not touched.
func (s *service) FailTranscription(ctx context.Context, id uint) error {
	recording, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	recording.TranscriptStatus = models.StatusError
	recording.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, recording)
}

// ResetForRetranscription moves a row back to pending and clears transcript
// fields. Audio metadata and storage location are preserved; overrides are
// applied only when supplied. Any stale index entry is left in place until
// the next successful sync. Resetting an already-pending row is accepted.
func (s *service) ResetForRetranscription(ctx context.Context, id uint, model, language *string) (models.RecordingStatus, error) {
	recording, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	previous := recording.TranscriptStatus

	recording.TranscriptStatus = models.StatusPending
	recording.TranscriptText = nil
	recording.TranscriptSegments = nil
	recording.TranscriptLanguage = nil
	recording.UpdatedAt = time.Now().UTC()

	if model != nil {
		recording.TranscriptionModel = model
	}
	if language != nil {
		recording.TranscriptionLanguage = language
	}

	if err := s.repo.Update(ctx, recording); err != nil {
		return "", err
	}

	return previous, nil
}

// SyncIndex reconciles the index entry for one recording: remove whatever is
// there, then insert a fresh entry iff the row is currently complete. Calling
// it twice in a row leaves exactly one entry, never two.
func (s *service) SyncIndex(ctx context.Context, id uint) error {
	recording, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.index.Remove(id); err != nil {
		return fmt.Errorf("removing index entry for recording %d: %w", id, err)
	}

	if recording.TranscriptStatus != models.StatusComplete {
		return nil
	}

	transcript := ""
	if recording.TranscriptText != nil {
		transcript = *recording.TranscriptText
	}

	if err := s.index.Upsert(id, recording.OriginalFilename, transcript); err != nil {
		return fmt.Errorf("indexing recording %d: %w", id, err)
	}

	return nil
}

// Delete removes the row, its index entry and its backing file. A missing
// file does not block the deletion.
func (s *service) Delete(ctx context.Context, id uint) error {
	recording, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.index.Remove(id); err != nil {
		log.Printf("Failed to remove recording %d from search index: %v", id, err)
	}

	fullPath := filepath.Join(s.storageRoot, recording.StoragePath)
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			log.Printf("File already missing during deletion of recording %d: %s", id, fullPath)
		} else {
			log.Printf("Failed to delete file %s for recording %d: %v", fullPath, id, err)
		}
	}

	return s.repo.Delete(ctx, id)
}

// Search runs a ranked full-text query and resolves hits back to rows.
// Rows that are no longer complete are filtered out defensively.
func (s *service) Search(ctx context.Context, term string, page, perPage int) ([]SearchResult, int64, error) {
	if page < 1 {
		page = 1
	}
	from := (page - 1) * perPage

	found, err := s.index.Search(term, from, perPage)
	if err != nil {
		return nil, 0, err
	}

	results := make([]SearchResult, 0, len(found.Hits))
	for _, hit := range found.Hits {
		recording, getErr := s.repo.GetByID(ctx, hit.RecordingID)
		if getErr != nil {
			if errors.Is(getErr, ErrRecordingNotFound) {
				continue
			}
			return nil, 0, getErr
		}
		if recording.TranscriptStatus != models.StatusComplete || recording.TranscriptText == nil {
			continue
		}

		var excerpts []string
		for _, fragments := range hit.Fragments {
			excerpts = append(excerpts, fragments...)
		}

		results = append(results, SearchResult{
			ID:               recording.ID,
			OriginalFilename: recording.OriginalFilename,
			TranscriptText:   *recording.TranscriptText,
			Excerpts:         excerpts,
			Score:            hit.Score,
		})
	}

	return results, int64(found.Total), nil
}
