package recordings

import (
	"context"
	"errors"

	"github.com/mnemovox/recorder/internal/models"
	"gorm.io/gorm"
)

// repository implements the Repository interface using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new recording repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create creates a new recording row
func (r *repository) Create(ctx context.Context, recording *models.Recording) error {
	if recording == nil {
		return errors.New("recording cannot be nil")
	}

	result := r.db.WithContext(ctx).Create(recording)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// GetByID retrieves a recording by its identity
func (r *repository) GetByID(ctx context.Context, id uint) (*models.Recording, error) {
	var recording models.Recording

	result := r.db.WithContext(ctx).First(&recording, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordingNotFound
		}
		return nil, result.Error
	}

	return &recording, nil
}

// Update updates an existing recording row
func (r *repository) Update(ctx context.Context, recording *models.Recording) error {
	if recording == nil {
		return errors.New("recording cannot be nil")
	}

	result := r.db.WithContext(ctx).Save(recording)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// Delete removes a recording row
func (r *repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Recording{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrRecordingNotFound
	}

	return nil
}

// List returns one page of recordings, newest imports first, plus the total count
func (r *repository) List(ctx context.Context, offset, limit int) ([]models.Recording, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Recording{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recordings []models.Recording
	result := r.db.WithContext(ctx).
		Order("import_timestamp DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&recordings)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return recordings, total, nil
}

// ListByStatus returns all recordings in the given lifecycle state
func (r *repository) ListByStatus(ctx context.Context, status models.RecordingStatus) ([]models.Recording, error) {
	var recordings []models.Recording

	result := r.db.WithContext(ctx).
		Where("transcript_status = ?", status).
		Order("id ASC").
		Find(&recordings)
	if result.Error != nil {
		return nil, result.Error
	}

	return recordings, nil
}

// CountCompleteWithTranscript counts rows that must have an index entry
func (r *repository) CountCompleteWithTranscript(ctx context.Context) (int64, error) {
	var count int64

	result := r.db.WithContext(ctx).Model(&models.Recording{}).
		Where("transcript_status = ? AND transcript_text IS NOT NULL", models.StatusComplete).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
