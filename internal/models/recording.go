package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// RecordingStatus represents the transcription lifecycle state of a recording
type RecordingStatus string

const (
	StatusPending  RecordingStatus = "pending"
	StatusComplete RecordingStatus = "complete"
	StatusError    RecordingStatus = "error"
)

// Segment is one timed slice of a transcript
type Segment struct {
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// SegmentList is an ordered sequence of transcript segments stored as JSON
type SegmentList []Segment

// Value implements driver.Valuer interface for SegmentList
func (s SegmentList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner interface for SegmentList
func (s *SegmentList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, s)
}

// Validate checks that segments cover a non-negative, non-decreasing timeline
func (s SegmentList) Validate() error {
	for i, seg := range s {
		if seg.Start < 0 {
			return fmt.Errorf("segment %d has negative start %f", i, seg.Start)
		}
		if seg.End < seg.Start {
			return fmt.Errorf("segment %d ends at %f before it starts at %f", i, seg.End, seg.Start)
		}
		if i > 0 && seg.Start < s[i-1].Start {
			return fmt.Errorf("segment %d starts at %f before segment %d at %f", i, seg.Start, i-1, s[i-1].Start)
		}
	}
	return nil
}

// Recording represents one audio artifact and its transcription lifecycle.
// The row and its backing file are created together and deleted together.
type Recording struct {
	ID               uint      `json:"id" gorm:"primarykey"`
	OriginalFilename string    `json:"original_filename" gorm:"not null"`
	InternalFilename string    `json:"internal_filename" gorm:"uniqueIndex;not null"`
	StoragePath      string    `json:"storage_path" gorm:"not null"`
	ImportTimestamp  time.Time `json:"import_timestamp" gorm:"not null;index"`

	// Audio attributes, populated best-effort from the metadata probe
	DurationSeconds *float64 `json:"duration_seconds"`
	SampleRate      *int     `json:"sample_rate"`
	Channels        *int     `json:"channels"`
	AudioFormat     *string  `json:"audio_format"`
	FileSizeBytes   *int64   `json:"file_size_bytes"`

	TranscriptStatus   RecordingStatus `json:"transcript_status" gorm:"default:'pending';index"`
	TranscriptText     *string         `json:"transcript_text" gorm:"type:text"`
	TranscriptSegments SegmentList     `json:"transcript_segments" gorm:"type:json"`
	TranscriptLanguage *string         `json:"transcript_language"`

	// Per-recording overrides; when set they supersede the global defaults
	TranscriptionModel    *string `json:"transcription_model"`
	TranscriptionLanguage *string `json:"transcription_language"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Recording
func (Recording) TableName() string {
	return "recordings"
}
