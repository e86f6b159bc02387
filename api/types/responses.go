package types

import (
	"github.com/mnemovox/recorder/internal/models"
	"github.com/mnemovox/recorder/internal/services/recordings"
)

// Status constants for API responses
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusAccepted = "accepted"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`  // One of the Status constants above
	Message string `json:"message"` // Human-readable message
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// RecordingsResponse for paginated recording lists
type RecordingsResponse struct {
	BaseResponse
	Recordings []models.Recording `json:"recordings"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
	Count      int                `json:"count"` // Number of results in this response
	Total      int64              `json:"total"` // Total rows available
}

// SingleRecordingResponse for getting one recording
type SingleRecordingResponse struct {
	BaseResponse
	Recording *models.Recording `json:"recording"`
}

// SegmentsResponse for a recording's transcript segments
type SegmentsResponse struct {
	BaseResponse
	RecordingID      uint               `json:"recording_id"`
	TranscriptStatus string             `json:"transcript_status"`
	Segments         models.SegmentList `json:"segments"`
}

// UploadResponse acknowledges an accepted upload
type UploadResponse struct {
	BaseResponse
	OriginalFilename string `json:"original_filename"`
}

// TranscribeResponse acknowledges a queued re-transcription
type TranscribeResponse struct {
	BaseResponse
	RecordingID    uint   `json:"recording_id"`
	PreviousStatus string `json:"previous_status"`
}

// SearchResponse for full-text search results
type SearchResponse struct {
	BaseResponse
	Query   string                    `json:"query"`
	Results []recordings.SearchResult `json:"results"`
	Page    int                       `json:"page"`
	PerPage int                       `json:"per_page"`
	Count   int                       `json:"count"`
	Total   int64                     `json:"total"`
}
