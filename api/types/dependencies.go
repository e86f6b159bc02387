package types

import (
	"context"

	"github.com/mnemovox/recorder/internal/database"
	"github.com/mnemovox/recorder/internal/search"
	"github.com/mnemovox/recorder/internal/services/recordings"
)

// Ingestor admits an uploaded file into partitioned storage
type Ingestor interface {
	ProcessFile(ctx context.Context, path string) error
}

// TranscriptionNotifier wakes the transcription scheduler
type TranscriptionNotifier interface {
	Trigger()
}

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB               *database.DB
	RecordingService recordings.Service
	SearchIndex      *search.Index
	Ingestor         Ingestor
	Notifier         TranscriptionNotifier

	StorageRoot   string
	UploadTempDir string
	ItemsPerPage  int
}
