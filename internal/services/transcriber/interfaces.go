package transcriber

import (
	"context"

	"github.com/mnemovox/recorder/internal/models"
)

// Result is a successful transcription: full text, timed segments and the
// language the engine detected (which may differ from any requested hint).
type Result struct {
	Text     string
	Segments models.SegmentList
	Language string
}

// Engine turns an audio file into a transcription result. An empty language
// means the engine should auto-detect. Failure is an error return, never a
// partial result.
type Engine interface {
	Transcribe(ctx context.Context, audioPath, model, language string) (*Result, error)
}
