package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mnemovox/recorder/internal/models"
)

// WhisperEngine shells out to whisper-cli (whisper.cpp) and parses its JSON
// output. GPU versus CPU execution is the binary's concern, not ours.
type WhisperEngine struct {
	binPath  string
	modelDir string
	timeout  time.Duration
}

// NewWhisperEngine creates a whisper.cpp backed engine. A zero timeout means
// no per-job timeout is applied.
func NewWhisperEngine(binPath, modelDir string, timeout time.Duration) *WhisperEngine {
	if binPath == "" {
		binPath = "whisper-cli"
	}
	return &WhisperEngine{binPath: binPath, modelDir: modelDir, timeout: timeout}
}

// ValidateBinary checks that the whisper binary is available
func (e *WhisperEngine) ValidateBinary() error {
	if _, err := exec.LookPath(e.binPath); err != nil {
		return fmt.Errorf("whisper binary not found: %s", e.binPath)
	}
	return nil
}

// Transcribe runs whisper-cli against the audio file and parses the result
func (e *WhisperEngine) Transcribe(ctx context.Context, audioPath, model, language string) (*Result, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	outDir, err := os.MkdirTemp("", "whisper-out-")
	if err != nil {
		return nil, fmt.Errorf("creating whisper output dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(outDir) }()

	outBase := filepath.Join(outDir, "result")

	if language == "" {
		language = "auto"
	}

	args := []string{
		"-m", e.modelFile(model),
		"-f", audioPath,
		"-l", language,
		"-oj",
		"-of", outBase,
	}

	cmd := exec.CommandContext(ctx, e.binPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("whisper failed for %s: %w (stderr: %s)", audioPath, err, strings.TrimSpace(stderr.String()))
	}

	raw, err := os.ReadFile(outBase + ".json")
	if err != nil {
		return nil, fmt.Errorf("reading whisper output for %s: %w", audioPath, err)
	}

	return parseWhisperOutput(raw)
}

// modelFile resolves a model name like "base.en" to the ggml file on disk.
// A name that already looks like a path is used as-is.
func (e *WhisperEngine) modelFile(model string) string {
	if strings.ContainsRune(model, os.PathSeparator) || strings.HasSuffix(model, ".bin") {
		return model
	}
	return filepath.Join(e.modelDir, fmt.Sprintf("ggml-%s.bin", model))
}

// whisperOutput mirrors the JSON whisper-cli emits with -oj
type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"` // milliseconds
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func parseWhisperOutput(raw []byte) (*Result, error) {
	var output whisperOutput
	if err := json.Unmarshal(raw, &output); err != nil {
		return nil, fmt.Errorf("parsing whisper output: %w", err)
	}

	segments := make(models.SegmentList, 0, len(output.Transcription))
	var text strings.Builder
	for _, seg := range output.Transcription {
		trimmed := strings.TrimSpace(seg.Text)
		if trimmed == "" {
			continue
		}
		if text.Len() > 0 {
			text.WriteByte(' ')
		}
		text.WriteString(trimmed)
		segments = append(segments, models.Segment{
			Start: float64(seg.Offsets.From) / 1000.0,
			End:   float64(seg.Offsets.To) / 1000.0,
			Text:  trimmed,
		})
	}

	if err := segments.Validate(); err != nil {
		return nil, fmt.Errorf("whisper produced an inconsistent timeline: %w", err)
	}

	return &Result{
		Text:     text.String(),
		Segments: segments,
		Language: output.Result.Language,
	}, nil
}
