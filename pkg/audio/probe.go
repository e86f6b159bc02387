package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// Metadata represents metadata extracted from an audio file
type Metadata struct {
	Duration   float64 `json:"duration"`    // Duration in seconds
	SampleRate int     `json:"sample_rate"` // Sample rate in Hz
	Channels   int     `json:"channels"`    // Number of audio channels
	Codec      string  `json:"codec"`       // Audio codec name
	Size       int64   `json:"size"`        // File size in bytes
}

// Prober extracts audio metadata via ffprobe
type Prober struct {
	ffprobePath string
}

// NewProber creates a new Prober. An empty path defaults to "ffprobe" on PATH.
func NewProber(ffprobePath string) *Prober {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Prober{ffprobePath: ffprobePath}
}

// ffprobeOutput represents the JSON structure returned by ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
		Size     string `json:"size"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
		Duration   string `json:"duration"`
	} `json:"streams"`
}

// Probe extracts metadata from an audio file using ffprobe
func (p *Prober) Probe(ctx context.Context, filePath string) (*Metadata, error) {
	args := []string{
		"-v", "quiet",
		"-show_format",
		"-show_streams",
		"-of", "json",
		filePath,
	}

	cmd := exec.CommandContext(ctx, p.ffprobePath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed for %s: %w", filePath, err)
	}

	var output ffprobeOutput
	if err := json.Unmarshal(stdout.Bytes(), &output); err != nil {
		return nil, fmt.Errorf("parsing ffprobe output for %s: %w", filePath, err)
	}

	return parseProbeOutput(&output, filePath)
}

// parseProbeOutput converts ffprobe output to Metadata
func parseProbeOutput(output *ffprobeOutput, filePath string) (*Metadata, error) {
	metadata := &Metadata{}

	if output.Format.Duration != "" {
		if duration, err := strconv.ParseFloat(output.Format.Duration, 64); err == nil {
			metadata.Duration = duration
		}
	}

	if output.Format.Size != "" {
		if size, err := strconv.ParseInt(output.Format.Size, 10, 64); err == nil {
			metadata.Size = size
		}
	}

	// First audio stream wins
	for _, stream := range output.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		metadata.Codec = stream.CodecName
		metadata.Channels = stream.Channels

		if stream.SampleRate != "" {
			if sampleRate, err := strconv.Atoi(stream.SampleRate); err == nil {
				metadata.SampleRate = sampleRate
			}
		}

		// Use stream duration if format duration is not available
		if metadata.Duration == 0 && stream.Duration != "" {
			if duration, err := strconv.ParseFloat(stream.Duration, 64); err == nil {
				metadata.Duration = duration
			}
		}
		break
	}

	if metadata.Codec == "" {
		return nil, fmt.Errorf("no audio stream found in %s", filePath)
	}

	return metadata, nil
}
