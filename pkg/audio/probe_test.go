package audio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProbeOutput(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    *Metadata
		wantErr bool
	}{
		{
			name: "wav file with format duration",
			raw: `{
				"format": {"duration": "12.500000", "size": "1102444"},
				"streams": [
					{"codec_type": "audio", "codec_name": "pcm_s16le", "sample_rate": "44100", "channels": 2}
				]
			}`,
			want: &Metadata{Duration: 12.5, SampleRate: 44100, Channels: 2, Codec: "pcm_s16le", Size: 1102444},
		},
		{
			name: "duration falls back to stream",
			raw: `{
				"format": {"size": "2048"},
				"streams": [
					{"codec_type": "audio", "codec_name": "mp3", "sample_rate": "16000", "channels": 1, "duration": "3.25"}
				]
			}`,
			want: &Metadata{Duration: 3.25, SampleRate: 16000, Channels: 1, Codec: "mp3", Size: 2048},
		},
		{
			name: "video stream skipped",
			raw: `{
				"format": {"duration": "60.0", "size": "4096"},
				"streams": [
					{"codec_type": "video", "codec_name": "h264"},
					{"codec_type": "audio", "codec_name": "aac", "sample_rate": "48000", "channels": 2}
				]
			}`,
			want: &Metadata{Duration: 60.0, SampleRate: 48000, Channels: 2, Codec: "aac", Size: 4096},
		},
		{
			name:    "no audio stream",
			raw:     `{"format": {"duration": "5.0"}, "streams": [{"codec_type": "video", "codec_name": "h264"}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output ffprobeOutput
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &output))

			got, err := parseProbeOutput(&output, "test.wav")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewProberDefaultsPath(t *testing.T) {
	p := NewProber("")
	assert.Equal(t, "ffprobe", p.ffprobePath)
}
