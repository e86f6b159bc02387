package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/mnemovox/recorder/internal/models"
	"github.com/mnemovox/recorder/internal/search"
	"github.com/mnemovox/recorder/internal/services/ingest"
	"github.com/mnemovox/recorder/internal/services/recordings"
	"github.com/mnemovox/recorder/internal/services/transcriber"
	"github.com/mnemovox/recorder/pkg/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// The tests in this file run a whole ingestion-to-search pass with real
// storage, a real sqlite database and a real in-memory index. Only the
// external binaries (ffprobe, whisper) are stubbed.

type fixedProber struct{}

func (fixedProber) Probe(ctx context.Context, filePath string) (*audio.Metadata, error) {
	return &audio.Metadata{Duration: 2.0, SampleRate: 16000, Channels: 1, Codec: "pcm_s16le", Size: 64000}, nil
}

type helloEngine struct{ fail bool }

func (e *helloEngine) Transcribe(ctx context.Context, audioPath, model, language string) (*transcriber.Result, error) {
	if e.fail {
		return nil, errors.New("transcription crashed")
	}
	conf := 0.9
	return &transcriber.Result{
		Text:     "hello world",
		Segments: models.SegmentList{{Start: 0.0, End: 1.0, Text: "hello world", Confidence: &conf}},
		Language: "en",
	}, nil
}

type pipeline struct {
	service recordings.Service
	index   *search.Index
	watcher *ingest.Watcher
	root    string
	watch   string
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Recording{}))

	index, err := search.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	root := t.TempDir()
	watch := t.TempDir()

	service := recordings.NewService(recordings.NewRepository(db), index, root)
	watcher := ingest.NewWatcher(service, fixedProber{}, nil, watch, root)

	return &pipeline{service: service, index: index, watcher: watcher, root: root, watch: watch}
}

func (p *pipeline) drop(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(p.watch, name)
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0644))
	return path
}

func (p *pipeline) scheduler(engine transcriber.Engine) *Scheduler {
	return New(p.service, engine, Config{
		StorageRoot:     p.root,
		DefaultModel:    "base.en",
		DefaultLanguage: "auto",
		MaxConcurrent:   2,
		PollInterval:    time.Minute,
	})
}

func TestPipelineIngestTranscribeSearch(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	require.NoError(t, p.watcher.ProcessFile(ctx, p.drop(t, "meeting.wav")))

	pending, err := p.service.ListByStatus(ctx, models.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	rec := pending[0]
	assert.Regexp(t, regexp.MustCompile(`^\d{4}/\d{4}-\d{2}-\d{2}/\d+_[0-9a-f]{8}\.wav$`), rec.StoragePath)

	require.NoError(t, p.scheduler(&helloEngine{}).RunOnce(ctx))

	got, err := p.service.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, got.TranscriptStatus)
	require.NotNil(t, got.TranscriptText)
	assert.Equal(t, "hello world", *got.TranscriptText)
	require.NotNil(t, got.TranscriptLanguage)
	assert.Equal(t, "en", *got.TranscriptLanguage)

	count, err := p.index.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	results, total, err := p.service.Search(ctx, "hello", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, rec.ID, results[0].ID)
	assert.Equal(t, "meeting.wav", results[0].OriginalFilename)
}

func TestPipelineFailureLeavesIndexEmpty(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	require.NoError(t, p.watcher.ProcessFile(ctx, p.drop(t, "broken.mp3")))

	require.NoError(t, p.scheduler(&helloEngine{fail: true}).RunOnce(ctx))

	rows, err := p.service.ListByStatus(ctx, models.StatusError)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].TranscriptText)

	count, err := p.index.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	results, total, err := p.service.Search(ctx, "hello", 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, results)
}

func TestPipelineRetranscribeReplacesIndexEntry(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	require.NoError(t, p.watcher.ProcessFile(ctx, p.drop(t, "talk.wav")))
	require.NoError(t, p.scheduler(&helloEngine{}).RunOnce(ctx))

	pendingNone, err := p.service.ListByStatus(ctx, models.StatusPending)
	require.NoError(t, err)
	require.Empty(t, pendingNone)

	complete, err := p.service.ListByStatus(ctx, models.StatusComplete)
	require.NoError(t, err)
	require.Len(t, complete, 1)
	id := complete[0].ID

	model := "medium"
	prev, err := p.service.ResetForRetranscription(ctx, id, &model, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, prev)

	require.NoError(t, p.scheduler(&helloEngine{}).RunOnce(ctx))

	// Exactly one index entry survives the second completion
	count, err := p.index.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	got, err := p.service.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, got.TranscriptStatus)
	require.NotNil(t, got.TranscriptionModel)
	assert.Equal(t, "medium", *got.TranscriptionModel)
}
