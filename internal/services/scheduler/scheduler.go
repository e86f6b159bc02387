package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mnemovox/recorder/internal/models"
	"github.com/mnemovox/recorder/internal/services/transcriber"
)

// Store is the slice of the recording store the scheduler mutates
type Store interface {
	ListByStatus(ctx context.Context, status models.RecordingStatus) ([]models.Recording, error)
	CompleteTranscription(ctx context.Context, id uint, text string, segments models.SegmentList, language string) error
	FailTranscription(ctx context.Context, id uint) error
}

// Config holds the scheduler's immutable configuration. Defaults are passed
// in explicitly rather than read from process-wide state so tests can vary
// them per instance.
type Config struct {
	StorageRoot     string
	DefaultModel    string
	DefaultLanguage string // "auto" means let the engine detect
	MaxConcurrent   int
	PollInterval    time.Duration
}

// PendingJob is one row of the pending snapshot
type PendingJob struct {
	ID          uint
	StoragePath string
	Model       *string
	Language    *string
}

// Scheduler drains pending recordings through the transcription engine
// under a fixed concurrency bound and leaves every processed row in a
// terminal, index-consistent state.
type Scheduler struct {
	store   Store
	engine  transcriber.Engine
	cfg     Config
	slots   chan struct{}
	trigger chan struct{}
}

// New creates a scheduler. A concurrency bound below 1 is clamped to 1.
func New(store Store, engine transcriber.Engine, cfg Config) *Scheduler {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}
	return &Scheduler{
		store:   store,
		engine:  engine,
		cfg:     cfg,
		slots:   make(chan struct{}, cfg.MaxConcurrent),
		trigger: make(chan struct{}, 1),
	}
}

// RunOnce snapshots the currently pending rows and drains them. Rows that
// become pending after the snapshot wait for the next invocation. Per-job
// failures are recorded as row state, never returned; only infrastructure
// errors (the store being unreachable) surface to the caller.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	pending, err := s.store.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return fmt.Errorf("listing pending recordings: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	jobs := make([]PendingJob, 0, len(pending))
	for _, rec := range pending {
		jobs = append(jobs, PendingJob{
			ID:          rec.ID,
			StoragePath: rec.StoragePath,
			Model:       rec.TranscriptionModel,
			Language:    rec.TranscriptionLanguage,
		})
	}

	log.Printf("Scheduler processing %d pending recording(s)", len(jobs))

	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func(job PendingJob) {
			defer wg.Done()

			select {
			case s.slots <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-s.slots }()

			s.process(ctx, job)
		}(job)
	}
	wg.Wait()

	return nil
}

// Run ticks RunOnce on the poll interval until the context is cancelled.
// Trigger() nudges it without waiting for the next tick.
func (s *Scheduler) Run(ctx context.Context) {
	log.Printf("Scheduler started (max %d concurrent, poll every %s)", s.cfg.MaxConcurrent, s.cfg.PollInterval)
	defer log.Printf("Scheduler stopped")

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	// Drain whatever was pending at startup before the first tick
	if err := s.RunOnce(ctx); err != nil {
		log.Printf("Scheduler run failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-s.trigger:
		}

		if err := s.RunOnce(ctx); err != nil {
			log.Printf("Scheduler run failed: %v", err)
		}
	}
}

// Trigger nudges the run loop without blocking. A nudge while one is
// already queued is dropped.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// process runs a single job inside an acquired slot
func (s *Scheduler) process(ctx context.Context, job PendingJob) {
	model, language := s.resolveOverrides(job)

	audioPath := filepath.Join(s.cfg.StorageRoot, job.StoragePath)
	if _, err := os.Stat(audioPath); err != nil {
		log.Printf("Audio file not found for recording %d: %s", job.ID, audioPath)
		s.fail(ctx, job.ID)
		return
	}

	result, err := s.engine.Transcribe(ctx, audioPath, model, language)
	if err != nil {
		log.Printf("Transcription failed for recording %d: %v", job.ID, err)
		s.fail(ctx, job.ID)
		return
	}

	if err := s.store.CompleteTranscription(ctx, job.ID, result.Text, result.Segments, result.Language); err != nil {
		log.Printf("Failed to store transcription for recording %d: %v", job.ID, err)
		s.fail(ctx, job.ID)
		return
	}

	log.Printf("Transcription completed for recording %d: %d segment(s), lang %s", job.ID, len(result.Segments), result.Language)
}

// resolveOverrides picks the effective model and language for a job: the
// row's override when set, else the global default. The "auto" sentinel
// collapses to "no hint" so the engine auto-detects.
func (s *Scheduler) resolveOverrides(job PendingJob) (model, language string) {
	model = s.cfg.DefaultModel
	if job.Model != nil && *job.Model != "" {
		model = *job.Model
	}

	language = s.cfg.DefaultLanguage
	if job.Language != nil && *job.Language != "" {
		language = *job.Language
	}
	if strings.EqualFold(language, "auto") {
		language = ""
	}

	return model, language
}

func (s *Scheduler) fail(ctx context.Context, id uint) {
	if err := s.store.FailTranscription(ctx, id); err != nil {
		log.Printf("Failed to mark recording %d as error: %v", id, err)
	}
}
