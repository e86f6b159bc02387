// Package ingest moves files dropped into the upload directory to their
// partitioned storage location and registers them for transcription.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mnemovox/recorder/internal/models"
	"github.com/mnemovox/recorder/internal/services/recordings"
	"github.com/mnemovox/recorder/pkg/audio"
)

// Prober extracts metadata from a candidate audio file before it is admitted
type Prober interface {
	Probe(ctx context.Context, filePath string) (*audio.Metadata, error)
}

// Notifier is nudged after each successful admission so pending work is
// picked up without waiting for the next poll
type Notifier interface {
	Trigger()
}

// validExtensions are the audio containers the pipeline accepts
var validExtensions = map[string]bool{
	".wav": true,
	".mp3": true,
	".m4a": true,
}

// Watcher observes the upload directory and admits dropped audio files
// into partitioned storage with a pending database row.
type Watcher struct {
	service     recordings.Service
	prober      Prober
	notifier    Notifier
	watchDir    string
	storageRoot string
}

// NewWatcher creates a watcher over watchDir that moves admitted files under
// storageRoot. The notifier may be nil when nothing needs waking.
func NewWatcher(service recordings.Service, prober Prober, notifier Notifier, watchDir, storageRoot string) *Watcher {
	return &Watcher{
		service:     service,
		prober:      prober,
		notifier:    notifier,
		watchDir:    watchDir,
		storageRoot: storageRoot,
	}
}

// Run watches the upload directory until the context is cancelled. Files
// already present at startup are swept first so a restart loses nothing.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating filesystem watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.watchDir); err != nil {
		return fmt.Errorf("watching %s: %w", w.watchDir, err)
	}

	w.sweepExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			w.handleCandidate(ctx, event.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("[ERROR] Watcher error: %v", err)
		}
	}
}

// sweepExisting admits files that were dropped while the watcher was down
func (w *Watcher) sweepExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.watchDir)
	if err != nil {
		log.Printf("[ERROR] Failed to read watch directory %s: %v", w.watchDir, err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.handleCandidate(ctx, filepath.Join(w.watchDir, entry.Name()))
	}
}

func (w *Watcher) handleCandidate(ctx context.Context, path string) {
	if !validExtensions[strings.ToLower(filepath.Ext(path))] {
		return
	}
	if err := w.ProcessFile(ctx, path); err != nil {
		log.Printf("[ERROR] Failed to ingest %s: %v", path, err)
	}
}

// ProcessFile admits one file: probe, mint an internal name, move it into
// the date partition, and create the pending row. The probe runs against the
// source path first so an unreadable file is left in place for inspection.
func (w *Watcher) ProcessFile(ctx context.Context, srcPath string) error {
	// Editors and uploaders fire multiple events per file; the file may
	// already be gone by the time a later event arrives.
	if _, err := os.Stat(srcPath); os.IsNotExist(err) {
		return nil
	}

	meta, err := w.prober.Probe(ctx, srcPath)
	if err != nil {
		return fmt.Errorf("probing %s: %w", srcPath, err)
	}

	originalName := filepath.Base(srcPath)
	internalName := audio.GenerateInternalFilename(originalName)

	now := time.Now()
	partition := filepath.Join(now.Format("2006"), now.Format("2006-01-02"))
	destDir := filepath.Join(w.storageRoot, partition)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("creating partition directory: %w", err)
	}

	destPath := filepath.Join(destDir, internalName)
	if err := moveFile(srcPath, destPath); err != nil {
		return fmt.Errorf("moving into storage: %w", err)
	}

	recording := &models.Recording{
		OriginalFilename: originalName,
		InternalFilename: internalName,
		StoragePath:      filepath.ToSlash(filepath.Join(partition, internalName)),
		ImportTimestamp:  now,
		DurationSeconds:  &meta.Duration,
		SampleRate:       &meta.SampleRate,
		Channels:         &meta.Channels,
		AudioFormat:      &meta.Codec,
		FileSizeBytes:    &meta.Size,
		TranscriptStatus: models.StatusPending,
	}

	if err := w.service.Create(ctx, recording); err != nil {
		// The file is already in storage; a later restart re-creates the
		// row only if the file is moved back, so log loudly.
		return fmt.Errorf("creating recording row for %s: %w", internalName, err)
	}

	log.Printf("[INFO] Ingested %s as %s", originalName, recording.StoragePath)

	if w.notifier != nil {
		w.notifier.Trigger()
	}
	return nil
}

// moveFile renames src to dst, falling back to copy-and-delete when the
// two paths live on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	in.Close()
	return os.Remove(src)
}
