package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mnemovox/recorder/api"
	"github.com/mnemovox/recorder/api/types"
	"github.com/mnemovox/recorder/internal/database"
	"github.com/mnemovox/recorder/internal/models"
	"github.com/mnemovox/recorder/internal/search"
	"github.com/mnemovox/recorder/internal/services/ingest"
	"github.com/mnemovox/recorder/internal/services/recordings"
	"github.com/mnemovox/recorder/internal/services/scheduler"
	"github.com/mnemovox/recorder/internal/services/transcriber"
	"github.com/mnemovox/recorder/pkg/audio"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recorder server",
	Long: `Start the recorder with the configured settings.

This runs the HTTP API, the directory watcher and the transcription
scheduler in one process.

Example:
  recorder serve
  recorder serve --port 9090
  recorder serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	for _, dir := range []string{cfg.Storage.Root, cfg.Storage.UploadTemp, cfg.Ingest.MonitoredDirectory} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.Recording{}); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	index, err := search.Open(cfg.Search.IndexPath)
	if err != nil {
		return fmt.Errorf("opening search index: %w", err)
	}
	defer index.Close()

	repo := recordings.NewRepository(db.DB)
	service := recordings.NewService(repo, index, cfg.Storage.Root)

	engine := transcriber.NewWhisperEngine(
		cfg.Transcription.WhisperPath,
		cfg.Transcription.ModelDir,
		cfg.Transcription.JobTimeout,
	)

	sched := scheduler.New(service, engine, scheduler.Config{
		StorageRoot:     cfg.Storage.Root,
		DefaultModel:    cfg.Transcription.DefaultModel,
		DefaultLanguage: cfg.Transcription.DefaultLanguage,
		MaxConcurrent:   cfg.Transcription.MaxConcurrent,
		PollInterval:    cfg.Transcription.PollInterval,
	})

	prober := audio.NewProber("")
	watcher := ingest.NewWatcher(service, prober, sched, cfg.Ingest.MonitoredDirectory, cfg.Storage.Root)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sched.Run(ctx)
	go func() {
		if err := watcher.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("[ERROR] Watcher stopped: %v", err)
		}
	}()

	server := api.NewServer(fmt.Sprintf("%s:%d", serverHost, serverPort))
	server.SetDependencies(&types.Dependencies{
		DB:               db,
		RecordingService: service,
		SearchIndex:      index,
		Ingestor:         watcher,
		Notifier:         sched,
		StorageRoot:      cfg.Storage.Root,
		UploadTempDir:    cfg.Storage.UploadTemp,
		ItemsPerPage:     cfg.Pagination.ItemsPerPage,
	})
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	log.Printf("[INFO] Watching %s, storing under %s", cfg.Ingest.MonitoredDirectory, cfg.Storage.Root)
	log.Printf("[INFO] Starting server on %s:%d", serverHost, serverPort)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("[INFO] Shutting down")
	case err := <-serverErr:
		log.Printf("[ERROR] Server error: %v", err)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Println("[INFO] Server stopped")
	return nil
}
