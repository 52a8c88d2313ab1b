package container

import (
	"context"
	"fmt"
	"os"

	"clinicsetup/adapters/excel"
	"clinicsetup/adapters/llm"
	"clinicsetup/adapters/storage"
	"clinicsetup/app"
	"clinicsetup/internal"
	"clinicsetup/internal/config"
	"clinicsetup/internal/extraction"
	"clinicsetup/internal/session"
	"clinicsetup/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Adapters
	Reader    *excel.WorkbookReader
	Uploads   *storage.LocalUploadStore
	Extractor ports.Extractor
	Prompts   *extraction.PromptManager

	// State
	Sessions *session.Store

	// Services
	ImportService  *app.ImportService
	SessionService *app.SessionService
}

// Option customizes container construction.
type Option func(*Container)

// WithExtractor replaces the OpenAI extractor, e.g. with a canned response.
func WithExtractor(extractor ports.Extractor) Option {
	return func(c *Container) { c.Extractor = extractor }
}

// WithLogger replaces the logger derived from configuration.
func WithLogger(logger *internal.Logger) Option {
	return func(c *Container) { c.Logger = logger }
}

// New creates a new dependency injection container
func New(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.Logger == nil {
		c.Logger = internal.NewLoggerTo(os.Stderr, internal.ParseLogLevel(cfg.Log.Level), cfg.Log.Format)
	}

	if err := c.initAdapters(); err != nil {
		return nil, err
	}
	c.initServices()
	return c, nil
}

func (c *Container) initAdapters() error {
	c.Reader = excel.NewWorkbookReader(c.Logger)
	c.Prompts = extraction.NewPromptManager(c.Config.AI.PromptsDir)
	c.Sessions = session.NewStore()

	uploads, err := storage.NewLocalUploadStore(c.Config.Storage.UploadDir)
	if err != nil {
		return fmt.Errorf("failed to initialize upload storage: %w", err)
	}
	c.Uploads = uploads

	if c.Extractor == nil {
		if err := c.Config.RequireExtraction(); err != nil {
			return err
		}
		extractor, err := llm.NewOpenAIExtractor(llm.Config{
			APIKey:          c.Config.AI.OpenAIKey,
			BaseURL:         c.Config.AI.BaseURL,
			Model:           c.Config.AI.Model,
			ReasoningEffort: c.Config.AI.ReasoningEffort,
			Timeout:         c.Config.AI.ExtractionTimeout,
		}, c.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize extractor: %w", err)
		}
		c.Extractor = extractor
	}
	return nil
}

func (c *Container) initServices() {
	c.ImportService = app.NewImportService(
		c.Sessions,
		c.Reader,
		c.Uploads,
		c.Extractor,
		c.Prompts,
		app.ImportConfig{MaxUploadBytes: c.Config.Import.MaxUploadBytes},
		c.Logger,
	)
	c.SessionService = app.NewSessionService(c.Sessions, c.Logger)
}

// CleanupUploads removes stored uploads older than the configured retention.
func (c *Container) CleanupUploads(ctx context.Context) (int, error) {
	if c.Config.Storage.UploadRetention <= 0 {
		return 0, nil
	}
	removed, err := c.Uploads.CleanupExpired(ctx, c.Config.Storage.UploadRetention)
	if err != nil {
		return removed, fmt.Errorf("failed to clean up uploads: %w", err)
	}
	if removed > 0 {
		c.Logger.Info("[Container] Removed %d expired uploads", removed)
	}
	return removed, nil
}

// Shutdown releases container resources.
func (c *Container) Shutdown(ctx context.Context) error {
	_, err := c.CleanupUploads(ctx)
	return err
}
