// Package di provides the dependency injection container
// for the tempo productivity tracker.
package di

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"tempo-tracker/internal/adapters/primary/cli"
	"tempo-tracker/internal/adapters/secondary/config"
	"tempo-tracker/internal/adapters/secondary/storage"
	"tempo-tracker/internal/domain/entities"
	"tempo-tracker/internal/domain/ports"
	"tempo-tracker/internal/domain/services"
)

// Container holds all application dependencies
type Container struct {
	Config        *entities.Config
	ConfigManager ports.ConfigManager
	Logger        *slog.Logger
	Storage       ports.Storage
	Ledger        *services.SessionLedger
	TaskService   *services.TaskService
	InsightEngine *services.InsightEngine
	ReportService *services.ReportService
	CLI           *cli.CLI

	// Internal fields
	logFile       *os.File
	storageCloser interface{ Close() error }
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	container := &Container{}

	// Initialize logger first (with default settings)
	container.initLogger()

	if err := container.initConfig(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	if err := container.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	container.initServices()
	container.initCLI()

	return container, nil
}

// NewTestContainer creates a container for testing with custom config
func NewTestContainer(cfg *entities.Config) (*Container, error) {
	container := &Container{Config: cfg}

	container.initLogger()

	if err := container.reconfigureLogger(); err != nil {
		return nil, err
	}

	if err := container.initStorage(); err != nil {
		return nil, err
	}

	container.initServices()
	container.initCLI()

	return container, nil
}

// initLogger initializes the logger with default settings
func (c *Container) initLogger() {
	// Initially use default logger, will be reconfigured after loading config
	c.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// initConfig initializes the configuration manager and loads config
func (c *Container) initConfig() error {
	configManager, err := config.NewViperConfigManager(c.Logger)
	if err != nil {
		return err
	}
	c.ConfigManager = configManager

	cfg, err := configManager.Load()
	if err != nil {
		return err
	}
	c.Config = cfg

	// Reconfigure logger with loaded settings
	return c.reconfigureLogger()
}

// reconfigureLogger updates logger settings based on configuration
func (c *Container) reconfigureLogger() error {
	level := slog.LevelInfo
	switch c.Config.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	var err error
	if c.Config.Logging.File != "" {
		handler, err = c.createFileHandler(opts)
		if err != nil {
			return err
		}
	} else {
		handler = c.createConsoleHandler(opts)
	}

	c.Logger = slog.New(handler)
	return nil
}

// createFileHandler creates a file-based log handler
func (c *Container) createFileHandler(opts *slog.HandlerOptions) (slog.Handler, error) {
	if c.logFile != nil {
		_ = c.logFile.Close()
	}

	file, err := os.OpenFile(c.Config.Logging.File,
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	c.logFile = file

	if c.Config.Logging.Format == "json" {
		return slog.NewJSONHandler(file, opts), nil
	}
	return slog.NewTextHandler(file, opts), nil
}

// createConsoleHandler creates a console-based log handler
func (c *Container) createConsoleHandler(opts *slog.HandlerOptions) slog.Handler {
	if c.Config.Logging.Format == "json" {
		return slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.NewTextHandler(os.Stderr, opts)
}

// initStorage initializes the storage layer per the configured driver
func (c *Container) initStorage() error {
	path := c.Config.Storage.Path
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = home + "/.tempo/data"
	}

	switch c.Config.Storage.Driver {
	case "sqlite":
		store, err := storage.NewSQLiteStorage(path+"/tempo.db", c.Logger)
		if err != nil {
			return err
		}
		c.Storage = store
		c.storageCloser = store
	default:
		store, err := storage.NewFileStorage(path, c.Logger)
		if err != nil {
			return err
		}
		c.Storage = store
	}

	c.Logger.Debug("storage initialized",
		slog.String("driver", c.Config.Storage.Driver),
		slog.String("path", path))
	return nil
}

// initServices wires the domain services
func (c *Container) initServices() {
	c.Ledger = services.NewSessionLedger(c.Storage, c.Logger)
	c.TaskService = services.NewTaskService(c.Storage, c.Ledger, c.Logger)
	c.InsightEngine = services.NewInsightEngine(c.Logger)
	c.ReportService = services.NewReportService(c.Storage, c.InsightEngine, c.Logger)
}

// initCLI wires the command-line interface
func (c *Container) initCLI() {
	c.CLI = cli.NewCLI(
		c.TaskService,
		c.Ledger,
		c.ReportService,
		c.ConfigManager,
		c.Logger,
		c.Storage,
	)
}

// HealthCheck verifies the container's dependencies are usable
func (c *Container) HealthCheck(ctx context.Context) error {
	return c.Storage.HealthCheck(ctx)
}

// Close releases held resources
func (c *Container) Close() {
	if c.storageCloser != nil {
		_ = c.storageCloser.Close()
	}
	if c.logFile != nil {
		_ = c.logFile.Close()
	}
}
