package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/postgenie/internal/brand"
	"github.com/mark3labs/postgenie/internal/config"
	"github.com/mark3labs/postgenie/internal/export"
	"github.com/mark3labs/postgenie/internal/generate"
	"github.com/mark3labs/postgenie/internal/hooks"
	"github.com/mark3labs/postgenie/internal/logger"
	"github.com/mark3labs/postgenie/internal/nats"
	"github.com/mark3labs/postgenie/internal/outbox"
	"github.com/mark3labs/postgenie/internal/template"
	"github.com/mark3labs/postgenie/internal/wizard"
	"github.com/spf13/cobra"
)

// commonFlags override config values for run and serve.
type commonFlags struct {
	session   string
	dataDir   string
	exportDir string
	brandFile string
	template  string
	noPublish bool
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.session, "session", "s", "", "Session name for outbox events (default: from config)")
	cmd.Flags().StringVar(&f.dataDir, "data-dir", "", "Data directory for NATS storage (default: from config)")
	cmd.Flags().StringVarP(&f.exportDir, "export-dir", "o", "", "Directory for exported CSV files (default: from config)")
	cmd.Flags().StringVarP(&f.brandFile, "brand", "b", "", "Brand profile YAML file (default: embedded profile)")
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "Custom post text template file")
	cmd.Flags().BoolVar(&f.noPublish, "no-publish", false, "Disable the publisher outbox")
}

// loadConfig loads config, applies flag overrides and configures logging.
func loadConfig(f *commonFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if f != nil {
		if f.session != "" {
			cfg.Session = f.session
		}
		if f.dataDir != "" {
			cfg.DataDir = f.dataDir
		}
		if f.exportDir != "" {
			cfg.ExportDir = f.exportDir
		}
		if f.brandFile != "" {
			cfg.BrandFile = f.brandFile
		}
		if f.noPublish {
			cfg.Publish = false
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	return cfg, nil
}

// stack is everything a wizard front end needs.
type stack struct {
	cfg      *config.Config
	brand    *brand.Profile
	provider generate.Provider
	wizard   *wizard.Controller
	sinks    *export.Sinks
	nats     *nats.Embedded
}

// newStack builds the provider, controller and sinks. The embedded NATS
// server is started only when publishing is enabled.
func newStack(ctx context.Context, f *commonFlags) (*stack, error) {
	cfg, err := loadConfig(f)
	if err != nil {
		return nil, err
	}

	profile, err := brand.Load(cfg.BrandFile)
	if err != nil {
		return nil, err
	}

	templatePath := ""
	if f != nil {
		templatePath = f.template
	}
	postTemplate, err := template.GetTemplate(templatePath)
	if err != nil {
		return nil, err
	}

	provider, err := generate.NewProvider(cfg.Provider, generate.MockOptions{
		TextDelay:    cfg.TextDelay,
		RegenDelay:   cfg.TextDelay * 2 / 3,
		ImageDelay:   cfg.ImageDelay,
		Brand:        profile,
		PostTemplate: postTemplate,
	})
	if err != nil {
		return nil, err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	hooksCfg, err := hooks.LoadConfig(workDir)
	if err != nil {
		return nil, err
	}

	st := &stack{
		cfg:      cfg,
		brand:    profile,
		provider: provider,
		wizard:   wizard.New(provider, provider, wizard.WithBrand(profile)),
		sinks: &export.Sinks{
			Dir:     cfg.ExportDir,
			Brand:   profile.Name,
			Session: cfg.Session,
			Hooks:   hooksCfg,
			WorkDir: workDir,
		},
	}

	if cfg.Publish {
		embedded, err := nats.Start(ctx, cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to start outbox: %w", err)
		}
		st.nats = embedded
		st.sinks.Outbox = outbox.NewStore(embedded.JS, embedded.Stream)
	}

	logger.Info("Session %q ready (brand %s, publish %v)", cfg.Session, profile.Name, cfg.Publish)
	return st, nil
}

// Close stops the embedded NATS server if one was started.
func (st *stack) Close() error {
	return st.nats.Close()
}
