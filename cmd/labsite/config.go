package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/wulab/labsite/internal/config"
	applog "github.com/wulab/labsite/internal/log"
	"github.com/wulab/labsite/internal/source"
)

// addDocumentFlags registers the flags of every command that reads the
// two documents.
func addDocumentFlags(cmd *cobra.Command) {
	cmd.Flags().String("config-doc", config.DefaultConfigDocument,
		"Path or http(s) URL of the configuration document")
	cmd.Flags().String("publications-doc", config.DefaultPublicationsDocument,
		"Path or http(s) URL of the publications document")
	cmd.Flags().String("static-dir", config.DefaultStaticDir,
		"Directory of images and other static assets")
	cmd.Flags().Duration("fetch-timeout", config.DefaultFetchTimeout,
		"Timeout for a single document read (0 = no timeout)")
	cmd.Flags().Int64("max-document-size", config.DefaultMaxDocumentSize,
		"Maximum size of a document in bytes")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header of HTTP document reads")
}

// buildConfig creates a Config from defaults, the project file and the
// flags the user set, in that order. Environment variables have already
// been copied into the flags by the root command.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if flags.Lookup("config") != nil {
		cfg.ConfigFilePath, err = flags.GetString("config")
		if err != nil {
			return nil, err
		}
	}

	// If user explicitly specified a project file, error if not found.
	// If no path specified, silently use the defaults.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	appliers := []func() error{
		func() error { return changedString(flags, "config-doc", &cfg.ConfigDocument) },
		func() error { return changedString(flags, "publications-doc", &cfg.PublicationsDocument) },
		func() error { return changedString(flags, "static-dir", &cfg.StaticDir) },
		func() error { return changedString(flags, "output", &cfg.OutputDir) },
		func() error { return changedString(flags, "addr", &cfg.Addr) },
		func() error { return changedString(flags, "user-agent", &cfg.UserAgent) },
		func() error { return changedString(flags, "orcid", &cfg.ORCIDID) },
		func() error { return changedString(flags, "orcid-url", &cfg.ORCIDBaseURL) },
		func() error { return changedString(flags, "db-dir", &cfg.DBDir) },
		func() error { return changedBool(flags, "watch", &cfg.Watch) },
		func() error { return changedBool(flags, "json", &cfg.JSONReport) },
		func() error { return changedBool(flags, "markdown", &cfg.MarkdownReport) },
		func() error { return changedBool(flags, "verbose", &cfg.Verbose) },
		func() error { return changedBool(flags, "log-json", &cfg.LogJSON) },
		func() error { return changedDuration(flags, "session-ttl", &cfg.SessionTTL) },
		func() error { return changedDuration(flags, "fetch-timeout", &cfg.FetchTimeout) },
		func() error { return changedInt64(flags, "max-document-size", &cfg.MaxDocumentSize) },
		func() error { return changedInt(flags, "limit", &cfg.ORCIDLimit) },
	}
	for _, apply := range appliers {
		if err := apply(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// changedString copies a string flag into dst if the user set it.
func changedString(flags *pflag.FlagSet, name string, dst *string) error {
	if !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetString(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func changedBool(flags *pflag.FlagSet, name string, dst *bool) error {
	if !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetBool(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func changedDuration(flags *pflag.FlagSet, name string, dst *time.Duration) error {
	if !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetDuration(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func changedInt64(flags *pflag.FlagSet, name string, dst *int64) error {
	if !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetInt64(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func changedInt(flags *pflag.FlagSet, name string, dst *int) error {
	if !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetInt(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// setupLogger creates the logger selected by the config and makes it the
// default. Logs go to the command's stderr.
func setupLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	var logger *slog.Logger
	if cfg.LogJSON {
		logger = applog.NewJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	} else {
		logger = applog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	}
	slog.SetDefault(logger)
	return logger
}

// newLoader creates the document loader of the config.
func newLoader(cfg *config.Config, logger *slog.Logger) *source.Loader {
	fetcher := source.NewFetcher(
		source.WithUserAgent(cfg.UserAgent),
		source.WithMaxSize(cfg.EffectiveMaxDocumentSize()),
		source.WithTimeout(cfg.FetchTimeout),
		source.WithLogger(logger),
	)
	return source.NewLoader(fetcher, cfg.ConfigDocument, cfg.PublicationsDocument)
}
