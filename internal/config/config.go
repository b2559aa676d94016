// Package config loads reconciler settings from a TOML or YAML file, a
// .env file and RECON_* environment variables, in that order of precedence
// from lowest to highest.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"billing-reconciliation/internal/reconcile"
)

// Config is the full reconciler configuration.
type Config struct {
	TargetAutoAcceptanceRate float64              `toml:"target_auto_acceptance_rate" yaml:"target_auto_acceptance_rate"`
	Caps                     reconcile.Caps       `toml:"caps" yaml:"caps"`
	Fields                   reconcile.FieldTable `toml:"fields" yaml:"fields"`
	Sources                  Sources              `toml:"sources" yaml:"sources"`
	Server                   Server               `toml:"server" yaml:"server"`
	History                  History              `toml:"history" yaml:"history"`
	Log                      Log                  `toml:"log" yaml:"log"`
}

// Sources locates the draft and actual data. Drafts come from the bucket
// when one is set, else from DraftDir. Actuals come from ActualURL, else the
// bucket, else ActualDir.
type Sources struct {
	DraftDir     string        `toml:"draft_dir" yaml:"draft_dir"`
	ActualDir    string        `toml:"actual_dir" yaml:"actual_dir"`
	ActualURL    string        `toml:"actual_url" yaml:"actual_url"`
	ActualAPIKey string        `toml:"actual_api_key" yaml:"actual_api_key"`
	ReportDir    string        `toml:"report_dir" yaml:"report_dir"`
	Timeout      time.Duration `toml:"timeout" yaml:"timeout"`
	S3           S3            `toml:"s3" yaml:"s3"`
}

// S3 is the bucket used for drafts and, when ArchiveReports is set, reports.
type S3 struct {
	Bucket         string `toml:"bucket" yaml:"bucket"`
	Prefix         string `toml:"prefix" yaml:"prefix"`
	Region         string `toml:"region" yaml:"region"`
	ArchiveReports bool   `toml:"archive_reports" yaml:"archive_reports"`
}

// Server configures `reconciler serve`.
type Server struct {
	Addr     string `toml:"addr" yaml:"addr"`
	Schedule string `toml:"schedule" yaml:"schedule"`
	Timezone string `toml:"timezone" yaml:"timezone"`
}

// History configures the run history database. An empty path disables it.
type History struct {
	Path string `toml:"path" yaml:"path"`
}

// Log configures the process logger.
type Log struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	opts := reconcile.DefaultOptions()
	return Config{
		TargetAutoAcceptanceRate: opts.TargetAutoAcceptanceRate,
		Caps:                     opts.Caps,
		Fields:                   opts.Fields,
		Sources: Sources{
			DraftDir:  "data",
			ActualDir: "data",
			Timeout:   30 * time.Second,
		},
		Server: Server{
			Addr:     ":8080",
			Schedule: "0 2 * * *",
			Timezone: "UTC",
		},
		History: History{Path: "reconciler.db"},
		Log:     Log{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults, then applies the environment. An empty
// path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv exports the variables of the given .env files into the process
// environment without overriding what is already set. Missing files are
// ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("could not load %s: %w", f, err)
		}
	}
	return nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("could not parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("could not parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	return nil
}

// applyEnv overrides cfg with the RECON_* variables found by lookup.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"RECON_DRAFT_DIR":      &cfg.Sources.DraftDir,
		"RECON_ACTUAL_DIR":     &cfg.Sources.ActualDir,
		"RECON_ACTUAL_URL":     &cfg.Sources.ActualURL,
		"RECON_ACTUAL_API_KEY": &cfg.Sources.ActualAPIKey,
		"RECON_REPORT_DIR":     &cfg.Sources.ReportDir,
		"RECON_S3_BUCKET":      &cfg.Sources.S3.Bucket,
		"RECON_S3_PREFIX":      &cfg.Sources.S3.Prefix,
		"RECON_S3_REGION":      &cfg.Sources.S3.Region,
		"RECON_SERVER_ADDR":    &cfg.Server.Addr,
		"RECON_SCHEDULE":       &cfg.Server.Schedule,
		"RECON_TIMEZONE":       &cfg.Server.Timezone,
		"RECON_HISTORY_PATH":   &cfg.History.Path,
		"RECON_LOG_LEVEL":      &cfg.Log.Level,
		"RECON_LOG_FORMAT":     &cfg.Log.Format,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup("RECON_TARGET_AUTO_ACCEPTANCE_RATE"); ok {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RECON_TARGET_AUTO_ACCEPTANCE_RATE: %w", err)
		}
		cfg.TargetAutoAcceptanceRate = rate
	}
	if v, ok := lookup("RECON_SOURCE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("RECON_SOURCE_TIMEOUT: %w", err)
		}
		cfg.Sources.Timeout = d
	}
	if v, ok := lookup("RECON_S3_ARCHIVE_REPORTS"); ok {
		archive, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RECON_S3_ARCHIVE_REPORTS: %w", err)
		}
		cfg.Sources.S3.ArchiveReports = archive
	}
	return nil
}

// Validate checks the configuration for values nothing downstream can use.
func (c Config) Validate() error {
	if err := c.EngineOptions().Validate(); err != nil {
		return err
	}
	if c.Sources.Timeout <= 0 {
		return fmt.Errorf("sources.timeout must be positive, got %s", c.Sources.Timeout)
	}
	if c.Sources.S3.ArchiveReports && c.Sources.S3.Bucket == "" {
		return errors.New("sources.s3.archive_reports needs sources.s3.bucket")
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// EngineOptions returns the reconciliation engine settings.
func (c Config) EngineOptions() reconcile.Options {
	return reconcile.Options{
		Fields:                   c.Fields,
		TargetAutoAcceptanceRate: c.TargetAutoAcceptanceRate,
		Caps:                     c.Caps,
	}
}

// NewLogger builds the process logger writing to w.
func (l Log) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := l.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func (l Log) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
