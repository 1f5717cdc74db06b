package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultEnvFile           = ".env"
	defaultAddr              = ":8080"
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 15 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultDataBase          = "./data"
	defaultBoxesPath         = "boxes.json"
	defaultItemsDir          = "items"
	defaultImagesDir         = "images"
	defaultDescriptionFormat = DescriptionText
	defaultLang              = "ko"
	defaultLogLevel          = "info"
	defaultTemplatesDir      = "internal/httpserver/templates"
)

// Description formats accepted by GACHABOX_DESCRIPTION_FORMAT.
const (
	DescriptionText     = "text"
	DescriptionMarkdown = "markdown"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	I18n    I18nConfig
	Log     LogConfig
	Dev     DevConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// CatalogConfig locates the box list, item details and images.
type CatalogConfig struct {
	// DataBase is an http(s) URL, a gs://bucket/prefix URL, a file:// URL or a local directory.
	DataBase          string
	BoxesPath         string
	ItemsDir          string
	ImagesDir         string
	FetchTimeout      time.Duration
	RefreshInterval   time.Duration
	DescriptionFormat string
	GCS               GCSConfig
}

// GCSConfig tunes the Cloud Storage client used for gs:// data bases.
type GCSConfig struct {
	// Endpoint overrides the storage API endpoint, e.g. for a local emulator.
	Endpoint string
	// Anonymous reads public buckets without credentials.
	Anonymous bool
}

// I18nConfig selects the fallback language and optional label overrides.
type I18nConfig struct {
	DefaultLang string
	LabelsFile  string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
}

// DevConfig enables template reparsing from disk on every request.
type DevConfig struct {
	Enabled      bool
	TemplatesDir string
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.LookupEnv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the application configuration by combining defaults, .env overrides
// and environment variables.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	var invalid []string
	duration := func(key string, fallback time.Duration) time.Duration {
		raw, ok := lookup(key)
		if !ok || strings.TrimSpace(raw) == "" {
			return fallback
		}
		d, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return fallback
		}
		return d
	}

	cfg := Config{
		Server: ServerConfig{
			Addr:         resolveAddr(lookup),
			ReadTimeout:  duration("GACHABOX_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: duration("GACHABOX_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  duration("GACHABOX_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Catalog: CatalogConfig{
			DataBase:          stringWithDefault(lookup, "GACHABOX_DATA_BASE", defaultDataBase),
			BoxesPath:         stringWithDefault(lookup, "GACHABOX_BOXES_PATH", defaultBoxesPath),
			ItemsDir:          stringWithDefault(lookup, "GACHABOX_ITEMS_DIR", defaultItemsDir),
			ImagesDir:         stringWithDefault(lookup, "GACHABOX_IMAGES_DIR", defaultImagesDir),
			FetchTimeout:      duration("GACHABOX_FETCH_TIMEOUT", 0),
			RefreshInterval:   duration("GACHABOX_REFRESH_INTERVAL", 0),
			DescriptionFormat: strings.ToLower(stringWithDefault(lookup, "GACHABOX_DESCRIPTION_FORMAT", defaultDescriptionFormat)),
			GCS: GCSConfig{
				Endpoint:  stringWithDefault(lookup, "GACHABOX_GCS_ENDPOINT", ""),
				Anonymous: boolWithDefault(lookup, "GACHABOX_GCS_ANONYMOUS", false),
			},
		},
		I18n: I18nConfig{
			DefaultLang: strings.ToLower(stringWithDefault(lookup, "GACHABOX_DEFAULT_LANG", defaultLang)),
			LabelsFile:  stringWithDefault(lookup, "GACHABOX_LABELS_FILE", ""),
		},
		Log: LogConfig{
			Level: strings.ToLower(stringWithDefault(lookup, "GACHABOX_LOG_LEVEL", defaultLogLevel)),
		},
		Dev: DevConfig{
			Enabled:      boolWithDefault(lookup, "GACHABOX_DEV", false),
			TemplatesDir: stringWithDefault(lookup, "GACHABOX_TEMPLATES_DIR", defaultTemplatesDir),
		},
	}

	if err := validateConfig(cfg, invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// resolveAddr prefers GACHABOX_HTTP_ADDR, then PORT (Cloud Run), else :8080.
func resolveAddr(lookup func(string) (string, bool)) string {
	if addr := stringWithDefault(lookup, "GACHABOX_HTTP_ADDR", ""); addr != "" {
		return addr
	}
	if port := stringWithDefault(lookup, "PORT", ""); port != "" {
		return ":" + strings.TrimPrefix(port, ":")
	}
	return defaultAddr
}

func validateConfig(cfg Config, invalid []string) error {
	fields := append([]string(nil), invalid...)

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		fields = append(fields, "Server.Addr")
	}
	if strings.TrimSpace(cfg.Catalog.DataBase) == "" {
		fields = append(fields, "Catalog.DataBase")
	}
	if strings.TrimSpace(cfg.Catalog.BoxesPath) == "" {
		fields = append(fields, "Catalog.BoxesPath")
	}
	switch cfg.Catalog.DescriptionFormat {
	case DescriptionText, DescriptionMarkdown:
	default:
		fields = append(fields, "Catalog.DescriptionFormat")
	}
	if cfg.I18n.DefaultLang == "" {
		fields = append(fields, "I18n.DefaultLang")
	}

	if len(fields) > 0 {
		return &ValidationError{fields: fields}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
