// Package config assembles the process configuration from defaults, an
// optional TOML file, an optional .env file and the environment, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Audit sink names.
const (
	SinkNone     = "none"
	SinkPostgres = "postgres"
	SinkRedis    = "redis"
	SinkSQLite   = "sqlite"
)

// Config is passed explicitly to every component at startup.
type Config struct {
	Port               int
	ScratchDir         string
	FFmpegPath         string
	FFprobePath        string
	EngineTimeout      time.Duration
	MaxUploadBytes     int64
	VerifyOutput       bool
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
	Log                Log
	Audit              Audit
}

// Log configures internal/pkg/logger.
type Log struct {
	Level  string
	Format string
	Source bool
}

// Audit selects and configures the job audit sink.
type Audit struct {
	Sink        string
	DatabaseURL string
	RedisAddr   string
	RedisKey    string
	SQLitePath  string
}

// fileConfig mirrors Config in the TOML file. Durations are strings such as "90s".
type fileConfig struct {
	Port               int      `toml:"port"`
	ScratchDir         string   `toml:"scratch_dir"`
	FFmpegPath         string   `toml:"ffmpeg_path"`
	FFprobePath        string   `toml:"ffprobe_path"`
	EngineTimeout      string   `toml:"engine_timeout"`
	MaxUploadBytes     int64    `toml:"max_upload_bytes"`
	VerifyOutput       *bool    `toml:"verify_output"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
	ShutdownTimeout    string   `toml:"shutdown_timeout"`
	Log                struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
		Source *bool  `toml:"source"`
	} `toml:"log"`
	Audit struct {
		Sink        string `toml:"sink"`
		DatabaseURL string `toml:"database_url"`
		RedisAddr   string `toml:"redis_addr"`
		RedisKey    string `toml:"redis_key"`
		SQLitePath  string `toml:"sqlite_path"`
	} `toml:"audit"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:               3000,
		ScratchDir:         filepath.Join(os.TempDir(), "ffaudio"),
		FFmpegPath:         "ffmpeg",
		FFprobePath:        "ffprobe",
		EngineTimeout:      10 * time.Minute,
		MaxUploadBytes:     512 << 20,
		VerifyOutput:       true,
		CORSAllowedOrigins: []string{"*"},
		ShutdownTimeout:    30 * time.Second,
		Log: Log{
			Level:  "info",
			Format: "json",
		},
		Audit: Audit{
			Sink:     SinkNone,
			RedisKey: "ffaudio:jobs",
		},
	}
}

// Load builds the configuration. ENV_FILE (default .env) and CONFIG_FILE are
// optional; a missing default .env is not an error.
func Load() (*Config, error) {
	return load(os.LookupEnv)
}

func load(env lookupFunc) (*Config, error) {
	lookup, err := newLookup(env)
	if err != nil {
		return nil, err
	}

	cfg := Default()

	if path, ok := lookup("CONFIG_FILE"); ok {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type lookupFunc func(key string) (string, bool)

// newLookup layers the .env file under the process environment without
// mutating it.
func newLookup(env lookupFunc) (lookupFunc, error) {
	envFile := ".env"
	explicit := false
	if v, ok := env("ENV_FILE"); ok && strings.TrimSpace(v) != "" {
		envFile = strings.TrimSpace(v)
		explicit = true
	}

	dotenv, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || explicit {
			return nil, fmt.Errorf("read env file %s: %w", envFile, err)
		}
		dotenv = map[string]string{}
	}

	return func(key string) (string, bool) {
		if v, ok := env(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
		if v, ok := dotenv[key]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
		return "", false
	}, nil
}

func (c *Config) applyFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Port != 0 {
		c.Port = fc.Port
	}
	setString(&c.ScratchDir, fc.ScratchDir)
	setString(&c.FFmpegPath, fc.FFmpegPath)
	setString(&c.FFprobePath, fc.FFprobePath)
	if err := setDuration(&c.EngineTimeout, "engine_timeout", fc.EngineTimeout); err != nil {
		return err
	}
	if err := setDuration(&c.ShutdownTimeout, "shutdown_timeout", fc.ShutdownTimeout); err != nil {
		return err
	}
	if fc.MaxUploadBytes != 0 {
		c.MaxUploadBytes = fc.MaxUploadBytes
	}
	if fc.VerifyOutput != nil {
		c.VerifyOutput = *fc.VerifyOutput
	}
	if len(fc.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = fc.CORSAllowedOrigins
	}

	setString(&c.Log.Level, fc.Log.Level)
	setString(&c.Log.Format, fc.Log.Format)
	if fc.Log.Source != nil {
		c.Log.Source = *fc.Log.Source
	}

	setString(&c.Audit.Sink, fc.Audit.Sink)
	setString(&c.Audit.DatabaseURL, fc.Audit.DatabaseURL)
	setString(&c.Audit.RedisAddr, fc.Audit.RedisAddr)
	setString(&c.Audit.RedisKey, fc.Audit.RedisKey)
	setString(&c.Audit.SQLitePath, fc.Audit.SQLitePath)
	return nil
}

func (c *Config) applyEnv(lookup lookupFunc) error {
	if v, ok := lookup("PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Port = n
	}
	if v, ok := lookup("SCRATCH_DIR"); ok {
		c.ScratchDir = v
	}
	if v, ok := lookup("FFMPEG_PATH"); ok {
		c.FFmpegPath = v
	}
	if v, ok := lookup("FFPROBE_PATH"); ok {
		c.FFprobePath = v
	}
	if v, ok := lookup("ENGINE_TIMEOUT"); ok {
		if err := setDuration(&c.EngineTimeout, "ENGINE_TIMEOUT", v); err != nil {
			return err
		}
	}
	if v, ok := lookup("SHUTDOWN_TIMEOUT"); ok {
		if err := setDuration(&c.ShutdownTimeout, "SHUTDOWN_TIMEOUT", v); err != nil {
			return err
		}
	}
	if v, ok := lookup("MAX_UPLOAD_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_BYTES: %w", err)
		}
		c.MaxUploadBytes = n
	}
	if v, ok := lookup("VERIFY_OUTPUT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("VERIFY_OUTPUT: %w", err)
		}
		c.VerifyOutput = b
	}
	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok {
		c.CORSAllowedOrigins = strings.Split(v, ",")
	}

	if v, ok := lookup("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := lookup("LOG_SOURCE"); ok {
		c.Log.Source = v == "true"
	}

	if v, ok := lookup("AUDIT_SINK"); ok {
		c.Audit.Sink = v
	}
	if v, ok := lookup("DATABASE_URL"); ok {
		c.Audit.DatabaseURL = v
	}
	if v, ok := lookup("REDIS_ADDR"); ok {
		c.Audit.RedisAddr = v
	}
	if v, ok := lookup("AUDIT_REDIS_KEY"); ok {
		c.Audit.RedisKey = v
	}
	if v, ok := lookup("AUDIT_SQLITE_PATH"); ok {
		c.Audit.SQLitePath = v
	}
	return nil
}

func (c *Config) normalize() {
	c.Audit.Sink = strings.ToLower(strings.TrimSpace(c.Audit.Sink))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))

	origins := make([]string, 0, len(c.CORSAllowedOrigins))
	for _, o := range c.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSAllowedOrigins = origins
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", c.Port))
	}
	if strings.TrimSpace(c.ScratchDir) == "" {
		errs = append(errs, errors.New("scratch_dir is required"))
	}
	if c.EngineTimeout <= 0 {
		errs = append(errs, errors.New("engine_timeout must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown_timeout must be positive"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max_upload_bytes must be positive"))
	}

	switch c.Log.Format {
	case "json", "text", "auto":
	default:
		errs = append(errs, fmt.Errorf("log format must be json, text or auto, got %q", c.Log.Format))
	}

	switch c.Audit.Sink {
	case SinkNone:
	case SinkPostgres:
		if c.Audit.DatabaseURL == "" {
			errs = append(errs, errors.New("audit sink postgres requires DATABASE_URL"))
		}
	case SinkRedis:
		if c.Audit.RedisAddr == "" {
			errs = append(errs, errors.New("audit sink redis requires REDIS_ADDR"))
		}
		if c.Audit.RedisKey == "" {
			errs = append(errs, errors.New("audit sink redis requires AUDIT_REDIS_KEY"))
		}
	case SinkSQLite:
		if c.Audit.SQLitePath == "" {
			errs = append(errs, errors.New("audit sink sqlite requires AUDIT_SQLITE_PATH"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown audit sink %q", c.Audit.Sink))
	}

	return errors.Join(errs...)
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return "0.0.0.0:" + strconv.Itoa(c.Port)
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
