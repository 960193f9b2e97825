package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/hupe1980/puzzle"
	"github.com/hupe1980/puzzle/codec"
	"github.com/hupe1980/puzzle/distance"
	"github.com/hupe1980/puzzle/internal/compress"
)

const envPrefix = "PUZZLE"

// Config validation errors
var (
	ErrInvalidMetric      = errors.New("metric must be 'ordinal' or 'normalized-l2'")
	ErrInvalidLogFormat   = errors.New("log_format must be 'json' or 'text'")
	ErrInvalidLogLevel    = errors.New("log_level must be debug, info, warn, or error")
	ErrInvalidStore       = errors.New("store must be local, memory, s3, or minio")
	ErrInvalidStoreRoot   = errors.New("store_root cannot be empty for the local store")
	ErrInvalidBucket      = errors.New("bucket cannot be empty for s3 and minio stores")
	ErrInvalidEndpoint    = errors.New("endpoint cannot be empty for the minio store")
	ErrInvalidWorkers     = errors.New("workers must be positive")
	ErrInvalidUploadRate  = errors.New("upload_rps must not be negative")
	ErrInvalidCompression = errors.New("compression must be none, lz4, or zstd")
	ErrInvalidCodec       = errors.New("codec must be 'json' or 'go-json'")
)

// Config is the CLI configuration. Every field can be set through a
// PUZZLE_ prefixed environment variable; flags override selected fields.
type Config struct {
	GridSize         int     `envconfig:"GRID_SIZE" default:"128"`
	Lambdas          int     `envconfig:"LAMBDAS" default:"9"`
	PRatio           float64 `envconfig:"P_RATIO" default:"2.0"`
	NoiseCutoff      float64 `envconfig:"NOISE_CUTOFF" default:"2.0"`
	Autocrop         bool    `envconfig:"AUTOCROP" default:"true"`
	ContrastBarrier  float64 `envconfig:"CONTRAST_BARRIER" default:"5"`
	MaxCroppingRatio float64 `envconfig:"MAX_CROPPING_RATIO" default:"0.25"`
	MaxWidth         int     `envconfig:"MAX_WIDTH" default:"3000"`
	MaxHeight        int     `envconfig:"MAX_HEIGHT" default:"3000"`
	Metric           string  `envconfig:"METRIC" default:"ordinal"`
	FixForTexts      bool    `envconfig:"FIX_FOR_TEXTS" default:"true"`

	LogFormat   string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"warn"`
	MetricsAddr string `envconfig:"METRICS_ADDR"` // empty disables the /metrics endpoint

	Store     string `envconfig:"STORE" default:"local"`
	StoreRoot string `envconfig:"STORE_ROOT" default:"./signatures"`
	Bucket    string `envconfig:"BUCKET"`
	Prefix    string `envconfig:"PREFIX"`
	Region    string `envconfig:"REGION"`
	Endpoint  string `envconfig:"ENDPOINT"`
	AccessKey string `envconfig:"ACCESS_KEY"`
	SecretKey string `envconfig:"SECRET_KEY"`
	Secure    bool   `envconfig:"SECURE" default:"true"`

	Workers     int     `envconfig:"WORKERS" default:"4"`
	UploadRPS   float64 `envconfig:"UPLOAD_RPS" default:"0"`   // 0 means unlimited
	UploadBurst int     `envconfig:"UPLOAD_BURST" default:"0"` // 0 means ceil(RPS)
	Compression string  `envconfig:"COMPRESSION" default:"none"`
	Codec       string  `envconfig:"CODEC" default:"go-json"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		GridSize:         128,
		Lambdas:          9,
		PRatio:           2.0,
		NoiseCutoff:      2.0,
		Autocrop:         true,
		ContrastBarrier:  5,
		MaxCroppingRatio: 0.25,
		MaxWidth:         3000,
		MaxHeight:        3000,
		Metric:           "ordinal",
		FixForTexts:      true,
		LogFormat:        "text",
		LogLevel:         "warn",
		Store:            "local",
		StoreRoot:        "./signatures",
		Secure:           true,
		Workers:          4,
		Compression:      "none",
		Codec:            "go-json",
	}
}

// LoadConfig reads envFile (if it exists) into the environment and then
// processes PUZZLE_ variables. Variables already set win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ValidateConfig validates the configuration and returns an error if invalid
func ValidateConfig(cfg *Config) error {
	if _, err := distance.ParseMetric(cfg.Metric); err != nil {
		return ErrInvalidMetric
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return ErrInvalidLogFormat
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return ErrInvalidLogLevel
	}
	switch cfg.Store {
	case "local":
		if cfg.StoreRoot == "" {
			return ErrInvalidStoreRoot
		}
	case "memory":
	case "s3":
		if cfg.Bucket == "" {
			return ErrInvalidBucket
		}
	case "minio":
		if cfg.Bucket == "" {
			return ErrInvalidBucket
		}
		if cfg.Endpoint == "" {
			return ErrInvalidEndpoint
		}
	default:
		return ErrInvalidStore
	}
	if cfg.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if cfg.UploadRPS < 0 {
		return ErrInvalidUploadRate
	}
	if _, err := compress.Parse(cfg.Compression); err != nil {
		return ErrInvalidCompression
	}
	if _, ok := codec.ByName(cfg.Codec); !ok {
		return ErrInvalidCodec
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// BuildLogger creates the logger selected by LogFormat and LogLevel, writing to w.
func BuildLogger(cfg *Config, w io.Writer) *puzzle.Logger {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}

	format := puzzle.LogText
	if cfg.LogFormat == "json" {
		format = puzzle.LogJSON
	}

	return puzzle.NewWriterLogger(w, format, level)
}

// BuildOptions maps the configuration onto puzzle options.
func BuildOptions(cfg *Config) ([]puzzle.Option, error) {
	metric, err := distance.ParseMetric(cfg.Metric)
	if err != nil {
		return nil, err
	}

	return []puzzle.Option{
		puzzle.WithGridSize(cfg.GridSize),
		puzzle.WithLambdas(cfg.Lambdas),
		puzzle.WithPRatio(cfg.PRatio),
		puzzle.WithNoiseCutoff(cfg.NoiseCutoff),
		puzzle.WithAutocrop(cfg.Autocrop),
		puzzle.WithContrastBarrier(cfg.ContrastBarrier),
		puzzle.WithMaxCroppingRatio(cfg.MaxCroppingRatio),
		puzzle.WithMaxSize(cfg.MaxWidth, cfg.MaxHeight),
		puzzle.WithMetric(metric),
		puzzle.WithFixForTexts(cfg.FixForTexts),
	}, nil
}

// BuildCodec returns the record codec selected by Codec, falling back to
// codec.Default for an unknown name.
func BuildCodec(cfg *Config) codec.Codec {
	if c, ok := codec.ByName(cfg.Codec); ok {
		return c
	}

	return codec.Default
}
