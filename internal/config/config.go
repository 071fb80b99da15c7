package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is everything the server needs at startup. It is resolved once
// and never changes while serving.
type Config struct {
	Host      string
	Port      int
	BaseDir   string
	Catalog   string // optional .json or sqlite catalog file
	Title     string
	ChunkSize int
	LogLevel  string
	LogFormat string
	LogFile   string
	Console   bool

	// WriteCatalog, when set, makes the binary write the built-in catalog
	// to this file and exit instead of serving.
	WriteCatalog string
}

// Addr is the listen address in host:port form.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load resolves the configuration from defaults, an optional .env file in
// the working directory, GOSERVE_* environment variables and finally args.
func Load(args []string) (Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading %s: %w", EnvFile, err)
	}
	return parse(args, os.LookupEnv, os.Stderr)
}

func parse(args []string, lookup func(string) (string, bool), usageOut io.Writer) (Config, error) {
	cfg := Config{
		Host:      DefaultHost,
		Port:      DefaultPort,
		Title:     DefaultTitle,
		ChunkSize: DefaultChunkSize,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}

	var err error
	env := func(key string, apply func(string) error) {
		if err != nil {
			return
		}
		if v, ok := lookup(key); ok && v != "" {
			if applyErr := apply(v); applyErr != nil {
				err = fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, applyErr)
			}
		}
	}
	str := func(dst *string) func(string) error {
		return func(v string) error { *dst = v; return nil }
	}
	num := func(dst *int) func(string) error {
		return func(v string) error {
			n, convErr := strconv.Atoi(v)
			*dst = n
			return convErr
		}
	}

	env(EnvHost, str(&cfg.Host))
	env(EnvPort, num(&cfg.Port))
	env(EnvBaseDir, str(&cfg.BaseDir))
	env(EnvCatalog, str(&cfg.Catalog))
	env(EnvTitle, str(&cfg.Title))
	env(EnvChunkSize, num(&cfg.ChunkSize))
	env(EnvLogLevel, str(&cfg.LogLevel))
	env(EnvLogFormat, str(&cfg.LogFormat))
	env(EnvLogFile, str(&cfg.LogFile))
	env(EnvConsole, func(v string) error {
		b, convErr := strconv.ParseBool(v)
		cfg.Console = b
		return convErr
	})
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("goserve", flag.ContinueOnError)
	fs.SetOutput(usageOut)
	fs.StringVar(&cfg.Host, "host", cfg.Host, "address to bind to")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.BaseDir, "base-dir", cfg.BaseDir, "directory relative catalog paths resolve against (default: the executable's directory)")
	fs.StringVar(&cfg.Catalog, "catalog", cfg.Catalog, "catalog file (.json, .db, .sqlite, .sqlite3); built-in catalog when empty")
	fs.StringVar(&cfg.Title, "title", cfg.Title, "heading of the index page")
	fs.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "bytes per chunk when streaming files")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "append logs to this file instead of stderr")
	fs.BoolVar(&cfg.Console, "console", cfg.Console, "show the terminal console while serving")
	fs.StringVar(&cfg.WriteCatalog, "write-catalog", "", "write the built-in catalog to this file and exit")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.BaseDir == "" {
		dir, err := ExecutableDir()
		if err != nil {
			return Config{}, err
		}
		cfg.BaseDir = dir
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, c.ChunkSize)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// ExecutableDir is the directory holding the running binary, with symlinks
// resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
