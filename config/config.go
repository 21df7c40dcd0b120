package config

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/antilog/consoleantilog"
	"github.com/philipp01105/napier/antilog/fileantilog"
	"github.com/philipp01105/napier/antilog/remoteantilog"
	"github.com/philipp01105/napier/core"
	"github.com/philipp01105/napier/formatter"
	"github.com/philipp01105/napier/logger"
)

// ErrInvalidConfig is wrapped by every validation error
var ErrInvalidConfig = errors.New("invalid configuration")

// Antilog types
const (
	TypeConsole = "console"
	TypeFile    = "file"
	TypeRemote  = "remote"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config describes a logger and the antilogs to register with it.
// It is loaded from YAML and can be overridden by environment variables.
type Config struct {
	// Level is the minimum level of antilogs that set none (default: info)
	Level string `yaml:"level"`
	// Format is the output format of antilogs that set none (default: text)
	Format string `yaml:"format"`
	// Tag is the default tag of loggers built by NewLogger
	Tag string `yaml:"tag"`
	// Caller captures the caller of each call in loggers built by NewLogger
	Caller bool `yaml:"caller"`
	// CoarseClock timestamps entries from a cached clock in loggers built
	// by NewLogger
	CoarseClock bool `yaml:"coarse_clock"`

	Antilogs []AntilogConfig `yaml:"antilogs"`
}

// AntilogConfig describes one antilog
type AntilogConfig struct {
	Type        string   `yaml:"type"`
	Level       string   `yaml:"level"`
	Format      string   `yaml:"format"`
	Tags        []string `yaml:"tags"`
	ExcludeTags []string `yaml:"exclude_tags"`

	// Formatting
	ShortLevel      bool   `yaml:"short_level"`
	TimestampFormat string `yaml:"timestamp_format"`
	IncludeCaller   bool   `yaml:"include_caller"`
	CallerTag       bool   `yaml:"caller_tag"`
	ErrorDetail     bool   `yaml:"error_detail"`

	// Async queue
	Async         bool          `yaml:"async"`
	BufferSize    int           `yaml:"buffer_size"`
	Overflow      string        `yaml:"overflow"`
	BlockTimeout  time.Duration `yaml:"block_timeout"`
	DrainTimeout  time.Duration `yaml:"drain_timeout"`
	FlushInterval time.Duration `yaml:"flush_interval"`

	// Console
	Output string `yaml:"output"`

	// File
	Path           string        `yaml:"path"`
	MaxSize        int64         `yaml:"max_size"`
	RotateInterval time.Duration `yaml:"rotate_interval"`
	MaxAge         time.Duration `yaml:"max_age"`
	MaxBackups     int           `yaml:"max_backups"`
	Compress       bool          `yaml:"compress"`

	// Remote
	URL            string        `yaml:"url"`
	APIKey         string        `yaml:"api_key"`
	Service        string        `yaml:"service"`
	InstanceIDFile string        `yaml:"instance_id_file"`
	BatchSize      int           `yaml:"batch_size"`
	Timeout        time.Duration `yaml:"timeout"`
}

// Load reads, parses and validates a YAML configuration file.
// Environment variables override file values:
// NAPIER_LEVEL, NAPIER_FORMAT, NAPIER_REMOTE_URL and NAPIER_REMOTE_API_KEY.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates a YAML configuration, applying the same
// environment overrides as Load
func Parse(data []byte) (*Config, error) {
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: FormatText,
	}
}

// applyEnvOverrides applies environment variable overrides.
// NAPIER_REMOTE_URL adds a remote antilog when the file declares none.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NAPIER_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("NAPIER_FORMAT"); v != "" {
		cfg.Format = v
	}

	url := os.Getenv("NAPIER_REMOTE_URL")
	key := os.Getenv("NAPIER_REMOTE_API_KEY")
	found := false
	for i := range cfg.Antilogs {
		if cfg.Antilogs[i].Type != TypeRemote {
			continue
		}
		found = true
		if url != "" {
			cfg.Antilogs[i].URL = url
		}
		if key != "" {
			cfg.Antilogs[i].APIKey = key
		}
	}
	if !found && url != "" {
		cfg.Antilogs = append(cfg.Antilogs, AntilogConfig{Type: TypeRemote, URL: url, APIKey: key})
	}
}

// Validate checks the configuration and reports every problem found.
// The returned error wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []string

	if _, err := core.ParseLevel(c.Level); err != nil {
		errs = append(errs, fmt.Sprintf("level: unknown level %q", c.Level))
	}
	if !validFormat(c.Format) {
		errs = append(errs, fmt.Sprintf("format: unknown format %q", c.Format))
	}

	for i, a := range c.Antilogs {
		prefix := fmt.Sprintf("antilogs[%d]", i)
		if a.Level != "" {
			if _, err := core.ParseLevel(a.Level); err != nil {
				errs = append(errs, fmt.Sprintf("%s.level: unknown level %q", prefix, a.Level))
			}
		}
		if a.Format != "" && !validFormat(a.Format) {
			errs = append(errs, fmt.Sprintf("%s.format: unknown format %q", prefix, a.Format))
		}
		if a.Overflow != "" {
			if _, err := parseOverflow(a.Overflow); err != nil {
				errs = append(errs, fmt.Sprintf("%s.overflow: %v", prefix, err))
			}
		}
		if a.BufferSize < 0 {
			errs = append(errs, prefix+".buffer_size must not be negative")
		}

		switch a.Type {
		case TypeConsole:
			switch a.Output {
			case "", "stdout", "stderr":
			default:
				errs = append(errs, fmt.Sprintf("%s.output: must be stdout or stderr, got %q", prefix, a.Output))
			}
		case TypeFile:
			if a.Path == "" {
				errs = append(errs, prefix+".path is required for file antilogs")
			}
			if a.MaxSize < 0 || a.MaxBackups < 0 {
				errs = append(errs, prefix+": max_size and max_backups must not be negative")
			}
		case TypeRemote:
			if a.URL == "" {
				errs = append(errs, prefix+".url is required for remote antilogs (or set NAPIER_REMOTE_URL)")
			}
			if a.BatchSize < 0 {
				errs = append(errs, prefix+".batch_size must not be negative")
			}
		case "":
			errs = append(errs, prefix+".type is required")
		default:
			errs = append(errs, fmt.Sprintf("%s.type: unknown type %q", prefix, a.Type))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

func validFormat(f string) bool {
	return f == FormatText || f == FormatJSON
}

func parseOverflow(s string) (antilog.OverflowPolicy, error) {
	switch strings.ToLower(s) {
	case "drop_newest", "dropnewest":
		return antilog.DropNewest, nil
	case "drop_oldest", "dropoldest":
		return antilog.DropOldest, nil
	case "block":
		return antilog.Block, nil
	default:
		return antilog.DropNewest, fmt.Errorf("unknown overflow policy %q", s)
	}
}

// Build creates the configured antilogs in order. When one fails, the
// ones already created are closed.
func (c *Config) Build() ([]antilog.Antilog, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	built := make([]antilog.Antilog, 0, len(c.Antilogs))
	for i := range c.Antilogs {
		a, err := c.build(&c.Antilogs[i])
		if err != nil {
			err = fmt.Errorf("antilogs[%d]: %w", i, err)
			return nil, multierr.Append(err, closeAll(built))
		}
		built = append(built, a)
	}
	return built, nil
}

func (c *Config) build(a *AntilogConfig) (antilog.Antilog, error) {
	filter, err := c.filter(a)
	if err != nil {
		return nil, err
	}
	f := c.formatter(a)
	queue := queueConfig(a)

	switch a.Type {
	case TypeConsole:
		w := io.Writer(os.Stdout)
		if a.Output == "stderr" {
			w = os.Stderr
		}
		return consoleantilog.New(consoleantilog.ConsoleConfig{
			Filter:    filter,
			Writer:    w,
			Formatter: f,
			Async:     a.Async,
			Queue:     queue,
		}), nil

	case TypeFile:
		return fileantilog.New(fileantilog.FileConfig{
			Filter:         filter,
			Filename:       a.Path,
			Formatter:      f,
			Async:          a.Async,
			Queue:          queue,
			MaxSize:        a.MaxSize,
			RotateInterval: a.RotateInterval,
			MaxAge:         a.MaxAge,
			MaxBackups:     a.MaxBackups,
			Compress:       a.Compress,
		})

	case TypeRemote:
		var client *http.Client
		if a.Timeout > 0 {
			client = &http.Client{Timeout: a.Timeout}
		}
		// The remote antilog encodes JSON unless told otherwise
		var rf formatter.Formatter
		if a.Format != "" {
			rf = f
		}
		return remoteantilog.New(remoteantilog.RemoteConfig{
			Filter:         filter,
			URL:            a.URL,
			APIKey:         a.APIKey,
			Service:        a.Service,
			InstanceIDFile: a.InstanceIDFile,
			Client:         client,
			Formatter:      rf,
			BatchSize:      a.BatchSize,
			Queue:          queue,
		})
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidConfig, a.Type)
}

func (c *Config) filter(a *AntilogConfig) (antilog.Filter, error) {
	name := a.Level
	if name == "" {
		name = c.Level
	}
	level, err := core.ParseLevel(name)
	if err != nil {
		return antilog.Filter{}, err
	}
	return antilog.Filter{MinLevel: level, Tags: a.Tags, ExcludeTags: a.ExcludeTags}, nil
}

func (c *Config) formatter(a *AntilogConfig) formatter.Formatter {
	cfg := formatter.Config{
		IncludeCaller:   a.IncludeCaller,
		TimestampFormat: a.TimestampFormat,
		ShortLevel:      a.ShortLevel,
		CallerTag:       a.CallerTag,
		ErrorDetail:     a.ErrorDetail,
	}
	format := a.Format
	if format == "" {
		format = c.Format
	}
	if format == FormatJSON {
		return formatter.NewJSONFormatter(cfg)
	}
	return formatter.NewTextFormatter(cfg)
}

func queueConfig(a *AntilogConfig) antilog.QueueConfig {
	q := antilog.QueueConfig{
		BufferSize:    a.BufferSize,
		BlockTimeout:  a.BlockTimeout,
		DrainTimeout:  a.DrainTimeout,
		FlushInterval: a.FlushInterval,
	}
	if policy, err := parseOverflow(a.Overflow); a.Overflow != "" && err == nil {
		q.OverflowPolicy = make(map[core.Level]antilog.OverflowPolicy, len(core.Levels))
		for _, level := range core.Levels {
			q.OverflowPolicy[level] = policy
		}
	}
	return q
}

// NewLogger builds a Logger with the configured antilogs, tag and
// caller settings. Closing the Logger closes the antilogs.
func (c *Config) NewLogger() (*logger.Logger, error) {
	antilogs, err := c.Build()
	if err != nil {
		return nil, err
	}
	return logger.NewBuilder().
		WithAntilog(antilogs...).
		WithTag(c.Tag).
		WithCaller(c.Caller).
		WithCoarseClock(c.CoarseClock).
		Build(), nil
}

// Apply builds the configured antilogs and registers them with l. The
// returned Closer unregisters and closes exactly those antilogs.
func (c *Config) Apply(l *logger.Logger) (io.Closer, error) {
	antilogs, err := c.Build()
	if err != nil {
		return nil, err
	}
	for _, a := range antilogs {
		l.Add(a)
	}
	return &installation{logger: l, antilogs: antilogs}, nil
}

// installation is the set of antilogs one Apply registered
type installation struct {
	logger   *logger.Logger
	antilogs []antilog.Antilog
}

func (in *installation) Close() error {
	for _, a := range in.antilogs {
		in.logger.Remove(a)
	}
	err := closeAll(in.antilogs)
	in.antilogs = nil
	return err
}

func closeAll(antilogs []antilog.Antilog) error {
	var err error
	for _, a := range antilogs {
		if c, ok := a.(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
	}
	return err
}
