package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Fixture layout
	InputExt    string
	ExpectedExt string
	ErrorExt    string

	// Encoder protocol
	DumpFlag string
	Timeout  time.Duration

	// Report settings
	FormatName string

	// Output settings
	ResultsFileBase string
	ResultsFormat   string

	// Results database
	Database Database

	// Command flags
	Flags Flags
}

// Database holds the MySQL connection settings for stored runs
type Database struct {
	DSN      string // Takes precedence over the fields below
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Flags holds command-line flags
type Flags struct {
	Pattern       string
	OutputDir     string
	FailFast      bool
	NoRoundTrip   bool
	Verbose       bool
	NoColor       bool
	Progress      bool
	TestCases     bool
	Stats         bool
	ConfigFile    string
	InputExt      string
	ExpectedExt   string
	ErrorExt      string
	DumpFlag      string
	Timeout       string
	FormatName    string
	ResultsFormat string
	DSN           string
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		InputExt:        DefaultInputExt,
		ExpectedExt:     DefaultExpectedExt,
		ErrorExt:        DefaultErrorExt,
		DumpFlag:        DefaultDumpFlag,
		Timeout:         DefaultTimeout,
		FormatName:      DefaultFormatName,
		ResultsFileBase: DefaultResultsFileBase,
		ResultsFormat:   DefaultResultsFormat,
		Database: Database{
			Host: DefaultDBHost,
			Port: DefaultDBPort,
			User: DefaultDBUser,
			Name: DefaultDBName,
		},
	}
}

// Load builds the configuration from defaults, the optional config file,
// the environment and finally the flags.
func Load(flags Flags) (*Config, error) {
	cfg := New()

	if flags.ConfigFile != "" {
		if err := cfg.LoadFile(flags.ConfigFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.ApplyFlags(flags); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyFlags overrides settings with the flags that were given
func (c *Config) ApplyFlags(flags Flags) error {
	c.Flags = flags

	setString(&c.InputExt, flags.InputExt)
	setString(&c.ExpectedExt, flags.ExpectedExt)
	setString(&c.ErrorExt, flags.ErrorExt)
	setString(&c.DumpFlag, flags.DumpFlag)
	setString(&c.FormatName, flags.FormatName)
	setString(&c.ResultsFormat, flags.ResultsFormat)
	setString(&c.Database.DSN, flags.DSN)

	if flags.Timeout != "" {
		d, err := time.ParseDuration(flags.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", flags.Timeout, err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate checks the settings are usable
func (c *Config) Validate() error {
	for name, ext := range map[string]string{"input": c.InputExt, "expected": c.ExpectedExt, "error": c.ErrorExt} {
		if ext == "" || strings.ContainsAny(ext, `/\`) {
			return fmt.Errorf("invalid %s file extension %q", name, ext)
		}
	}
	if c.InputExt == c.ExpectedExt || c.InputExt == c.ErrorExt || c.ExpectedExt == c.ErrorExt {
		return fmt.Errorf("fixture file extensions must differ (input %q, expected %q, error %q)", c.InputExt, c.ExpectedExt, c.ErrorExt)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	switch c.ResultsFormat {
	case FormatJSON, FormatMsgpack:
	default:
		return fmt.Errorf("unknown results format %q (want %s or %s)", c.ResultsFormat, FormatJSON, FormatMsgpack)
	}
	return nil
}

// RoundTrip reports whether the loop and idempotence phases run
func (c *Config) RoundTrip() bool {
	return !c.Flags.NoRoundTrip
}

// HasOutputDir reports whether results should be stored
func (c *Config) HasOutputDir() bool {
	return c.Flags.OutputDir != ""
}

// GetOutputDir returns the results directory, falling back to the default
func (c *Config) GetOutputDir() string {
	if c.Flags.OutputDir != "" {
		return c.Flags.OutputDir
	}
	return DefaultOutputDir
}

// GetOutputPath returns the absolute path of the results file.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.GetOutputDir(), c.ResultsFileBase+"."+c.ResultsFormat)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// HasDatabase reports whether runs are also recorded in MySQL
func (c *Config) HasDatabase() bool {
	return c.Database.DSN != ""
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
