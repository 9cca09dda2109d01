package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// File is the on-disk configuration, in YAML or TOML
type File struct {
	InputExt      string `yaml:"input_ext" toml:"input_ext"`
	ExpectedExt   string `yaml:"expected_ext" toml:"expected_ext"`
	ErrorExt      string `yaml:"error_ext" toml:"error_ext"`
	DumpFlag      string `yaml:"dump_flag" toml:"dump_flag"`
	Timeout       string `yaml:"timeout" toml:"timeout"`
	FormatName    string `yaml:"format_name" toml:"format_name"`
	ResultsFormat string `yaml:"results_format" toml:"results_format"`
	Database      struct {
		DSN      string `yaml:"dsn" toml:"dsn"`
		Host     string `yaml:"host" toml:"host"`
		Port     string `yaml:"port" toml:"port"`
		User     string `yaml:"user" toml:"user"`
		Password string `yaml:"password" toml:"password"`
		Name     string `yaml:"name" toml:"name"`
	} `yaml:"database" toml:"database"`
}

// LoadFile reads a .yaml, .yml or .toml config file and applies the values it sets
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("parse config file %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &f); err != nil {
			return fmt.Errorf("parse config file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file type %q (want .yaml, .yml or .toml)", ext)
	}
	return c.applyFile(f)
}

func (c *Config) applyFile(f File) error {
	setString(&c.InputExt, f.InputExt)
	setString(&c.ExpectedExt, f.ExpectedExt)
	setString(&c.ErrorExt, f.ErrorExt)
	setString(&c.DumpFlag, f.DumpFlag)
	setString(&c.FormatName, f.FormatName)
	setString(&c.ResultsFormat, f.ResultsFormat)
	setString(&c.Database.DSN, f.Database.DSN)
	setString(&c.Database.Host, f.Database.Host)
	setString(&c.Database.Port, f.Database.Port)
	setString(&c.Database.User, f.Database.User)
	setString(&c.Database.Password, f.Database.Password)
	setString(&c.Database.Name, f.Database.Name)

	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q in config file: %w", f.Timeout, err)
		}
		c.Timeout = d
	}
	return nil
}
