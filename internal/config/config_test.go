package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig_GetOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name: "default directory",
			config: &Config{
				ResultsFileBase: DefaultResultsFileBase,
				ResultsFormat:   FormatJSON,
			},
			expected: "cth-results.json",
		},
		{
			name: "with output dir flag",
			config: &Config{
				ResultsFileBase: DefaultResultsFileBase,
				ResultsFormat:   FormatJSON,
				Flags:           Flags{OutputDir: "/tmp/out"},
			},
			expected: "/tmp/out/cth-results.json",
		},
		{
			name: "msgpack format",
			config: &Config{
				ResultsFileBase: DefaultResultsFileBase,
				ResultsFormat:   FormatMsgpack,
				Flags:           Flags{OutputDir: "/tmp/out"},
			},
			expected: "/tmp/out/cth-results.msgpack",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected := tt.expected
			if !filepath.IsAbs(expected) {
				expected, _ = filepath.Abs(expected)
			}
			result := tt.config.GetOutputPath()
			if result != expected {
				t.Errorf("expected %s, got %s", expected, result)
			}
		})
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.InputExt != DefaultInputExt {
		t.Errorf("expected InputExt %s, got %s", DefaultInputExt, cfg.InputExt)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected Timeout %s, got %s", DefaultTimeout, cfg.Timeout)
	}
	if cfg.DumpFlag != DefaultDumpFlag {
		t.Errorf("expected DumpFlag %s, got %s", DefaultDumpFlag, cfg.DumpFlag)
	}
	if !cfg.RoundTrip() {
		t.Error("round trip should be enabled by default")
	}
	if cfg.HasOutputDir() {
		t.Error("no output dir expected by default")
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfgFile := filepath.Join(dir, "cth.yaml")
	yamlContent := "input_ext: yml\ntimeout: 5s\nformat_name: YAML\ndump_flag: --dump\n"
	if err := os.WriteFile(cfgFile, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv(EnvPrefix+"TIMEOUT", "7s")
	t.Setenv(EnvPrefix+"FORMAT_NAME", "")

	cfg, err := Load(Flags{ConfigFile: cfgFile, DumpFlag: "-D", NoRoundTrip: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.InputExt != "yml" {
		t.Errorf("expected input ext from file, got %s", cfg.InputExt)
	}
	if cfg.Timeout != 7*time.Second {
		t.Errorf("expected timeout from environment, got %s", cfg.Timeout)
	}
	if cfg.FormatName != "YAML" {
		t.Errorf("expected format name from file, got %s", cfg.FormatName)
	}
	if cfg.DumpFlag != "-D" {
		t.Errorf("expected dump flag from flags, got %s", cfg.DumpFlag)
	}
	if cfg.RoundTrip() {
		t.Error("expected round trip disabled by flag")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	if err := os.WriteFile(filepath.Join(dir, DotEnvFile), []byte("CTH_DSN=user:pw@tcp(db:3306)/cth\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Setenv(EnvPrefix+"DSN", "")
	os.Unsetenv(EnvPrefix + "DSN")

	cfg, err := Load(Flags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.HasDatabase() {
		t.Fatal("expected DSN from .env")
	}
	if cfg.Database.DSN != "user:pw@tcp(db:3306)/cth" {
		t.Errorf("unexpected DSN %q", cfg.Database.DSN)
	}
}

func TestLoadFile_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cth.toml")
	content := "expected_ext = \"out\"\nresults_format = \"msgpack\"\n\n[database]\nhost = \"db.local\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg := New()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ExpectedExt != "out" {
		t.Errorf("expected ext out, got %s", cfg.ExpectedExt)
	}
	if cfg.ResultsFormat != FormatMsgpack {
		t.Errorf("expected msgpack, got %s", cfg.ResultsFormat)
	}
	if cfg.Database.Host != "db.local" {
		t.Errorf("expected db host db.local, got %s", cfg.Database.Host)
	}
}

func TestLoad_Errors(t *testing.T) {
	chdir(t, t.TempDir())

	tests := []struct {
		name  string
		flags Flags
	}{
		{"bad timeout", Flags{Timeout: "soon"}},
		{"negative timeout", Flags{Timeout: "-1s"}},
		{"clashing extensions", Flags{InputExt: "txt"}},
		{"unknown results format", Flags{ResultsFormat: "xml"}},
		{"missing config file", Flags{ConfigFile: "/non/existent/cth.yaml"}},
		{"unsupported config file", Flags{ConfigFile: "cth.ini"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.flags); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestGetDSN(t *testing.T) {
	t.Run("built from host settings", func(t *testing.T) {
		cfg := New()
		cfg.Database.Password = "secret"

		dsn, err := cfg.GetDSN()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(dsn, "root:secret@tcp(127.0.0.1:3306)/cth") {
			t.Errorf("unexpected DSN %q", dsn)
		}
	})

	t.Run("explicit DSN wins", func(t *testing.T) {
		cfg := New()
		cfg.Database.DSN = "user:pw@tcp(db:3307)/results"

		dsn, err := cfg.GetDSN()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dsn != cfg.Database.DSN {
			t.Errorf("expected %q, got %q", cfg.Database.DSN, dsn)
		}

		server, name, err := cfg.GetServerDSN()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if name != "results" {
			t.Errorf("expected database results, got %q", name)
		}
		if !strings.HasPrefix(server, "user:pw@tcp(db:3307)/") || strings.Contains(server, "results") {
			t.Errorf("unexpected server DSN %q", server)
		}
	})

	t.Run("invalid DSN", func(t *testing.T) {
		cfg := New()
		cfg.Database.DSN = "not a dsn"
		if _, err := cfg.GetDSN(); err == nil {
			t.Error("expected error for invalid DSN")
		}
	})
}
