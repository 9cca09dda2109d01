package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// DotEnvFile is loaded from the working directory when present
const DotEnvFile = ".env"

// ApplyEnv loads the .env file, without overriding variables already set,
// and applies every CTH_* variable.
func (c *Config) ApplyEnv() error {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	setString(&c.InputExt, os.Getenv(EnvPrefix+"EXT"))
	setString(&c.ExpectedExt, os.Getenv(EnvPrefix+"EXPECTED_EXT"))
	setString(&c.ErrorExt, os.Getenv(EnvPrefix+"ERROR_EXT"))
	setString(&c.DumpFlag, os.Getenv(EnvPrefix+"DUMP_FLAG"))
	setString(&c.FormatName, os.Getenv(EnvPrefix+"FORMAT_NAME"))
	setString(&c.ResultsFormat, os.Getenv(EnvPrefix+"RESULTS_FORMAT"))

	setString(&c.Database.DSN, os.Getenv(EnvPrefix+"DSN"))
	setString(&c.Database.Host, os.Getenv(EnvPrefix+"DB_HOST"))
	setString(&c.Database.Port, os.Getenv(EnvPrefix+"DB_PORT"))
	setString(&c.Database.User, os.Getenv(EnvPrefix+"DB_USERNAME"))
	setString(&c.Database.Password, os.Getenv(EnvPrefix+"DB_PASSWORD"))
	setString(&c.Database.Name, os.Getenv(EnvPrefix+"DB_DATABASE"))

	if v := os.Getenv(EnvPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sTIMEOUT %q: %w", EnvPrefix, v, err)
		}
		c.Timeout = d
	}
	return nil
}
