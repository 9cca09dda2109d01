package config

import (
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
)

// GetDSN returns the MySQL data source name for the results database.
// An explicit DSN wins; otherwise one is built from the host settings.
func (c *Config) GetDSN() (string, error) {
	if c.Database.DSN != "" {
		if _, err := mysql.ParseDSN(c.Database.DSN); err != nil {
			return "", fmt.Errorf("invalid DSN: %w", err)
		}
		return c.Database.DSN, nil
	}
	return c.Database.ServerConfig(c.Database.Name).FormatDSN(), nil
}

// GetServerDSN returns the DSN of the MySQL server, without selecting a
// database, along with the name of the results database.
func (c *Config) GetServerDSN() (dsn, dbName string, err error) {
	if c.Database.DSN != "" {
		cfg, err := mysql.ParseDSN(c.Database.DSN)
		if err != nil {
			return "", "", fmt.Errorf("invalid DSN: %w", err)
		}
		dbName = cfg.DBName
		cfg.DBName = ""
		return cfg.FormatDSN(), dbName, nil
	}
	return c.Database.ServerConfig("").FormatDSN(), c.Database.Name, nil
}

// ServerConfig builds a driver config from the host settings
func (d Database) ServerConfig(dbName string) *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(d.Host, d.Port)
	cfg.DBName = dbName
	cfg.ParseTime = true
	return cfg
}
