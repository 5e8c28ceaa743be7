package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sadopc/schemagen/internal/adapter"
	"github.com/sadopc/schemagen/internal/adapter/mysql"
	"github.com/sadopc/schemagen/internal/config"
)

// connFlags holds the flags that pick a schema source.
type connFlags struct {
	adapter    string
	dsn        string
	host       string
	port       int
	user       string
	password   string
	database   string
	file       string
	connection string
}

var errNoConnection = errors.New("no connection: use --dsn, --adapter or --connection")

// resolve returns the adapter name and DSN described by the flags. A saved
// connection takes precedence over every other flag.
func (f connFlags) resolve(cfg *config.Config) (string, string, error) {
	if f.connection != "" {
		sc, ok := cfg.Connection(f.connection)
		if !ok {
			return "", "", fmt.Errorf("no saved connection %q", f.connection)
		}
		return sc.Adapter, sc.BuildDSN(), nil
	}

	name := strings.ToLower(f.adapter)
	dsn := f.dsn
	if dsn == "" && f.file != "" && name == "" {
		dsn = f.file
	}
	if name == "" && dsn != "" {
		name = detectAdapter(dsn)
	}
	if name == "" {
		return "", "", errNoConnection
	}
	if dsn == "" {
		dsn = buildDSN(name, f)
	}
	if dsn == "" {
		return "", "", fmt.Errorf("%s: --file is required", name)
	}
	return name, dsn, nil
}

// detectAdapter guesses the adapter from the shape of a DSN.
func detectAdapter(dsn string) string {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(lower, "mysql://"):
		return "mysql"
	case strings.HasPrefix(lower, "file://"):
		return "file"
	case strings.HasPrefix(lower, "sqlite://"):
		return "sqlite"
	case strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml"):
		return "file"
	case strings.HasSuffix(lower, ".db") || strings.HasSuffix(lower, ".sqlite") || strings.HasSuffix(lower, ".sqlite3"):
		return "sqlite"
	case strings.Contains(lower, "@tcp(") || strings.Contains(lower, "@unix("):
		return "mysql"
	case strings.Contains(lower, "host=") || strings.Contains(lower, "dbname="):
		return "postgres"
	}
	return ""
}

// buildDSN assembles a DSN for name from the individual connection flags.
func buildDSN(name string, f connFlags) string {
	if name == "mysql" {
		return mysql.BuildDSN(f.host, f.port, f.user, f.password, f.database)
	}
	sc := config.SavedConnection{
		Adapter:  name,
		Host:     f.host,
		Port:     f.port,
		User:     f.user,
		Password: f.password,
		Database: f.database,
		File:     f.file,
	}
	return sc.BuildDSN()
}

func adapterList() string {
	return strings.Join(adapter.Names(), ", ")
}
