package database

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"                        // Postgres driver
	_ "github.com/trinodb/trino-go-client/trino" // Trino driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	TypeTrino    = "trino"
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
	TypeMongoDB  = "mongodb"
	TypeMemory   = "memory"
)

// Config holds configuration for the SWIFT code store.
type Config struct {
	Type            string        `koanf:"type"`
	ServerURI       string        `koanf:"server_uri"`
	Catalog         string        `koanf:"catalog"`
	Schema          string        `koanf:"schema"`
	TableName       string        `koanf:"table_name"`
	SchemaFile      string        `koanf:"schema_file"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
}

// IsSQL reports whether the configured store is reached through database/sql.
func (c Config) IsSQL() bool {
	switch c.Type {
	case TypeTrino, TypePostgres, TypeSQLite:
		return true
	}
	return false
}

// QualifiedTableName returns the table reference used in queries.
func (c Config) QualifiedTableName() string {
	switch c.Type {
	case TypeTrino:
		return fmt.Sprintf("%s.%s.%s", c.Catalog, c.Schema, c.TableName)
	case TypePostgres:
		if c.Schema != "" {
			return fmt.Sprintf("%s.%s", c.Schema, c.TableName)
		}
	}
	return c.TableName
}

// DSN builds the driver data source name.
func (c Config) DSN() (string, error) {
	switch c.Type {
	case TypeTrino:
		return fmt.Sprintf("%s?catalog=%s&schema=%s", c.ServerURI, c.Catalog, c.Schema), nil
	case TypePostgres, TypeSQLite:
		return c.ServerURI, nil
	}
	return "", fmt.Errorf("unsupported database type: %s", c.Type)
}

func (c Config) inMemorySQLite() bool {
	if c.Type != TypeSQLite {
		return false
	}
	return c.ServerURI == ":memory:" || strings.HasPrefix(c.ServerURI, "file::memory:") ||
		strings.Contains(c.ServerURI, "mode=memory")
}

// Database provides a database/sql connection to one of the SQL stores.
type Database struct {
	*sql.DB
	Config Config
	logger *zap.Logger
}

// New opens and verifies a connection, then executes the schema file if one
// is configured.
func New(config Config, logger *zap.Logger) (*Database, error) {
	if !config.IsSQL() {
		return nil, fmt.Errorf("unsupported database type: %s", config.Type)
	}

	dsn, err := config.DSN()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(config.Type, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", config.Type, err)
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(config.ConnMaxLifetime)
	}
	if config.inMemorySQLite() {
		// Every sqlite connection to :memory: opens its own empty database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", config.Type, err)
	}

	database := &Database{DB: db, Config: config, logger: logger}

	if config.SchemaFile != "" {
		if err := database.ExecuteSchema(config.SchemaFile); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute schema: %w", err)
		}
	}

	return database, nil
}

// ExecuteSchema loads and executes a schema file one statement at a time.
func (db *Database) ExecuteSchema(filePath string) error {
	logger := db.log()
	logger.Info("executing schema", zap.String("path", filePath))

	schemaSQL, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	// Trino does not support multi-statement execution
	queries := strings.Split(string(schemaSQL), ";")

	for _, query := range queries {
		query = stripComments(query)
		if query == "" {
			continue
		}

		logger.Debug("executing schema statement", zap.String("query", query))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %s, error: %w", query, err)
		}
	}

	logger.Info("schema successfully executed")
	return nil
}

func (db *Database) log() *zap.Logger {
	if db.logger == nil {
		return zap.NewNop()
	}
	return db.logger
}

// stripComments drops "--" comment lines and surrounding whitespace.
func stripComments(statement string) string {
	lines := strings.Split(statement, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
