package db

import (
	"context"
	"database/sql"
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

type Config struct {
	DBURL  string
	Driver string
}

// Open opens the posts database and verifies the connection.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "postgres"
	}

	conn, err := sql.Open(driver, cfg.DBURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	if err = conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	// Configure database connection pool settings
	conn.SetMaxOpenConns(20)
	conn.SetMaxIdleConns(10)

	log.Println("Database connection initialized successfully.")
	return conn, nil
}

// LoadDBConfig retrieves the database URL from environment variables.
func LoadDBConfig() (*Config, error) {
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		return nil, errors.New("database URL (DB_URL) environment variable is not set")
	}

	return &Config{
		DBURL:  dbURL,
		Driver: "postgres",
	}, nil
}
