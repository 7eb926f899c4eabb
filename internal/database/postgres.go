package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/quantdesk/tradechat-go/internal/config"
)

type PostgresDB struct {
	Pool *pgxpool.Pool
}

// NewPostgresConnection opens a pooled connection to the trading database.
// hostOverride/portOverride replace the configured address when the SSH
// tunnel is active; pass "" and 0 to use the config values.
func NewPostgresConnection(cfg config.DatabaseConfig, hostOverride string, portOverride int) (*PostgresDB, error) {
	host := cfg.Host
	port := cfg.Port
	if hostOverride != "" {
		host = hostOverride
	}
	if portOverride != 0 {
		port = portOverride
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		host, port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode, cfg.MaxConns,
	)

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Successfully connected to PostgreSQL")

	return &PostgresDB{Pool: pool}, nil
}

func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		logrus.Info("PostgreSQL connection closed")
	}
}

func (db *PostgresDB) HealthCheck(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}
