// Package test contains helpers for testing.
package test

import (
	"context"
	"os"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"github.com/rfxtrx/rfxtrx-gateway/internal/config"
	"github.com/rfxtrx/rfxtrx-gateway/internal/storage"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

// GetConfig returns the test configuration.
func GetConfig() config.Config {
	var c config.Config

	c.Redis.Servers = []string{"localhost:6379"}
	c.PostgreSQL.DSN = "postgres://localhost/rfxtrx_gateway_test?sslmode=disable"
	c.PostgreSQL.Automigrate = true

	if v := os.Getenv("TEST_REDIS_SERVER"); v != "" {
		c.Redis.Servers = []string{v}
	}
	if v := os.Getenv("TEST_POSTGRES_DSN"); v != "" {
		c.PostgreSQL.DSN = v
	}

	return c
}

// MustFlushRedis flushes the Redis database.
func MustFlushRedis() {
	if err := storage.RedisClient().FlushAll(context.Background()).Err(); err != nil {
		log.Fatal(err)
	}
}

// MustResetDB re-applies all database migrations.
func MustResetDB(db *sqlx.DB) {
	if err := storage.MigrateDown(db); err != nil {
		log.Fatal(err)
	}
	if err := storage.MigrateUp(db); err != nil {
		log.Fatal(err)
	}
}
