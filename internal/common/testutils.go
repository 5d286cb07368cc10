package common

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB starts a throwaway postgres container, applies the migrations found
// at migrationsURL (relative to the caller, e.g. "file://../../migrations")
// and returns an open pool. The container is torn down with the test.
func TestDB(migrationsURL string, t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	c, err := postgres.Run(ctx,
		"docker.io/postgres:14.11-bookworm",
		postgres.WithDatabase("bloglist_test"),
		postgres.WithUsername("bloglist"),
		postgres.WithPassword("bloglist"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)))
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}

	m, err := migrate.New(migrationsURL, dsn)
	if err != nil {
		t.Fatalf("create migrator: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("apply migrations: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		m.Drop()
		c.Terminate(ctx)
	})

	return db
}

// TestRabbitMQ starts a throwaway rabbitmq container and returns its AMQP URL.
func TestRabbitMQ(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	c, err := rabbitmq.Run(ctx, "rabbitmq:3.12.11-management-alpine",
		rabbitmq.WithAdminUsername("guest"),
		rabbitmq.WithAdminPassword("guest"))
	if err != nil {
		t.Fatalf("start rabbitmq container: %v", err)
	}

	amqpURL, err := c.AmqpURL(ctx)
	if err != nil {
		t.Fatalf("rabbitmq amqp url: %v", err)
	}

	t.Cleanup(func() {
		if err := c.Terminate(ctx); err != nil {
			t.Fatalf("terminate rabbitmq container: %v", err)
		}
	})

	return amqpURL
}
