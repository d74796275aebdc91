package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	pgUser     = "formflow"
	pgPassword = "formflow"
	pgDatabase = "formflow_test"
)

// journalBackend is a container started at most once per test binary and
// shared by every journal test that needs it.
type journalBackend struct {
	image string
	port  nat.Port
	env   map[string]string
	wait  wait.Strategy

	// address turns the mapped host:port into the URL the store dials.
	address func(hostPort string) string

	once sync.Once
	url  string
	err  error
}

func (b *journalBackend) get(t *testing.T) string {
	t.Helper()
	RequireDocker(t)

	b.once.Do(func() {
		// Generous timeout for CI image pulls.
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		opts := []testcontainers.ContainerCustomizer{
			testcontainers.WithExposedPorts(string(b.port)),
			testcontainers.WithWaitStrategy(b.wait),
		}
		if len(b.env) > 0 {
			opts = append(opts, testcontainers.WithEnv(b.env))
		}

		c, err := testcontainers.Run(ctx, b.image, opts...)
		if err != nil {
			b.err = err
			return
		}
		t.Cleanup(func() {
			testcontainers.CleanupContainer(t, c)
		})

		endpoint, err := c.PortEndpoint(ctx, b.port, "")
		if err != nil {
			b.err = err
			return
		}
		b.url = b.address(endpoint)
	})

	if b.err != nil {
		t.Skipf("%s container unavailable: %v", b.image, b.err)
	}
	return b.url
}

var postgresBackend = &journalBackend{
	image: "postgres:16",
	port:  "5432/tcp",
	env: map[string]string{
		"POSTGRES_USER":     pgUser,
		"POSTGRES_PASSWORD": pgPassword,
		"POSTGRES_DB":       pgDatabase,
	},
	wait: wait.ForAll(
		wait.ForListeningPort("5432/tcp"),
		wait.ForLog("ready to accept connections"),
		wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
			return postgresURL(fmt.Sprintf("%s:%s", host, port.Port()))
		}).WithQuery("SELECT 1"),
	).WithDeadline(2 * time.Minute),
	address: postgresURL,
}

var redisBackend = &journalBackend{
	image: "redis:latest",
	port:  "6379/tcp",
	wait: wait.ForAll(
		wait.ForListeningPort("6379/tcp"),
		wait.ForLog("Ready to accept connections"),
	),
	address: func(hostPort string) string { return hostPort },
}

var mongoBackend = &journalBackend{
	image: "mongo:7",
	port:  "27017/tcp",
	wait: wait.ForAll(
		wait.ForListeningPort("27017/tcp"),
		wait.ForLog("mongod startup complete"),
	),
	address: func(hostPort string) string { return "mongodb://" + hostPort },
}

func postgresURL(hostPort string) string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", pgUser, pgPassword, hostPort, pgDatabase)
}

// GetPostgresEndpoint returns a pgx DSN for the shared Postgres container.
func GetPostgresEndpoint(t *testing.T) string {
	t.Helper()
	return postgresBackend.get(t)
}

// GetRedisAddress returns host:port of the shared Redis container.
func GetRedisAddress(t *testing.T) string {
	t.Helper()
	return redisBackend.get(t)
}

// GetMongoURI returns a mongodb:// URI for the shared MongoDB container.
func GetMongoURI(t *testing.T) string {
	t.Helper()
	return mongoBackend.get(t)
}
