//go:build integration_pg
// +build integration_pg

package configstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "postgres",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, port.Port())
}

func TestPostgres_Integration(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	s, err := Open(ctx, Options{Driver: "postgres", URL: dsn, MaxConns: 2, AppName: "word-replacer-test"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = s.Close(ctx) }()

	roundTrip(t, s)

	// opening again must tolerate the existing table
	s2, err := Open(ctx, Options{Driver: "postgres", URL: dsn})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s2.Close(ctx) }()
	c, err := s2.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if v, ok := c.Table.Lookup("x"); !ok || v != "y" {
		t.Fatalf("persisted table = %+v", c.Document())
	}
}
