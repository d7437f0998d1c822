//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	perr "geulpi/internal/platform/errors"
	"geulpi/internal/platform/store"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
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
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func TestCallerContext_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	s, err := store.Open(ctx, store.Config{
		AppName: "geulpi-ident-integration",
		PG:      store.PGConfig{Enabled: true, URL: dsn},
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() { _ = s.Close(context.Background()) }()

	ddl := `
		CREATE TABLE users (
			id uuid PRIMARY KEY,
			email text NOT NULL,
			display_name text,
			timezone text,
			created_at timestamptz NOT NULL DEFAULT now()
		)`
	if _, err := s.PG.Exec(ctx, ddl); err != nil {
		t.Fatalf("create users: %v", err)
	}

	const userID = "6d4a0f9e-5c11-4f8e-9d4e-1f2a3b4c5d6e"
	_, err = s.PG.Exec(ctx,
		`INSERT INTO users (id, email, display_name, timezone) VALUES ($1, $2, $3, $4)`,
		userID, "a@example.com", "Ada", "Asia/Seoul",
	)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	storage := NewPG().Bind(s.PG)

	cc, err := storage.CallerContext(ctx, userID)
	if err != nil {
		t.Fatalf("CallerContext: %v", err)
	}
	if cc.UserID != userID || cc.Email != "a@example.com" || cc.Timezone != "Asia/Seoul" {
		t.Fatalf("unexpected context: %+v", cc)
	}

	_, err = storage.CallerContext(ctx, "00000000-0000-0000-0000-000000000000")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("code = %v, want NotFound", perr.CodeOf(err))
	}
}
