//go:build integration

package repositories

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/BradenHooton/loginwatch/internal/database"
	"github.com/BradenHooton/loginwatch/internal/models"
)

// testDB is shared by every integration test in the package
var testDB *database.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, pool, err := startPostgres(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "integration setup failed: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	pool.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func startPostgres(ctx context.Context) (testcontainers.Container, *pgxpool.Pool, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("loginwatch"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	goose.SetLogger(log.New(io.Discard, "", 0))

	testDB = database.NewFromPool(pool, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := testDB.Migrate(ctx); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return container, pool, nil
}

// cleanupTables truncates all tables for test isolation
func cleanupTables(t *testing.T) {
	t.Helper()
	_, err := testDB.Pool.Exec(context.Background(), `TRUNCATE TABLE login_events, revoked_sessions, accounts CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func seedAccount(t *testing.T, email, role string) *models.Account {
	t.Helper()
	account, err := NewAccountRepository(testDB).Create(context.Background(), &models.Account{
		Email:    email,
		Name:     "Test " + role,
		Verified: true,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("failed to seed account: %v", err)
	}
	return account
}
