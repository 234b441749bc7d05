package testhelper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Container credentials, exported so tests can build a config.PostgresConfig.
const (
	User     = "testuser"
	Password = "testpass"
	DBName   = "testdb"
)

var (
	once       sync.Once
	sharedDSN  string
	sharedHost string
	sharedPort int
	initErr    error
)

// Endpoint describes the shared test database.
type Endpoint struct {
	Host string
	Port int
	DSN  string
}

// SetupTestDB starts a shared PostgreSQL container (once for the entire test run),
// applies goose migrations, and returns a new pgxpool.Pool connected to it.
// The pool is closed via t.Cleanup; the container lives until the process exits.
func SetupTestDB(t *testing.T) (*pgxpool.Pool, Endpoint) {
	t.Helper()

	once.Do(func() {
		sharedDSN, sharedHost, sharedPort, initErr = startContainerAndMigrate()
	})
	if initErr != nil {
		t.Fatalf("testhelper: failed to setup test DB: %v", initErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, sharedDSN)
	if err != nil {
		t.Fatalf("testhelper: failed to create pgxpool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
	})

	return pool, Endpoint{Host: sharedHost, Port: sharedPort, DSN: sharedDSN}
}

// CloneTable creates an empty, uniquely named copy of template (columns,
// defaults, indexes) and drops it on cleanup. Sweeps touch every expired row
// in a table, so parallel tests each work on their own clone.
func CloneTable(t *testing.T, pool *pgxpool.Pool, template string) string {
	t.Helper()
	ctx := context.Background()

	name := template + "_" + uniqueSuffix()
	ident := pgx.Identifier{name}.Sanitize()

	_, err := pool.Exec(ctx, fmt.Sprintf(
		"CREATE TABLE %s (LIKE %s INCLUDING ALL)", ident, pgx.Identifier{template}.Sanitize(),
	))
	if err != nil {
		t.Fatalf("testhelper: clone %s: %v", template, err)
	}

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+ident)
	})

	return name
}

func startContainerAndMigrate() (string, string, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     User,
			"POSTGRES_PASSWORD": Password,
			"POSTGRES_DB":       DBName,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", "", 0, fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", "", 0, fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", "", 0, fmt.Errorf("get mapped port: %w", err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", User, Password, host, port.Port(), DBName)

	// Apply goose migrations using database/sql (goose requires *sql.DB).
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return "", "", 0, fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return "", "", 0, fmt.Errorf("db ping: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(migrationsPath()))
	if err != nil {
		return "", "", 0, fmt.Errorf("goose new provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return "", "", 0, fmt.Errorf("goose up: %w", err)
	}

	return dsn, host, port.Int(), nil
}

// migrationsPath resolves the absolute path to migrations/ relative
// to the current source file using runtime.Caller.
func migrationsPath() string {
	_, currentFile, _, _ := runtime.Caller(0)
	// currentFile is .../internal/adapter/postgres/testhelper/db.go
	return filepath.Join(filepath.Dir(currentFile), "..", "..", "..", "..", "migrations")
}
