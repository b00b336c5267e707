package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SetupPostgres returns the DSN of a reachable Postgres. TEST_DB_DSN wins;
// otherwise a throwaway container is started. The cleanup func terminates
// the container.
func SetupPostgres(ctx context.Context) (string, func(), error) {
	if dsn := os.Getenv("TEST_DB_DSN"); dsn != "" {
		if err := waitForPostgres(dsn, 1); err != nil {
			return "", nil, err
		}
		return dsn, func() {}, nil
	}

	req := testcontainers.ContainerRequest{
		Image: "postgres:15",
		Env: map[string]string{
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_USER":     "test",
			"POSTGRES_DB":       "nominations",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", nil, fmt.Errorf("start postgres container: %w", err)
	}
	cleanup := func() { _ = pg.Terminate(context.Background()) }

	host, err := pg.Host(ctx)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	port, err := pg.MappedPort(ctx, "5432")
	if err != nil {
		cleanup()
		return "", nil, err
	}

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=nominations sslmode=disable", host, port.Port())
	if err := waitForPostgres(dsn, 10); err != nil {
		cleanup()
		return "", nil, err
	}
	return dsn, cleanup, nil
}

// waitForPostgres pings through database/sql until the server answers.
func waitForPostgres(dsn string, attempts int) error {
	var err error
	for i := 0; i < attempts; i++ {
		var db *sql.DB
		db, err = sql.Open("postgres", dsn)
		if err == nil {
			err = db.Ping()
			_ = db.Close()
			if err == nil {
				return nil
			}
		}
		time.Sleep(time.Second)
	}
	return fmt.Errorf("postgres not reachable: %w", err)
}
