package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/microblog/internal/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer starts a throwaway Postgres with the schema applied.
func setupPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "microblog", "POSTGRES_USER": "postgres"},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := sqlx.ConnectContext(ctx, "pgx",
		fmt.Sprintf("postgres://postgres:password@%s:%s/microblog?sslmode=disable", host, port.Port()))
	require.NoError(t, err)
	require.NoError(t, migrations.Up(ctx, db))

	return db, func() {
		db.Close()
		_ = container.Terminate(ctx)
	}
}

func createUser(t *testing.T, db *sqlx.DB, username string) uuid.UUID {
	t.Helper()
	id, err := NewUserRepository(db, nil).Create(context.Background(), username, username+"@example.com", "hash")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	return id
}
