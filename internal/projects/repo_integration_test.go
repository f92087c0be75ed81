package projects

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blechwerk/zeichnungsarchiv/internal/storage/postgres"
)

// setupTestDB connects to the Postgres named by TEST_DB_DSN (or the TEST_DB_*
// variables) and runs the migrations. Skips when no database is configured.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		host := os.Getenv("TEST_DB_HOST")
		port := os.Getenv("TEST_DB_PORT")
		user := os.Getenv("TEST_DB_USER")
		password := os.Getenv("TEST_DB_PASSWORD")
		dbname := os.Getenv("TEST_DB_NAME")
		if host == "" || port == "" || user == "" || dbname == "" {
			t.Skip("TEST_DB_DSN or TEST_DB_* environment variables not set, skipping Postgres integration test")
		}
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			user, password, host, port, dbname)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(ctx))
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

func createTestProject(t *testing.T, repo *Repo, pool *pgxpool.Pool, name, nummer string) *Project {
	t.Helper()

	p, err := repo.Create(context.Background(), name, nummer)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `delete from projects where id = $1`, p.ID)
	})
	return p
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewRepo(pool)

	p := createTestProject(t, repo, pool, "Getriebe", "Z-100")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, p.CreatedAt, p.EditDate)

	got, err := repo.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Getriebe", got.Name)
	assert.Equal(t, "Z-100", got.Zeichnungsnummer)
}

// Rapid creates land in the same millisecond and collide on the timestamp id;
// the retry loop must resolve every collision to a fresh unique id.
func TestRapidCreatesGetUniqueIDs(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewRepo(pool)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		p := createTestProject(t, repo, pool, fmt.Sprintf("Projekt %d", i), "")
		assert.False(t, seen[p.ID], "duplicate project id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestUpdateMergeSemantics(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewRepo(pool)
	ctx := context.Background()

	p := createTestProject(t, repo, pool, "Getriebe", "Z-100")

	// an empty name keeps the stored one
	got, err := repo.Update(ctx, p.ID, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Getriebe", got.Name)
	assert.Equal(t, "Z-100", got.Zeichnungsnummer)

	// an explicitly sent empty drawing number clears it
	empty := ""
	got, err = repo.Update(ctx, p.ID, "Getriebe v2", &empty)
	require.NoError(t, err)
	assert.Equal(t, "Getriebe v2", got.Name)
	assert.Equal(t, "", got.Zeichnungsnummer)
	assert.True(t, got.EditDate.After(got.CreatedAt) || got.EditDate.Equal(got.CreatedAt))
}

func TestUpdateUnknownProject(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewRepo(pool)

	_, err := repo.Update(context.Background(), "0", "Name", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUnknownProjectIsNoop(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewRepo(pool)

	assert.NoError(t, repo.Delete(context.Background(), "0"))
}
