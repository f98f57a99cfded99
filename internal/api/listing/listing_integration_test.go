//go:build integration

package listing

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "github.com/FACorreiaa/apuntes-marketplace/app/db"
	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

var (
	testPool *pgxpool.Pool
	testRepo *PostgresListingRepo
)

func TestMain(m *testing.M) {
	if err := godotenv.Load("../../../.env.test"); err != nil {
		log.Println("Warning: .env.test file not found for listing integration tests.")
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		log.Fatal("TEST_DATABASE_URL environment variable is not set for listing integration tests")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if err := database.RunMigrations(dbURL, logger); err != nil {
		log.Fatalf("Unable to migrate test database: %v", err)
	}

	var err error
	testPool, err = database.Init(context.Background(), dbURL, logger)
	if err != nil {
		log.Fatalf("Unable to create connection pool for listing tests: %v", err)
	}
	testRepo = NewPostgresListingRepo(testPool, logger)

	code := m.Run()
	testPool.Close()
	os.Exit(code)
}

func clearTables(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), "DELETE FROM listings")
	require.NoError(t, err)
	_, err = testPool.Exec(context.Background(), "DELETE FROM users")
	require.NoError(t, err)
}

func createTestUser(t *testing.T, username string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := testPool.QueryRow(context.Background(),
		`INSERT INTO users (username, email, password) VALUES ($1, $2, 'x') RETURNING id`,
		username, username+"@example.com").Scan(&id)
	require.NoError(t, err)
	return id
}

func seedListings(t *testing.T, owner uuid.UUID, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := testRepo.Create(context.Background(), &types.Listing{
			Name:        fmt.Sprintf("Apuntes %02d", i),
			Description: "Temario completo",
			Course:      "Fisica",
			Semester:    types.Semester(i%3 + 1),
			Price:       5,
			ImageURLs:   []string{"https://img.example.com/a.png"},
			UserRef:     owner,
		})
		require.NoError(t, err)
	}
}

func TestSearch_PagesAreDisjointAndComplete(t *testing.T) {
	clearTables(t)
	owner := createTestUser(t, "pager")
	seedListings(t, owner, 25)

	seen := map[uuid.UUID]bool{}
	start := 0
	for {
		page, total, err := testRepo.Search(context.Background(), types.ListingQuery{
			Sort:       types.SortCreatedAt,
			Limit:      10,
			StartIndex: start,
		})
		require.NoError(t, err)
		assert.Equal(t, 25, total)
		if len(page) == 0 {
			break
		}
		for _, l := range page {
			assert.False(t, seen[l.ID], "listing %s returned twice", l.ID)
			seen[l.ID] = true
		}
		start += len(page)
	}
	assert.Len(t, seen, 25)
}

func TestSearch_FiltersBySemesterAndName(t *testing.T) {
	clearTables(t)
	owner := createTestUser(t, "filter")
	seedListings(t, owner, 9)

	sem := types.Semester(2)
	page, total, err := testRepo.Search(context.Background(), types.ListingQuery{
		SearchTerm: "apuntes 0",
		Semester:   &sem,
		Limit:      20,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	for _, l := range page {
		assert.Equal(t, sem, l.Semester)
	}
}

func TestDeleteUser_CascadesToListings(t *testing.T) {
	clearTables(t)
	owner := createTestUser(t, "cascade")
	seedListings(t, owner, 3)

	_, err := testPool.Exec(context.Background(), "DELETE FROM users WHERE id = $1", owner)
	require.NoError(t, err)

	listings, err := testRepo.ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestCreate_UnknownOwnerIsNotFound(t *testing.T) {
	clearTables(t)
	_, err := testRepo.Create(context.Background(), &types.Listing{
		Name:        "Huerfano",
		Description: "Sin dueno",
		Course:      "Historia",
		Semester:    1,
		Price:       3,
		ImageURLs:   []string{"https://img.example.com/a.png"},
		UserRef:     uuid.New(),
	})
	assert.ErrorIs(t, err, types.ErrNotFound)
}
