package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/healthdash/healthdash-go/internal/database/models"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	createTableSQL := `
		CREATE TABLE IF NOT EXISTS snapshots (
			key         TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL DEFAULT '',
			data_id     TEXT NOT NULL DEFAULT '',
			file_name   TEXT NOT NULL DEFAULT '',
			payload     BLOB NOT NULL,
			upload_date TIMESTAMP NOT NULL,
			created_at  TIMESTAMP NOT NULL,
			updated_at  TIMESTAMP NOT NULL
		)
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create test table: %v", err)
	}

	return db
}

func testSnapshot(userID string) *models.Snapshot {
	payload, _ := json.Marshal(map[string]interface{}{
		"metrics": map[string]interface{}{"totalPatients": 10},
	})
	return &models.Snapshot{
		Key:        models.SnapshotKey(userID),
		UserID:     userID,
		DataID:     "ds-1",
		FileName:   "readings.csv",
		Payload:    payload,
		UploadDate: time.Now(),
	}
}

func TestSnapshotRepository_UpsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewSnapshotRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testSnapshot("alice")))

	got, err := repo.Get(ctx, "healthApp_user_alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.UserID)
	assert.Equal(t, "ds-1", got.DataID)
	assert.Equal(t, "readings.csv", got.FileName)
	assert.JSONEq(t, `{"metrics":{"totalPatients":10}}`, string(got.Payload))
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSnapshotRepository_UpsertOverwrites(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewSnapshotRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testSnapshot("alice")))

	second := testSnapshot("alice")
	second.DataID = "ds-2"
	second.FileName = "newer.csv"
	require.NoError(t, repo.Upsert(ctx, second))

	got, err := repo.Get(ctx, "healthApp_user_alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ds-2", got.DataID)
	assert.Equal(t, "newer.csv", got.FileName)
}

func TestSnapshotRepository_GetMissingIsNil(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewSnapshotRepository(db)

	got, err := repo.Get(context.Background(), "healthApp_guest")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewSnapshotRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testSnapshot("")))

	got, err := repo.Get(ctx, models.GuestKey)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, repo.Delete(ctx, models.GuestKey))

	got, err = repo.Get(ctx, models.GuestKey)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again is a no-op
	assert.NoError(t, repo.Delete(ctx, models.GuestKey))
}
