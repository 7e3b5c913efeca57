package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/healthdash/healthdash-go/internal/database/models"
	"github.com/healthdash/healthdash-go/internal/database/repositories"
)

// SnapshotRepository implements repositories.SnapshotRepository
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(db *sql.DB) repositories.SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Get retrieves a snapshot by key; a missing row yields (nil, nil)
func (r *SnapshotRepository) Get(ctx context.Context, key string) (*models.Snapshot, error) {
	query := `
		SELECT key, user_id, data_id, file_name, payload, upload_date, created_at, updated_at
		FROM snapshots
		WHERE key = ?
	`

	snapshot := &models.Snapshot{}
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&snapshot.Key,
		&snapshot.UserID,
		&snapshot.DataID,
		&snapshot.FileName,
		&snapshot.Payload,
		&snapshot.UploadDate,
		&snapshot.CreatedAt,
		&snapshot.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return snapshot, nil
}

// Upsert inserts or overwrites the snapshot for its key
func (r *SnapshotRepository) Upsert(ctx context.Context, snapshot *models.Snapshot) error {
	query := `
		INSERT INTO snapshots (key, user_id, data_id, file_name, payload, upload_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			user_id = excluded.user_id,
			data_id = excluded.data_id,
			file_name = excluded.file_name,
			payload = excluded.payload,
			upload_date = excluded.upload_date,
			updated_at = excluded.updated_at
	`

	now := time.Now()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = now
	}
	snapshot.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		snapshot.Key,
		snapshot.UserID,
		snapshot.DataID,
		snapshot.FileName,
		[]byte(snapshot.Payload),
		snapshot.UploadDate,
		snapshot.CreatedAt,
		snapshot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	return nil
}

// Delete removes the snapshot for a key; deleting a missing key is a no-op
func (r *SnapshotRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM snapshots WHERE key = ?`

	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
