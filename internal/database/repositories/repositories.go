package repositories

import (
	"context"

	"github.com/healthdash/healthdash-go/internal/database/models"
)

// SnapshotRepository persists per-user dashboard snapshots. A missing
// snapshot is a normal state, reported as (nil, nil).
type SnapshotRepository interface {
	Get(ctx context.Context, key string) (*models.Snapshot, error)
	Upsert(ctx context.Context, snapshot *models.Snapshot) error
	Delete(ctx context.Context, key string) error
}
