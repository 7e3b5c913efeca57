package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// GuestKey is the snapshot key used when no user identity is present
const GuestKey = "healthApp_guest"

// SnapshotKey derives the storage key for a user identity. The key
// format is shared with earlier clients of the same backend; changing it
// would orphan existing saved data.
func SnapshotKey(userID string) string {
	if userID == "" {
		return GuestKey
	}
	return fmt.Sprintf("healthApp_user_%s", userID)
}

// Snapshot is a persisted copy of a dashboard ViewModel plus upload
// metadata, one row per user key, overwritten on each successful upload.
type Snapshot struct {
	Key        string          `json:"key" db:"key"`
	UserID     string          `json:"user_id" db:"user_id"`
	DataID     string          `json:"data_id" db:"data_id"`
	FileName   string          `json:"fileName" db:"file_name"`
	Payload    json.RawMessage `json:"payload" db:"payload"`
	UploadDate time.Time       `json:"uploadDate" db:"upload_date"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}
