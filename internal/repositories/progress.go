package repositories

import (
	"context"
	"database/sql"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/sqlite"
	"log/slog"
)

// ProgressRepository stores progress snapshots. It satisfies progress.Snapshots.
type ProgressRepository struct {
	dbs    dbs
	logger *slog.Logger
}

func NewProgressRepository(db *sqlite.Database, logger *slog.Logger) *ProgressRepository {
	return &ProgressRepository{
		dbs:    newDBs(db),
		logger: logger.With("source", "ProgressRepository"),
	}
}

// Load returns the snapshot of playerID under key or nil when there is none.
func (r *ProgressRepository) Load(ctx context.Context, playerID, key string) ([]byte, error) {
	var blob []byte
	stmt := `SELECT blob FROM progress_snapshots WHERE player_id = ? AND storage_key = ?`
	if err := r.dbs.readOnly.GetContext(ctx, &blob, stmt, playerID, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select snapshot", slog.String("key", key))
	}
	return blob, nil
}

// Save replaces the snapshot of playerID under key.
func (r *ProgressRepository) Save(ctx context.Context, playerID, key string, blob []byte) error {
	stmt := `INSERT INTO progress_snapshots (player_id, storage_key, blob)
VALUES (:player_id, :storage_key, :blob)
ON CONFLICT (player_id, storage_key) DO UPDATE SET blob    = excluded.blob,
                                                   updated = STRFTIME('%Y-%m-%dT%H:%M:%fZ')`
	if _, err := r.dbs.readWrite.NamedExecContext(ctx, stmt, map[string]any{
		"player_id":   playerID,
		"storage_key": key,
		"blob":        blob,
	}); err != nil {
		return errors.Wrap(err, "upsert snapshot", slog.String("key", key))
	}
	return nil
}
