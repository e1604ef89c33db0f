package progress

import (
	"context"
	"github.com/homecrimes/caseroom/internal/errors"
	"log/slog"
)

// Snapshots stores one opaque progress blob per owner and storage key.
// Load returns a nil blob without error when nothing is stored.
type Snapshots interface {
	Load(ctx context.Context, owner, key string) ([]byte, error)
	Save(ctx context.Context, owner, key string, blob []byte) error
}

// StorageKey versions the key so that a new case version never reads old progress.
func StorageKey(prefix, version string) string {
	return prefix + "-" + version
}

// Service loads and saves the progress of a single player. Construct one per request.
type Service struct {
	snapshots Snapshots
	logger    *slog.Logger
	owner     string
	prefix    string
}

func NewService(snapshots Snapshots, logger *slog.Logger, owner, prefix string) *Service {
	return &Service{
		snapshots: snapshots,
		logger:    logger,
		owner:     owner,
		prefix:    prefix,
	}
}

// Load returns the stored progress for version. Failures are logged and yield empty progress.
func (s *Service) Load(ctx context.Context, version string) Progress {
	key := StorageKey(s.prefix, version)
	blob, err := s.snapshots.Load(ctx, s.owner, key)
	if err != nil {
		err = errors.Wrap(err, "load progress snapshot", slog.String("storage_key", key))
		s.logger.LogAttrs(ctx, slog.LevelError, "falling back to empty progress", errors.SlogError(err))
		return Empty(version)
	}
	p, err := Decode(blob, version)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "discarding stored progress",
			slog.String("storage_key", key), errors.SlogError(err))
	}
	return p
}

// Save writes the full snapshot. Failures are logged, never returned.
func (s *Service) Save(ctx context.Context, p Progress) {
	key := StorageKey(s.prefix, p.CaseVersion)
	blob, err := Encode(p)
	if err == nil {
		err = s.snapshots.Save(ctx, s.owner, key, blob)
	}
	if err != nil {
		err = errors.Wrap(err, "save progress snapshot", slog.String("storage_key", key))
		s.logger.LogAttrs(ctx, slog.LevelError, "progress not saved", errors.SlogError(err))
	}
}

// Update loads progress, applies fn in memory and then persists the result.
func (s *Service) Update(ctx context.Context, version string, fn func(Progress) Progress) Progress {
	p := fn(s.Load(ctx, version))
	s.Save(ctx, p)
	return p
}
