package repositories

import (
	"context"
	"database/sql"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/sqlite"
	"log/slog"
)

type TheoryReviewRepository struct {
	dbs    dbs
	logger *slog.Logger
}

func NewTheoryReviewRepository(db *sqlite.Database, logger *slog.Logger) *TheoryReviewRepository {
	return &TheoryReviewRepository{
		dbs:    newDBs(db),
		logger: logger.With("source", "TheoryReviewRepository"),
	}
}

// Save stores the review of a theory, replacing an earlier one.
func (r *TheoryReviewRepository) Save(ctx context.Context, playerID, theoryID, review string) error {
	stmt := `INSERT INTO theory_reviews (player_id, theory_id, review) VALUES (?, ?, ?)
ON CONFLICT (player_id, theory_id) DO UPDATE SET review = excluded.review`
	if _, err := r.dbs.readWrite.ExecContext(ctx, stmt, playerID, theoryID, review); err != nil {
		return errors.Wrap(err, "upsert theory review", slog.String("theoryID", theoryID))
	}
	return nil
}

// All returns the reviews of playerID keyed by theory id.
func (r *TheoryReviewRepository) All(ctx context.Context, playerID string) (map[string]string, error) {
	var rows []struct {
		TheoryID string `db:"theory_id"`
		Review   string `db:"review"`
	}
	stmt := `SELECT theory_id, review FROM theory_reviews WHERE player_id = ?`
	if err := r.dbs.readOnly.SelectContext(ctx, &rows, stmt, playerID); err != nil {
		return nil, errors.Wrap(err, "select theory reviews")
	}
	reviews := make(map[string]string, len(rows))
	for _, row := range rows {
		reviews[row.TheoryID] = row.Review
	}
	return reviews, nil
}

func (r *TheoryReviewRepository) Get(ctx context.Context, playerID, theoryID string) (string, error) {
	var review string
	stmt := `SELECT review FROM theory_reviews WHERE player_id = ? AND theory_id = ?`
	if err := r.dbs.readOnly.GetContext(ctx, &review, stmt, playerID, theoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", errors.Wrap(err, "select theory review")
	}
	return review, nil
}
