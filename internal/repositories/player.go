package repositories

import (
	"context"
	"database/sql"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/models"
	"github.com/homecrimes/caseroom/internal/sqlite"
	"log/slog"
	"time"
)

type PlayerRepository struct {
	dbs    dbs
	logger *slog.Logger
}

func NewPlayerRepository(db *sqlite.Database, logger *slog.Logger) *PlayerRepository {
	return &PlayerRepository{
		dbs:    newDBs(db),
		logger: logger.With("source", "PlayerRepository"),
	}
}

type playerRow struct {
	ID              string `db:"id"`
	ProductSlug     string `db:"product_slug"`
	CheckoutSession string `db:"checkout_session"`
	Created         string `db:"created"`
	LastSeen        string `db:"last_seen"`
}

// Create registers a player who redeemed an access code for productSlug.
func (r *PlayerRepository) Create(ctx context.Context, id, productSlug, checkoutSession string) error {
	stmt := `INSERT INTO players (id, product_slug, checkout_session) VALUES (:id, :product_slug, :checkout_session)`
	if _, err := r.dbs.readWrite.NamedExecContext(ctx, stmt, map[string]any{
		"id":               id,
		"product_slug":     productSlug,
		"checkout_session": checkoutSession,
	}); err != nil {
		return errors.Wrap(err, "insert player", slog.String("productSlug", productSlug))
	}
	return nil
}

func (r *PlayerRepository) Get(ctx context.Context, id string) (models.Player, error) {
	var row playerRow
	stmt := `SELECT id, product_slug, checkout_session, created, last_seen FROM players WHERE id = ?`
	if err := r.dbs.readOnly.GetContext(ctx, &row, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Player{}, ErrNotFound //nolint:exhaustruct // error path
		}
		return models.Player{}, errors.Wrap(err, "select player") //nolint:exhaustruct // error path
	}
	created, err := time.Parse(time.RFC3339Nano, row.Created)
	if err != nil {
		return models.Player{}, errors.Wrap(err, "parse created", slog.String("created", row.Created)) //nolint:exhaustruct // error path
	}
	lastSeen, err := time.Parse(time.RFC3339Nano, row.LastSeen)
	if err != nil {
		return models.Player{}, errors.Wrap(err, "parse last seen", slog.String("lastSeen", row.LastSeen)) //nolint:exhaustruct // error path
	}
	return models.Player{
		ID:              row.ID,
		ProductSlug:     row.ProductSlug,
		CheckoutSession: row.CheckoutSession,
		Created:         created,
		LastSeen:        lastSeen,
	}, nil
}

// Touch records that the player was active now.
func (r *PlayerRepository) Touch(ctx context.Context, id string) error {
	stmt := `UPDATE players SET last_seen = STRFTIME('%Y-%m-%dT%H:%M:%fZ') WHERE id = ?`
	res, err := r.dbs.readWrite.ExecContext(ctx, stmt, id)
	if err != nil {
		return errors.Wrap(err, "update last seen")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountRedemptions returns how many players redeemed codes of the given checkout session.
func (r *PlayerRepository) CountRedemptions(ctx context.Context, checkoutSession string) (int, error) {
	var n int
	stmt := `SELECT COUNT(*) FROM players WHERE checkout_session = ?`
	if err := r.dbs.readOnly.GetContext(ctx, &n, stmt, checkoutSession); err != nil {
		return 0, errors.Wrap(err, "count redemptions")
	}
	return n, nil
}
