package repositories

import (
	"context"
	"database/sql"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/sqlite"
	"log/slog"
)

type ProductRepository struct {
	dbs    dbs
	logger *slog.Logger
}

func NewProductRepository(db *sqlite.Database, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		dbs:    newDBs(db),
		logger: logger.With("source", "ProductRepository"),
	}
}

// CaseSlug resolves the case unlocked by productSlug. Products missing from the catalog unlock the case with the
// same slug.
func (r *ProductRepository) CaseSlug(ctx context.Context, productSlug string) (string, error) {
	var caseSlug string
	stmt := `SELECT case_slug FROM products WHERE slug = ?`
	if err := r.dbs.readOnly.GetContext(ctx, &caseSlug, stmt, productSlug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.LogAttrs(ctx, slog.LevelDebug, "product not in catalog", slog.String("productSlug", productSlug))
			return productSlug, nil
		}
		return "", errors.Wrap(err, "select case slug", slog.String("productSlug", productSlug))
	}
	return caseSlug, nil
}
