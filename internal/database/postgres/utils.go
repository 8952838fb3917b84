package postgres

import (
	"context"
	"errors"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
	"github.com/osse101/ChocoboBot_Go/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error that isn't ErrTxClosed
func SafeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeUniqueViolation
}

// sortByExpansion orders progress rows by release order; unknown keys go last
func sortByExpansion(progress []domain.MSQProgress) {
	order := func(key string) int {
		if e, err := domain.FindExpansion(key); err == nil {
			return e.ID
		}
		return len(domain.Expansions) + 100
	}
	slices.SortStableFunc(progress, func(a, b domain.MSQProgress) int {
		return order(a.Expansion) - order(b.Expansion)
	})
}
