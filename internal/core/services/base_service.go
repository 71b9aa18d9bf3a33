package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/commercio/posting_engine/internal/core/ports/repositories"
	"github.com/commercio/posting_engine/internal/platform/logging"
)

// baseService carries the pieces every posting service needs: the shared
// repository provider, the transaction deadline, and a helper that runs a
// function inside a single database transaction.
type baseService struct {
	repos     repositories.RepositoryProvider
	txTimeout time.Duration
}

// withTx begins a transaction with the configured deadline, runs fn, and
// commits on success. Rollback on any error path is handled here so service
// methods stay linear.
func (s *baseService) withTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.repos.DocumentRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := s.repos.DocumentRepo.Rollback(ctx, tx); rbErr != nil && rbErr != pgx.ErrTxClosed {
			logging.FromContext(ctx).Error("transaction rollback failed", "error", rbErr)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return s.repos.DocumentRepo.Commit(ctx, tx)
}
