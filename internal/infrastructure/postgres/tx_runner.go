package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/application/transfer"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/repository"
)

var _ transfer.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Es el mecanismo de atomicidad del auto-transfer
// (crear + recibir en una sola tx).
func (r *TxRunner) Run(ctx context.Context, fn func(
	flowRepo repository.MaterialFlowRepository,
	transferRepo repository.ProcessTransferRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	flowRepo := NewMaterialFlowRepository(tx)
	transferRepo := NewProcessTransferRepository(tx)

	if err := fn(flowRepo, transferRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
