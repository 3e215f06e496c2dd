package memory

import (
	"context"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/application/transfer"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/repository"
)

var _ transfer.TxRunner = (*TxRunner)(nil)

// TxRunner variante in-memory del runner transaccional: no hay rollback real,
// pero mantiene el contrato de pasar repos al callback. Suficiente para tests
// y demo (los repos in-memory ya son atómicos por operación).
type TxRunner struct {
	flowRepo     *MaterialFlowRepository
	transferRepo *ProcessTransferRepository
}

// NewTxRunner construye el runner con los repos in-memory.
func NewTxRunner(flowRepo *MaterialFlowRepository, transferRepo *ProcessTransferRepository) *TxRunner {
	return &TxRunner{flowRepo: flowRepo, transferRepo: transferRepo}
}

// Run ejecuta fn con los repos compartidos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	flowRepo repository.MaterialFlowRepository,
	transferRepo repository.ProcessTransferRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(r.flowRepo, r.transferRepo)
}
