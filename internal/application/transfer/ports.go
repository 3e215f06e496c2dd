package transfer

import (
	"context"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/application/dto"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que crear y cerrar un traspaso de
// auto-transfer sea atómico.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		flowRepo repository.MaterialFlowRepository,
		transferRepo repository.ProcessTransferRepository,
	) error) error
}

// AvailabilityQuery es la consulta del Recorder de la que se alimenta el
// auto-transfer: qué salida buena aguas arriba sigue sin trasladarse.
type AvailabilityQuery interface {
	AvailableUpstreamOutput(ctx context.Context, orderID, stageID string) ([]*dto.AvailableOutputDTO, error)
}
