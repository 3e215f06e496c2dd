package repository

import (
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
)

// MaterialFlowRepository define el puerto de persistencia del ledger de
// registros de flujo de material (append-only: no hay Update ni Delete).
type MaterialFlowRepository interface {
	Create(rec *entity.MaterialFlowRecord) error
	GetByID(id string) (*entity.MaterialFlowRecord, error)
	// ListByOrder devuelve registros de la orden, más reciente primero.
	// stageID vacío = todas las etapas.
	ListByOrder(orderID, stageID string, limit, offset int) ([]*entity.MaterialFlowRecord, error)
	// AllByOrder devuelve el historial completo de la orden en orden
	// cronológico ascendente (para agregaciones).
	AllByOrder(orderID string) ([]*entity.MaterialFlowRecord, error)
}
