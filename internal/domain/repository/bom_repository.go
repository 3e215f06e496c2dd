package repository

import (
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
)

// BOMRepository es el puerto de solo lectura hacia la fuente de datos BOM.
// Se usa únicamente como referencia comparativa (planificado vs. real).
type BOMRepository interface {
	// PlannedQuantities devuelve las líneas planificadas de la orden.
	// Lista vacía (no error) si la orden no tiene BOM cargado.
	PlannedQuantities(orderID string) ([]*entity.BOMLine, error)
}
