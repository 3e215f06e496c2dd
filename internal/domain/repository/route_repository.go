package repository

import (
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
)

// RouteRepository es el puerto de solo lectura hacia el registro externo de
// rutas de proceso. El núcleo nunca escribe rutas.
type RouteRepository interface {
	// GetRoute devuelve la ruta ordenada de etapas de la orden.
	// domain.ErrNotFound si la orden no está registrada.
	GetRoute(orderID string) (*entity.ProcessRoute, error)
}
