package postgres

import (
	"context"
	"fmt"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/repository"
)

var _ repository.RouteRepository = (*RouteRepo)(nil)

// RouteRepo adaptador de solo lectura al registro de rutas de proceso
// (tabla order_process_routes mantenida por el módulo de órdenes).
type RouteRepo struct {
	q Querier
}

// NewRouteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRouteRepository(q Querier) *RouteRepo {
	return &RouteRepo{q: q}
}

// GetRoute devuelve la ruta ordenada de etapas de la orden.
func (r *RouteRepo) GetRoute(orderID string) (*entity.ProcessRoute, error) {
	query := `
		SELECT stage_id
		FROM order_process_routes
		WHERE order_id = $1
		ORDER BY position ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}
	defer rows.Close()
	var stages []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan route stage: %w", err)
		}
		stages = append(stages, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate route stages: %w", err)
	}
	if len(stages) == 0 {
		return nil, domain.ErrNotFound
	}
	return &entity.ProcessRoute{OrderID: orderID, Stages: stages}, nil
}
