package postgres

import (
	"context"
	"fmt"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepo)(nil)

// BOMRepo adaptador de solo lectura a la fuente de datos BOM (tabla
// order_bom_lines mantenida por el módulo de catálogo).
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

// PlannedQuantities devuelve las líneas planificadas de la orden.
// Lista vacía si la orden no tiene BOM: no es error.
func (r *BOMRepo) PlannedQuantities(orderID string) ([]*entity.BOMLine, error) {
	query := `
		SELECT order_id, material_type, planned_qty, unit
		FROM order_bom_lines
		WHERE order_id = $1
		ORDER BY material_type ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("planned quantities: %w", err)
	}
	defer rows.Close()
	var out []*entity.BOMLine
	for rows.Next() {
		var l entity.BOMLine
		if err := rows.Scan(&l.OrderID, &l.MaterialType, &l.PlannedQty, &l.Unit); err != nil {
			return nil, fmt.Errorf("scan bom line: %w", err)
		}
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bom lines: %w", err)
	}
	return out, nil
}
