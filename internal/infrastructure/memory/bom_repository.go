package memory

import (
	"sync"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepository)(nil)

// BOMRepository fuente BOM in-memory.
type BOMRepository struct {
	mu    sync.RWMutex
	lines map[string][]*entity.BOMLine
}

// NewBOMRepository construye la fuente vacía.
func NewBOMRepository() *BOMRepository {
	return &BOMRepository{lines: make(map[string][]*entity.BOMLine)}
}

// LoadLine registra una línea planificada (solo para seed de tests/demo).
func (r *BOMRepository) LoadLine(line *entity.BOMLine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *line
	r.lines[line.OrderID] = append(r.lines[line.OrderID], &cp)
}

// PlannedQuantities devuelve las líneas de la orden (vacío si no hay BOM).
func (r *BOMRepository) PlannedQuantities(orderID string) ([]*entity.BOMLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.BOMLine, 0, len(r.lines[orderID]))
	for _, l := range r.lines[orderID] {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}
