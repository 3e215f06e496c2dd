// Package memory contiene implementaciones in-memory de los puertos de
// persistencia, con la misma semántica que los adaptadores PostgreSQL
// (incluido el compare-and-set de traspasos). Se usan en tests y en el modo
// demo sin base de datos.
package memory

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/repository"
)

var _ repository.MaterialFlowRepository = (*MaterialFlowRepository)(nil)

// MaterialFlowRepository ledger in-memory de registros de flujo.
type MaterialFlowRepository struct {
	mu   sync.RWMutex
	recs []*entity.MaterialFlowRecord
}

// NewMaterialFlowRepository construye el repositorio vacío.
func NewMaterialFlowRepository() *MaterialFlowRepository {
	return &MaterialFlowRepository{}
}

// Create agrega el registro al ledger (append-only).
func (r *MaterialFlowRepository) Create(rec *entity.MaterialFlowRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	cp := *rec
	r.recs = append(r.recs, &cp)
	return nil
}

// GetByID devuelve el registro o nil.
func (r *MaterialFlowRepository) GetByID(id string) (*entity.MaterialFlowRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.recs {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

// ListByOrder lista registros de la orden, más reciente primero.
func (r *MaterialFlowRepository) ListByOrder(orderID, stageID string, limit, offset int) ([]*entity.MaterialFlowRecord, error) {
	all, err := r.AllByOrder(orderID)
	if err != nil {
		return nil, err
	}
	var filtered []*entity.MaterialFlowRecord
	for _, rec := range all {
		if stageID == "" || rec.StageID == stageID {
			filtered = append(filtered, rec)
		}
	}
	// Invertir: AllByOrder es ascendente.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].RecordedAt.After(filtered[j].RecordedAt)
	})
	if offset >= len(filtered) {
		return []*entity.MaterialFlowRecord{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], nil
}

// AllByOrder devuelve el historial de la orden en orden cronológico ascendente.
func (r *MaterialFlowRepository) AllByOrder(orderID string) ([]*entity.MaterialFlowRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.MaterialFlowRecord
	for _, rec := range r.recs {
		if rec.OrderID == orderID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})
	return out, nil
}
