package memory

import (
	"sync"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/repository"
)

var _ repository.RouteRepository = (*RouteRepository)(nil)

// RouteRepository registro de rutas in-memory.
type RouteRepository struct {
	mu     sync.RWMutex
	routes map[string][]string
}

// NewRouteRepository construye el registro vacío.
func NewRouteRepository() *RouteRepository {
	return &RouteRepository{routes: make(map[string][]string)}
}

// LoadRoute registra la ruta de una orden (solo para seed de tests/demo).
func (r *RouteRepository) LoadRoute(orderID string, stages []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[orderID] = append([]string(nil), stages...)
}

// GetRoute devuelve la ruta ordenada de la orden.
func (r *RouteRepository) GetRoute(orderID string) (*entity.ProcessRoute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stages, ok := r.routes[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entity.ProcessRoute{
		OrderID: orderID,
		Stages:  append([]string(nil), stages...),
	}, nil
}
