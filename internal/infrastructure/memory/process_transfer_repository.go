package memory

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/repository"
)

var _ repository.ProcessTransferRepository = (*ProcessTransferRepository)(nil)

// ProcessTransferRepository almacén in-memory de traspasos. El mutex cumple
// el papel del compare-and-set de la versión PostgreSQL: la verificación de
// estado y la escritura ocurren bajo la misma sección crítica.
type ProcessTransferRepository struct {
	mu        sync.Mutex
	transfers map[string]*entity.ProcessTransfer
}

// NewProcessTransferRepository construye el repositorio vacío.
func NewProcessTransferRepository() *ProcessTransferRepository {
	return &ProcessTransferRepository{transfers: make(map[string]*entity.ProcessTransfer)}
}

// Create persiste un traspaso nuevo.
func (r *ProcessTransferRepository) Create(t *entity.ProcessTransfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	cp := *t
	r.transfers[t.ID] = &cp
	return nil
}

// GetByID devuelve el traspaso o nil.
func (r *ProcessTransferRepository) GetByID(id string) (*entity.ProcessTransfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transfers[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

// PendingByDestination lista traspasos no terminales con destino en toStage.
func (r *ProcessTransferRepository) PendingByDestination(orderID, toStage string) ([]*entity.ProcessTransfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ProcessTransfer
	for _, t := range r.transfers {
		if t.OrderID == orderID && t.ToStage == toStage && !t.Status.IsTerminal() {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SentAt.Before(out[j].SentAt)
	})
	return out, nil
}

// TerminalSentByMaterial suma cantidad enviada de traspasos terminales del
// par de etapas, por material.
func (r *ProcessTransferRepository) TerminalSentByMaterial(orderID, fromStage, toStage string) (map[string]decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]decimal.Decimal)
	for _, t := range r.transfers {
		if t.OrderID != orderID || t.FromStage != fromStage || t.ToStage != toStage || !t.Status.IsTerminal() {
			continue
		}
		cur, ok := out[t.MaterialType]
		if !ok {
			cur = decimal.Zero
		}
		out[t.MaterialType] = cur.Add(t.QuantitySent)
	}
	return out, nil
}

// UpdateInTransit hace CAS INITIATED → IN_TRANSIT.
func (r *ProcessTransferRepository) UpdateInTransit(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transfers[id]
	if !ok || t.Status != entity.TransferInitiated {
		return false, nil
	}
	t.Status = entity.TransferInTransit
	return true, nil
}

// UpdateReceive cierra el traspaso con CAS sobre estado no terminal.
func (r *ProcessTransferRepository) UpdateReceive(upd *entity.ProcessTransfer) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transfers[upd.ID]
	if !ok || t.Status.IsTerminal() {
		return false, nil
	}
	t.Status = upd.Status
	t.QuantityReceived = upd.QuantityReceived
	t.ReceivedBy = upd.ReceivedBy
	t.ReceivedAt = upd.ReceivedAt
	t.DiscrepancyNotes = upd.DiscrepancyNotes
	t.QualityNotes = upd.QualityNotes
	return true, nil
}
