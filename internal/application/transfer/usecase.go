// Package transfer contiene el caso de uso de traspaso de material entre
// etapas: la máquina de estados INITIATED → IN_TRANSIT → {RECEIVED,
// DISCREPANCY} con cierre por compare-and-set, y el auto-transfer batch.
package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/application/dto"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/repository"
	"github.com/dhruvrakesh/satguruerp-sub001/pkg/metrics"
)

// DefaultReceiptTolerance diferencia absoluta máxima entre enviado y recibido
// para cerrar en RECEIVED en lugar de DISCREPANCY.
var DefaultReceiptTolerance = decimal.NewFromFloat(0.01)

// TrackerUseCase gobierna el ciclo de vida de los traspasos entre etapas.
type TrackerUseCase struct {
	txRunner     TxRunner
	transferRepo repository.ProcessTransferRepository
	routeRepo    repository.RouteRepository
	availability AvailabilityQuery
	tolerance    decimal.Decimal
	locks        keyedLocks
}

// NewTrackerUseCase construye el caso de uso. tolerance <= 0 usa el default.
func NewTrackerUseCase(
	txRunner TxRunner,
	transferRepo repository.ProcessTransferRepository,
	routeRepo repository.RouteRepository,
	availability AvailabilityQuery,
	tolerance decimal.Decimal,
) *TrackerUseCase {
	if !tolerance.GreaterThan(decimal.Zero) {
		tolerance = DefaultReceiptTolerance
	}
	return &TrackerUseCase{
		txRunner:     txRunner,
		transferRepo: transferRepo,
		routeRepo:    routeRepo,
		availability: availability,
		tolerance:    tolerance,
	}
}

// Initiate crea un traspaso en INITIATED. El destino puede ser cualquier
// etapa válida de la ruta, no solo la siguiente canónica (los reprocesos
// saltan etapas). La disponibilidad aguas arriba es consultiva: no se exige
// como precondición para no bloquear overrides legítimos.
func (uc *TrackerUseCase) Initiate(ctx context.Context, actorID string, in dto.InitiateTransferRequest) (*dto.TransferDTO, error) {
	if in.OrderID == "" || in.FromStage == "" || in.ToStage == "" || in.MaterialType == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.QuantitySent.GreaterThan(decimal.Zero) || in.FromStage == in.ToStage {
		return nil, domain.ErrInvalidInput
	}
	route, err := uc.routeRepo.GetRoute(in.OrderID)
	if err != nil {
		return nil, err
	}
	if !route.Contains(in.FromStage) || !route.Contains(in.ToStage) {
		return nil, domain.ErrNotFound
	}

	t := &entity.ProcessTransfer{
		OrderID:      in.OrderID,
		FromStage:    in.FromStage,
		ToStage:      in.ToStage,
		MaterialType: in.MaterialType,
		QuantitySent: in.QuantitySent,
		Unit:         in.Unit,
		SentBy:       actorID,
		SentAt:       time.Now(),
		Status:       entity.TransferInitiated,
	}
	if err := uc.transferRepo.Create(t); err != nil {
		return nil, err
	}
	metrics.TransfersInitiated.Inc()
	return TransferToDTO(t), nil
}

// Dispatch mueve el traspaso a IN_TRANSIT (CAS sobre INITIATED).
func (uc *TrackerUseCase) Dispatch(ctx context.Context, id string) (*dto.TransferDTO, error) {
	ok, err := uc.transferRepo.UpdateInTransit(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Perdió el CAS: releer para distinguir inexistente de estado inválido.
		cur, err := uc.transferRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if cur == nil {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrInvalidState
	}
	cur, err := uc.transferRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return TransferToDTO(cur), nil
}

// Receive cierra el traspaso exactamente una vez: |recibido − enviado| dentro
// de la tolerancia → RECEIVED; fuera → DISCREPANCY con ambas cantidades en
// las notas. Sobre un traspaso ya terminal falla con ErrInvalidState. La
// transición es un único compare-and-set guardado por el estado actual: de
// dos recepciones concurrentes solo una gana; la otra recibe ErrConflict o
// ErrInvalidState según lo que relea.
func (uc *TrackerUseCase) Receive(ctx context.Context, id, actorID string, in dto.ReceiveTransferRequest) (*dto.TransferDTO, error) {
	if in.QuantityReceived.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	cur, err := uc.transferRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, domain.ErrNotFound
	}
	if cur.Status.IsTerminal() {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	upd := *cur
	upd.QuantityReceived = &in.QuantityReceived
	upd.ReceivedBy = actorID
	upd.ReceivedAt = &now
	upd.QualityNotes = in.QualityNotes
	if in.QuantityReceived.Sub(cur.QuantitySent).Abs().LessThanOrEqual(uc.tolerance) {
		upd.Status = entity.TransferReceived
	} else {
		upd.Status = entity.TransferDiscrepancy
		upd.DiscrepancyNotes = fmt.Sprintf("Sent: %s, Received: %s", cur.QuantitySent.String(), in.QuantityReceived.String())
	}

	ok, err := uc.transferRepo.UpdateReceive(&upd)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Otro receptor ganó la carrera entre nuestra lectura y el CAS.
		after, err := uc.transferRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if after == nil {
			return nil, domain.ErrNotFound
		}
		if after.Status.IsTerminal() {
			return nil, domain.ErrInvalidState
		}
		return nil, domain.ErrConflict
	}

	metrics.TransfersClosed.WithLabelValues(string(upd.Status)).Inc()
	if upd.Status == entity.TransferDiscrepancy {
		log.Warn().
			Str("transfer_id", upd.ID).
			Str("order_id", upd.OrderID).
			Str("sent", upd.QuantitySent.String()).
			Str("received", in.QuantityReceived.String()).
			Msg("discrepancia entre cantidad enviada y recibida")
	}
	return TransferToDTO(&upd), nil
}

// PendingReceives devuelve los traspasos aún abiertos (INITIATED o
// IN_TRANSIT) con destino en toStage. Lectura pura.
func (uc *TrackerUseCase) PendingReceives(ctx context.Context, orderID, toStage string) ([]*dto.TransferDTO, error) {
	route, err := uc.routeRepo.GetRoute(orderID)
	if err != nil {
		return nil, err
	}
	if !route.Contains(toStage) {
		return nil, domain.ErrNotFound
	}
	pending, err := uc.transferRepo.PendingByDestination(orderID, toStage)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TransferDTO, 0, len(pending))
	for _, t := range pending {
		out = append(out, TransferToDTO(t))
	}
	return out, nil
}

// TransferToDTO mapea la entidad al DTO de respuesta.
func TransferToDTO(t *entity.ProcessTransfer) *dto.TransferDTO {
	return &dto.TransferDTO{
		ID:               t.ID,
		OrderID:          t.OrderID,
		FromStage:        t.FromStage,
		ToStage:          t.ToStage,
		MaterialType:     t.MaterialType,
		QuantitySent:     t.QuantitySent,
		Unit:             t.Unit,
		SentBy:           t.SentBy,
		SentAt:           t.SentAt,
		QuantityReceived: t.QuantityReceived,
		ReceivedBy:       t.ReceivedBy,
		ReceivedAt:       t.ReceivedAt,
		Status:           string(t.Status),
		DiscrepancyNotes: t.DiscrepancyNotes,
		QualityNotes:     t.QualityNotes,
	}
}
