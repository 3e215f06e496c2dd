package transfer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/application/dto"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/repository"
	"github.com/dhruvrakesh/satguruerp-sub001/pkg/metrics"
)

// keyedLocks serializa los auto-transfers por clave (orden, par de etapas):
// dos invocaciones concurrentes sobre la misma clave no deben asignar dos
// veces el mismo balance aguas arriba.
type keyedLocks struct {
	mu sync.Map // key string -> *sync.Mutex
}

func (k *keyedLocks) lock(key string) *sync.Mutex {
	m, _ := k.mu.LoadOrStore(key, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu
}

// AutoTransfer crea y recibe de una vez (cantidad recibida = enviada) un
// traspaso por cada entrada disponible aguas arriba de toStage. Semántica de
// batch: los fallos por material se recolectan en el resultado, no abortan el
// resto; lo ya confirmado nunca se revierte. El batch es secuencial y
// abortable por contexto.
func (uc *TrackerUseCase) AutoTransfer(ctx context.Context, actorID string, in dto.AutoTransferRequest) (*dto.AutoTransferResultDTO, error) {
	if in.OrderID == "" || in.FromStage == "" || in.ToStage == "" {
		return nil, domain.ErrInvalidInput
	}
	route, err := uc.routeRepo.GetRoute(in.OrderID)
	if err != nil {
		return nil, err
	}
	if !route.Contains(in.FromStage) || !route.Contains(in.ToStage) {
		return nil, domain.ErrNotFound
	}
	// El auto-transfer solo arrastra desde la etapa anterior canónica; los
	// destinos arbitrarios quedan para los traspasos manuales.
	if route.PreviousStage(in.ToStage) != in.FromStage {
		return nil, domain.ErrInvalidInput
	}

	// Lock advisory por (orden, par de etapas) sobre la secuencia
	// leer-disponibilidad → crear/recibir.
	mu := uc.locks.lock(in.OrderID + "|" + in.FromStage + "|" + in.ToStage)
	defer mu.Unlock()

	available, err := uc.availability.AvailableUpstreamOutput(ctx, in.OrderID, in.ToStage)
	if err != nil {
		return nil, err
	}

	result := &dto.AutoTransferResultDTO{
		TotalQuantity: decimal.Zero,
		Failures:      []dto.AutoTransferFailure{},
	}
	for _, entry := range available {
		if err := ctx.Err(); err != nil {
			// Aborto a mitad de batch: el progreso confirmado se conserva.
			result.Failures = append(result.Failures, dto.AutoTransferFailure{
				MaterialType: entry.MaterialType,
				Reason:       err.Error(),
			})
			continue
		}
		if err := uc.autoTransferOne(ctx, actorID, in, entry); err != nil {
			result.Failures = append(result.Failures, dto.AutoTransferFailure{
				MaterialType: entry.MaterialType,
				Reason:       err.Error(),
			})
			continue
		}
		result.TransferredCount++
		result.TotalQuantity = result.TotalQuantity.Add(entry.AvailableQty)
	}

	log.Info().
		Str("order_id", in.OrderID).
		Str("from_stage", in.FromStage).
		Str("to_stage", in.ToStage).
		Int("transferred", result.TransferredCount).
		Int("failures", len(result.Failures)).
		Str("total_qty", result.TotalQuantity.String()).
		Msg("auto-transfer completado")
	return result, nil
}

// autoTransferOne crea y cierra un traspaso en la misma transacción.
func (uc *TrackerUseCase) autoTransferOne(ctx context.Context, actorID string, in dto.AutoTransferRequest, entry *dto.AvailableOutputDTO) error {
	return uc.txRunner.Run(ctx, func(
		_ repository.MaterialFlowRepository,
		transferRepo repository.ProcessTransferRepository,
	) error {
		now := time.Now()
		t := &entity.ProcessTransfer{
			OrderID:      in.OrderID,
			FromStage:    in.FromStage,
			ToStage:      in.ToStage,
			MaterialType: entry.MaterialType,
			QuantitySent: entry.AvailableQty,
			Unit:         entry.Unit,
			SentBy:       actorID,
			SentAt:       now,
			Status:       entity.TransferInitiated,
		}
		if err := transferRepo.Create(t); err != nil {
			return err
		}
		qty := entry.AvailableQty
		t.QuantityReceived = &qty
		t.ReceivedBy = actorID
		t.ReceivedAt = &now
		t.Status = entity.TransferReceived
		ok, err := transferRepo.UpdateReceive(t)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		metrics.TransfersInitiated.Inc()
		metrics.TransfersClosed.WithLabelValues(string(entity.TransferReceived)).Inc()
		return nil
	})
}
