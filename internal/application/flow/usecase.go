// Package flow contiene el caso de uso de registro de flujo de material: el
// ledger append-only de balances por etapa y la consulta de salida buena
// disponible aguas arriba (la base del auto-transfer).
package flow

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/application/dto"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
	domainflow "github.com/dhruvrakesh/satguruerp-sub001/internal/domain/flow"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/repository"
	"github.com/dhruvrakesh/satguruerp-sub001/pkg/metrics"
)

// RecorderUseCase registra observaciones de balance de material por etapa y
// responde qué salida buena aguas arriba sigue sin trasladarse.
type RecorderUseCase struct {
	flowRepo     repository.MaterialFlowRepository
	transferRepo repository.ProcessTransferRepository
	routeRepo    repository.RouteRepository
}

// NewRecorderUseCase construye el caso de uso.
func NewRecorderUseCase(
	flowRepo repository.MaterialFlowRepository,
	transferRepo repository.ProcessTransferRepository,
	routeRepo repository.RouteRepository,
) *RecorderUseCase {
	return &RecorderUseCase{
		flowRepo:     flowRepo,
		transferRepo: transferRepo,
		routeRepo:    routeRepo,
	}
}

// RecordFlow valida y persiste un registro de flujo. Los campos derivados se
// calculan aquí, una sola vez; después son inmutables. good > input no es
// error: se acepta y se marca como anomalía.
func (uc *RecorderUseCase) RecordFlow(ctx context.Context, actorID string, in dto.RecordFlowRequest) (*dto.FlowRecordDTO, error) {
	if in.OrderID == "" || in.StageID == "" || in.MaterialType == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.InputQty.LessThan(decimal.Zero) || in.CostPerUnit.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	// Al menos un campo de salida presente, y ninguno negativo.
	if in.GoodQty == nil && in.ReworkQty == nil && in.WasteQty == nil {
		return nil, domain.ErrInvalidInput
	}
	good := valueOrZero(in.GoodQty)
	rework := valueOrZero(in.ReworkQty)
	waste := valueOrZero(in.WasteQty)
	if good.LessThan(decimal.Zero) || rework.LessThan(decimal.Zero) || waste.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidWasteClass(in.WasteClass) || !entity.ValidQualityGrade(in.QualityGrade) {
		return nil, domain.ErrInvalidInput
	}

	// Orden y etapas contra el registro de rutas externo.
	route, err := uc.routeRepo.GetRoute(in.OrderID)
	if err != nil {
		return nil, err
	}
	if !route.Contains(in.StageID) {
		return nil, domain.ErrNotFound
	}
	if in.SourceStage != "" && !route.Contains(in.SourceStage) {
		return nil, domain.ErrNotFound
	}

	derived := domainflow.ComputeDerived(in.InputQty, good, waste, in.CostPerUnit)
	rec := &entity.MaterialFlowRecord{
		OrderID:         in.OrderID,
		StageID:         in.StageID,
		RecordedAt:      time.Now(),
		RecordedBy:      actorID,
		MaterialType:    in.MaterialType,
		InputQty:        in.InputQty,
		Unit:            in.Unit,
		CostPerUnit:     in.CostPerUnit,
		SourceStage:     in.SourceStage,
		GoodQty:         good,
		ReworkQty:       rework,
		WasteQty:        waste,
		WasteClass:      in.WasteClass,
		QualityGrade:    in.QualityGrade,
		YieldPct:        derived.YieldPct,
		TotalInputCost:  derived.TotalInputCost,
		WasteCostImpact: derived.WasteCostImpact,
		Notes:           in.Notes,
	}
	if err := uc.flowRepo.Create(rec); err != nil {
		return nil, err
	}

	metrics.FlowsRecorded.WithLabelValues(rec.StageID).Inc()
	yieldObs, _ := rec.YieldPct.Float64()
	metrics.StageYieldPct.WithLabelValues(rec.StageID).Observe(yieldObs)
	if rec.IsYieldAnomaly() {
		log.Warn().
			Str("order_id", rec.OrderID).
			Str("stage_id", rec.StageID).
			Str("input", rec.InputQty.String()).
			Str("good", rec.GoodQty.String()).
			Msg("registro de flujo con good > input (anomalía de yield)")
	}
	return FlowRecordToDTO(rec), nil
}

// ListFlows devuelve los registros de la orden (stageID vacío = todas las
// etapas), más reciente primero. Lectura pura, re-invocable.
func (uc *RecorderUseCase) ListFlows(ctx context.Context, orderID, stageID string, page dto.PageRequest) ([]*dto.FlowRecordDTO, error) {
	page.DefaultPage()
	route, err := uc.routeRepo.GetRoute(orderID)
	if err != nil {
		return nil, err
	}
	if stageID != "" && !route.Contains(stageID) {
		return nil, domain.ErrNotFound
	}
	recs, err := uc.flowRepo.ListByOrder(orderID, stageID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.FlowRecordDTO, 0, len(recs))
	for _, r := range recs {
		out = append(out, FlowRecordToDTO(r))
	}
	return out, nil
}

// lot es una porción de salida buena de un registro concreto, pendiente de
// descuento FIFO contra lo ya trasladado.
type lot struct {
	materialType string
	qualityGrade string
	unit         string
	qty          decimal.Decimal
	recordedAt   time.Time
}

// AvailableUpstreamOutput calcula el balance de salida buena de la etapa
// inmediatamente anterior a stageID que aún no ha sido movido por traspasos
// terminales del par de etapas. Es un balance acumulado, no un flag por
// registro: disponible mientras sea > 0.
func (uc *RecorderUseCase) AvailableUpstreamOutput(ctx context.Context, orderID, stageID string) ([]*dto.AvailableOutputDTO, error) {
	route, err := uc.routeRepo.GetRoute(orderID)
	if err != nil {
		return nil, err
	}
	if !route.Contains(stageID) {
		return nil, domain.ErrNotFound
	}
	fromStage := route.PreviousStage(stageID)
	if fromStage == "" {
		// Primera etapa de la ruta: no hay aguas arriba.
		return []*dto.AvailableOutputDTO{}, nil
	}

	recs, err := uc.flowRepo.AllByOrder(orderID)
	if err != nil {
		return nil, err
	}
	moved, err := uc.transferRepo.TerminalSentByMaterial(orderID, fromStage, stageID)
	if err != nil {
		return nil, err
	}
	return availableFromRecords(recs, fromStage, moved), nil
}

// availableFromRecords arma los lotes de salida buena de fromStage en orden
// cronológico, descuenta por material lo ya trasladado (FIFO: los traspasos
// no llevan grado, solo material) y agrega el remanente por (material, grado).
func availableFromRecords(recs []*entity.MaterialFlowRecord, fromStage string, moved map[string]decimal.Decimal) []*dto.AvailableOutputDTO {
	var lots []lot
	for _, r := range recs {
		if r.StageID != fromStage || !r.GoodQty.GreaterThan(decimal.Zero) {
			continue
		}
		lots = append(lots, lot{
			materialType: r.MaterialType,
			qualityGrade: r.QualityGrade,
			unit:         r.Unit,
			qty:          r.GoodQty,
			recordedAt:   r.RecordedAt,
		})
	}

	remaining := make(map[string]decimal.Decimal, len(moved))
	for mat, qty := range moved {
		remaining[mat] = qty
	}
	type key struct{ material, grade string }
	sums := make(map[key]*dto.AvailableOutputDTO)
	var order []key
	for _, l := range lots {
		if pend, ok := remaining[l.materialType]; ok && pend.GreaterThan(decimal.Zero) {
			if pend.GreaterThanOrEqual(l.qty) {
				remaining[l.materialType] = pend.Sub(l.qty)
				continue
			}
			l.qty = l.qty.Sub(pend)
			remaining[l.materialType] = decimal.Zero
		}
		k := key{l.materialType, l.qualityGrade}
		if agg, ok := sums[k]; ok {
			agg.AvailableQty = agg.AvailableQty.Add(l.qty)
			if l.recordedAt.After(agg.RecordedAt) {
				agg.RecordedAt = l.recordedAt
			}
			continue
		}
		sums[k] = &dto.AvailableOutputDTO{
			MaterialType: l.materialType,
			AvailableQty: l.qty,
			Unit:         l.unit,
			QualityGrade: l.qualityGrade,
			SourceStage:  fromStage,
			RecordedAt:   l.recordedAt,
		}
		order = append(order, k)
	}

	out := make([]*dto.AvailableOutputDTO, 0, len(order))
	for _, k := range order {
		if sums[k].AvailableQty.GreaterThan(decimal.Zero) {
			out = append(out, sums[k])
		}
	}
	return out
}

// FlowRecordToDTO mapea la entidad al DTO de respuesta.
func FlowRecordToDTO(r *entity.MaterialFlowRecord) *dto.FlowRecordDTO {
	return &dto.FlowRecordDTO{
		ID:              r.ID,
		OrderID:         r.OrderID,
		StageID:         r.StageID,
		RecordedAt:      r.RecordedAt,
		RecordedBy:      r.RecordedBy,
		MaterialType:    r.MaterialType,
		InputQty:        r.InputQty,
		Unit:            r.Unit,
		CostPerUnit:     r.CostPerUnit,
		SourceStage:     r.SourceStage,
		GoodQty:         r.GoodQty,
		ReworkQty:       r.ReworkQty,
		WasteQty:        r.WasteQty,
		WasteClass:      r.WasteClass,
		QualityGrade:    r.QualityGrade,
		YieldPct:        r.YieldPct,
		TotalInputCost:  r.TotalInputCost,
		WasteCostImpact: r.WasteCostImpact,
		YieldAnomaly:    r.IsYieldAnomaly(),
		Notes:           r.Notes,
	}
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
