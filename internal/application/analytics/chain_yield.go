// Package analytics contiene los casos de uso de analítica de cadena de
// procesos: yield end-to-end y scores de cuello de botella. Son funciones
// puras sobre el historial del Recorder: no poseen estado, se recalculan en
// cada consulta y siempre es seguro recomputarlas.
package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/application/dto"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// ChainAnalyticsUseCase agrega el historial de flujo de una orden.
type ChainAnalyticsUseCase struct {
	flowRepo  repository.MaterialFlowRepository
	routeRepo repository.RouteRepository
	bomRepo   repository.BOMRepository
}

// NewChainAnalyticsUseCase construye el caso de uso. bomRepo puede ser nil:
// la comparación contra lo planificado es referencia opcional.
func NewChainAnalyticsUseCase(
	flowRepo repository.MaterialFlowRepository,
	routeRepo repository.RouteRepository,
	bomRepo repository.BOMRepository,
) *ChainAnalyticsUseCase {
	return &ChainAnalyticsUseCase{
		flowRepo:  flowRepo,
		routeRepo: routeRepo,
		bomRepo:   bomRepo,
	}
}

// stageAgg acumulados por etapa, más los tiempos para la métrica de duración.
type stageAgg struct {
	stageID    string
	input      decimal.Decimal
	good       decimal.Decimal
	waste      decimal.Decimal
	rework     decimal.Decimal
	yieldSum   decimal.Decimal
	count      int
	firstAt    time.Time
	lastAt     time.Time
}

// aggregateByStage recorre el historial y devuelve los agregados en el orden
// canónico de la ruta. Las etapas sin registros se omiten.
func aggregateByStage(route *entity.ProcessRoute, recs []*entity.MaterialFlowRecord) []*stageAgg {
	byStage := make(map[string]*stageAgg)
	for _, r := range recs {
		agg, ok := byStage[r.StageID]
		if !ok {
			agg = &stageAgg{
				stageID: r.StageID,
				input:   decimal.Zero, good: decimal.Zero,
				waste: decimal.Zero, rework: decimal.Zero,
				yieldSum: decimal.Zero,
				firstAt:  r.RecordedAt, lastAt: r.RecordedAt,
			}
			byStage[r.StageID] = agg
		}
		agg.input = agg.input.Add(r.InputQty)
		agg.good = agg.good.Add(r.GoodQty)
		agg.waste = agg.waste.Add(r.WasteQty)
		agg.rework = agg.rework.Add(r.ReworkQty)
		agg.yieldSum = agg.yieldSum.Add(r.YieldPct)
		agg.count++
		if r.RecordedAt.Before(agg.firstAt) {
			agg.firstAt = r.RecordedAt
		}
		if r.RecordedAt.After(agg.lastAt) {
			agg.lastAt = r.RecordedAt
		}
	}
	out := make([]*stageAgg, 0, len(byStage))
	for _, stageID := range route.Stages {
		if agg, ok := byStage[stageID]; ok {
			out = append(out, agg)
		}
	}
	return out
}

// ComputeChainYield calcula el reporte end-to-end de la orden. El yield
// global es el ratio entrada-total/salida-total (good de la última etapa con
// registros sobre input de la primera), no un promedio de porcentajes por
// etapa.
func (uc *ChainAnalyticsUseCase) ComputeChainYield(ctx context.Context, orderID string) (*dto.ChainYieldReportDTO, error) {
	route, err := uc.routeRepo.GetRoute(orderID)
	if err != nil {
		return nil, err
	}
	recs, err := uc.flowRepo.AllByOrder(orderID)
	if err != nil {
		return nil, err
	}
	aggs := aggregateByStage(route, recs)

	report := &dto.ChainYieldReportDTO{
		OrderID:         orderID,
		Stages:          make([]dto.StageYieldDTO, 0, len(aggs)),
		OverallYieldPct: decimal.Zero,
		WastePct:        decimal.Zero,
		ReworkPct:       decimal.Zero,
	}
	totalWaste := decimal.Zero
	totalRework := decimal.Zero
	for _, agg := range aggs {
		st := dto.StageYieldDTO{
			StageID:     agg.stageID,
			InputQty:    agg.input,
			OutputQty:   agg.good,
			WasteQty:    agg.waste,
			ReworkQty:   agg.rework,
			RecordCount: agg.count,
		}
		if agg.input.GreaterThan(decimal.Zero) {
			y := agg.good.Div(agg.input).Mul(hundred)
			st.StageYield = &y
		}
		totalWaste = totalWaste.Add(agg.waste)
		totalRework = totalRework.Add(agg.rework)
		report.Stages = append(report.Stages, st)
	}
	if len(aggs) == 0 {
		return report, nil
	}

	firstInput := aggs[0].input
	lastGood := aggs[len(aggs)-1].good
	if firstInput.GreaterThan(decimal.Zero) {
		report.OverallYieldPct = lastGood.Div(firstInput).Mul(hundred)
		report.WastePct = totalWaste.Div(firstInput).Mul(hundred)
		report.ReworkPct = totalRework.Div(firstInput).Mul(hundred)
	}

	uc.attachPlanReference(orderID, firstInput, report)
	return report, nil
}

// attachPlanReference añade la comparación contra el BOM cuando existe.
// Solo referencia: el motor nunca escribe en la fuente BOM.
func (uc *ChainAnalyticsUseCase) attachPlanReference(orderID string, firstInput decimal.Decimal, report *dto.ChainYieldReportDTO) {
	if uc.bomRepo == nil {
		return
	}
	lines, err := uc.bomRepo.PlannedQuantities(orderID)
	if err != nil || len(lines) == 0 {
		return
	}
	planned := decimal.Zero
	for _, l := range lines {
		planned = planned.Add(l.PlannedQty)
	}
	if !planned.GreaterThan(decimal.Zero) {
		return
	}
	variance := firstInput.Sub(planned).Div(planned).Mul(hundred)
	report.PlannedInputQty = &planned
	report.PlanVariancePct = &variance
}
