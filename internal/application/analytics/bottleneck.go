package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/application/dto"
)

// Bandas de peor caso práctico para normalizar las sub-métricas a 0–100.
var (
	// wasteReworkWorstPct: 25% del input en merma+reproceso satura la métrica.
	wasteReworkWorstPct = decimal.NewFromInt(25)
	// processingWorst: 8 horas de intervalo medio entre registros satura la métrica.
	processingWorst = 8 * time.Hour
)

// Pesos de la suma ponderada.
var (
	weightYield      = decimal.NewFromFloat(0.4)
	weightWasteVol   = decimal.NewFromFloat(0.3)
	weightProcessing = decimal.NewFromFloat(0.3)
)

// Umbrales de severidad.
var (
	severityCriticalMin = decimal.NewFromInt(70)
	severityModerateMin = decimal.NewFromInt(40)
)

// ComputeBottlenecks puntúa cada etapa con registros: déficit de yield (40%),
// volumen de merma+reproceso (30%) e intervalo medio de proceso (30%),
// normalizados contra bandas de peor caso y combinados en un score 0–100.
// Resultado ordenado por score descendente; empates por posición en la ruta.
func (uc *ChainAnalyticsUseCase) ComputeBottlenecks(ctx context.Context, orderID string) ([]*dto.BottleneckScoreDTO, error) {
	route, err := uc.routeRepo.GetRoute(orderID)
	if err != nil {
		return nil, err
	}
	recs, err := uc.flowRepo.AllByOrder(orderID)
	if err != nil {
		return nil, err
	}
	aggs := aggregateByStage(route, recs)

	scores := make([]*dto.BottleneckScoreDTO, 0, len(aggs))
	for _, agg := range aggs {
		scores = append(scores, scoreStage(agg))
	}
	sort.SliceStable(scores, func(i, j int) bool {
		cmp := scores[i].Score.Cmp(scores[j].Score)
		if cmp != 0 {
			return cmp > 0
		}
		return route.StagePosition(scores[i].StageID) < route.StagePosition(scores[j].StageID)
	})
	return scores, nil
}

// scoreStage calcula las tres sub-métricas normalizadas y el score ponderado.
func scoreStage(agg *stageAgg) *dto.BottleneckScoreDTO {
	// Déficit de yield: 100 − yield promedio de los registros de la etapa.
	avgYield := decimal.Zero
	if agg.count > 0 {
		avgYield = agg.yieldSum.Div(decimal.NewFromInt(int64(agg.count)))
	}
	yieldDeficit := clamp01(hundred.Sub(avgYield))

	// Volumen de merma+reproceso como % del input, contra la banda de peor caso.
	wasteVol := decimal.Zero
	if agg.input.GreaterThan(decimal.Zero) {
		pct := agg.waste.Add(agg.rework).Div(agg.input).Mul(hundred)
		wasteVol = clamp01(pct.Div(wasteReworkWorstPct).Mul(hundred))
	}

	// Intervalo medio entre registros consecutivos, contra la banda de 8h.
	// Con menos de dos registros no hay intervalo medible.
	processing := decimal.Zero
	if agg.count >= 2 {
		span := agg.lastAt.Sub(agg.firstAt)
		mean := span / time.Duration(agg.count-1)
		ratio := decimal.NewFromFloat(mean.Hours() / processingWorst.Hours())
		processing = clamp01(ratio.Mul(hundred))
	}

	score := yieldDeficit.Mul(weightYield).
		Add(wasteVol.Mul(weightWasteVol)).
		Add(processing.Mul(weightProcessing))

	return &dto.BottleneckScoreDTO{
		StageID:        agg.stageID,
		Score:          score,
		Severity:       severityFor(score),
		YieldDeficit:   yieldDeficit,
		WasteReworkVol: wasteVol,
		ProcessingTime: processing,
		Recommendation: recommendationFor(agg.stageID, yieldDeficit, wasteVol, processing),
	}
}

func severityFor(score decimal.Decimal) string {
	switch {
	case score.GreaterThanOrEqual(severityCriticalMin):
		return dto.SeverityCritical
	case score.GreaterThanOrEqual(severityModerateMin):
		return dto.SeverityModerate
	default:
		return dto.SeverityMinor
	}
}

// recommendationFor nombra la sub-métrica dominante (la de mayor valor
// normalizado) en una recomendación templada.
func recommendationFor(stageID string, yieldDeficit, wasteVol, processing decimal.Decimal) string {
	dominant := yieldDeficit
	text := "revisar parámetros de proceso para reducir el déficit de yield"
	if wasteVol.GreaterThan(dominant) {
		dominant = wasteVol
		text = "atacar las causas de merma y reproceso (clasificación de desperdicio)"
	}
	if processing.GreaterThan(dominant) {
		text = "reducir el tiempo de ciclo entre corridas de la etapa"
	}
	return fmt.Sprintf("Etapa %s: %s", stageID, text)
}

func clamp01(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if d.GreaterThan(hundred) {
		return hundred
	}
	return d
}
