package dto

import "github.com/shopspring/decimal"

// StageYieldDTO agregados de una etapa con registros.
type StageYieldDTO struct {
	StageID     string           `json:"stage_id"`
	InputQty    decimal.Decimal  `json:"input_qty"`
	OutputQty   decimal.Decimal  `json:"output_qty"`
	WasteQty    decimal.Decimal  `json:"waste_qty"`
	ReworkQty   decimal.Decimal  `json:"rework_qty"`
	StageYield  *decimal.Decimal `json:"stage_yield,omitempty"` // nil si input == 0
	RecordCount int              `json:"record_count"`
}

// ChainYieldReportDTO reporte end-to-end de la cadena. Read model derivado:
// se recalcula en cada consulta, no se almacena.
type ChainYieldReportDTO struct {
	OrderID string          `json:"order_id"`
	Stages  []StageYieldDTO `json:"stages"` // en orden canónico de la ruta; etapas sin registros omitidas

	// Ratio total entrada/salida, no promedio de porcentajes por etapa.
	OverallYieldPct decimal.Decimal `json:"overall_yield_pct"`
	WastePct        decimal.Decimal `json:"waste_pct"`
	ReworkPct       decimal.Decimal `json:"rework_pct"`

	// Referencia BOM (si la orden tiene BOM cargado): planificado vs. real.
	PlannedInputQty *decimal.Decimal `json:"planned_input_qty,omitempty"`
	PlanVariancePct *decimal.Decimal `json:"plan_variance_pct,omitempty"`
}

// Bandas de severidad del score de cuello de botella.
const (
	SeverityCritical = "CRITICAL" // score >= 70
	SeverityModerate = "MODERATE" // 40–69
	SeverityMinor    = "MINOR"    // < 40
)

// BottleneckScoreDTO score 0–100 de cuello de botella de una etapa.
type BottleneckScoreDTO struct {
	StageID        string          `json:"stage_id"`
	Score          decimal.Decimal `json:"score"`
	Severity       string          `json:"severity"`
	YieldDeficit   decimal.Decimal `json:"yield_deficit"`    // sub-métrica normalizada 0–100
	WasteReworkVol decimal.Decimal `json:"waste_rework_vol"` // sub-métrica normalizada 0–100
	ProcessingTime decimal.Decimal `json:"processing_time"`  // sub-métrica normalizada 0–100
	Recommendation string          `json:"recommendation"`
}
