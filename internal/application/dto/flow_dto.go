package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordFlowRequest body para POST /api/flows.
type RecordFlowRequest struct {
	OrderID      string          `json:"order_id"`
	StageID      string          `json:"stage_id"`
	MaterialType string          `json:"material_type"`
	InputQty     decimal.Decimal `json:"input_qty"`
	Unit         string          `json:"unit"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	SourceStage  string          `json:"source_stage,omitempty"`

	GoodQty   *decimal.Decimal `json:"good_qty,omitempty"`
	ReworkQty *decimal.Decimal `json:"rework_qty,omitempty"`
	WasteQty  *decimal.Decimal `json:"waste_qty,omitempty"`

	WasteClass   string `json:"waste_class"`
	QualityGrade string `json:"quality_grade"`
	Notes        string `json:"notes,omitempty"`
}

// FlowRecordDTO registro de flujo con sus campos derivados.
type FlowRecordDTO struct {
	ID           string          `json:"id"`
	OrderID      string          `json:"order_id"`
	StageID      string          `json:"stage_id"`
	RecordedAt   time.Time       `json:"recorded_at"`
	RecordedBy   string          `json:"recorded_by"`
	MaterialType string          `json:"material_type"`
	InputQty     decimal.Decimal `json:"input_qty"`
	Unit         string          `json:"unit"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	SourceStage  string          `json:"source_stage,omitempty"`
	GoodQty      decimal.Decimal `json:"good_qty"`
	ReworkQty    decimal.Decimal `json:"rework_qty"`
	WasteQty     decimal.Decimal `json:"waste_qty"`
	WasteClass   string          `json:"waste_class"`
	QualityGrade string          `json:"quality_grade"`

	YieldPct        decimal.Decimal `json:"yield_pct"`
	TotalInputCost  decimal.Decimal `json:"total_input_cost"`
	WasteCostImpact decimal.Decimal `json:"waste_cost_impact"`
	// YieldAnomaly marca good > input (se acepta pero se señala).
	YieldAnomaly bool `json:"yield_anomaly,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// AvailableOutputDTO balance de salida buena aguas arriba aún no trasladado.
type AvailableOutputDTO struct {
	MaterialType string          `json:"material_type"`
	AvailableQty decimal.Decimal `json:"available_qty"`
	Unit         string          `json:"unit"`
	QualityGrade string          `json:"quality_grade"`
	SourceStage  string          `json:"source_stage"`
	RecordedAt   time.Time       `json:"recorded_at"`
}
