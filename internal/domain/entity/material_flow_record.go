package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clasificación de merma por causa.
const (
	WasteClassSetup        = "SETUP_WASTE"  // arranque/calibración de máquina
	WasteClassEdgeTrim     = "EDGE_TRIM"    // refile de bordes
	WasteClassDefective    = "DEFECTIVE"    // producto defectuoso
	WasteClassContaminated = "CONTAMINATED" // contaminación de material
	WasteClassOther        = "OTHER"
)

// Grados de calidad del registro.
const (
	GradeA      = "GRADE_A"
	GradeB      = "GRADE_B"
	GradeRework = "REWORK"
	GradeWaste  = "WASTE"
)

// ValidWasteClass verifica que la clasificación de merma sea una de las conocidas.
func ValidWasteClass(s string) bool {
	switch s {
	case WasteClassSetup, WasteClassEdgeTrim, WasteClassDefective, WasteClassContaminated, WasteClassOther:
		return true
	}
	return false
}

// ValidQualityGrade verifica que el grado de calidad sea uno de los conocidos.
func ValidQualityGrade(s string) bool {
	switch s {
	case GradeA, GradeB, GradeRework, GradeWaste:
		return true
	}
	return false
}

// MaterialFlowRecord es una observación de balance de material de una orden en
// una etapa. El ledger es append-only: las correcciones son registros nuevos,
// nunca updates. Los campos derivados se calculan al escribir y quedan
// inmutables.
type MaterialFlowRecord struct {
	ID         string
	OrderID    string
	StageID    string
	RecordedAt time.Time
	RecordedBy string // referencia opaca al operador

	// Entrada
	MaterialType string
	InputQty     decimal.Decimal
	Unit         string
	CostPerUnit  decimal.Decimal
	SourceStage  string // opcional: etapa de la que proviene el material

	// Salida
	GoodQty   decimal.Decimal
	ReworkQty decimal.Decimal
	WasteQty  decimal.Decimal

	WasteClass   string
	QualityGrade string

	// Derivados (inmutables tras la escritura)
	YieldPct        decimal.Decimal // good/input*100; 0 si input == 0; sin clamp a 100
	TotalInputCost  decimal.Decimal // input * costo unitario
	WasteCostImpact decimal.Decimal // waste * costo unitario

	Notes string
}

// IsYieldAnomaly indica good > input: se acepta y se señala, no se rechaza.
func (r *MaterialFlowRecord) IsYieldAnomaly() bool {
	return r.InputQty.GreaterThan(decimal.Zero) && r.GoodQty.GreaterThan(r.InputQty)
}
