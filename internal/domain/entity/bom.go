package entity

import "github.com/shopspring/decimal"

// BOMLine cantidad planificada de un material para una orden, según la lista
// de materiales (BOM). Dato de referencia externo, solo lectura: el motor lo
// usa para comparar lo planificado contra lo realmente consumido.
type BOMLine struct {
	OrderID      string
	MaterialType string
	PlannedQty   decimal.Decimal
	Unit         string
}
