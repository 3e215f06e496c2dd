package flow

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Derived campos derivados de un registro de flujo, calculados una sola vez
// en el momento de la escritura (servicio de dominio puro).
type Derived struct {
	YieldPct        decimal.Decimal
	TotalInputCost  decimal.Decimal
	WasteCostImpact decimal.Decimal
}

// ComputeDerived calcula yield %, costo total de entrada e impacto de merma.
//
//	YieldPct        = input > 0 ? good/input*100 : 0   (sin clamp a 100)
//	TotalInputCost  = input * costPerUnit
//	WasteCostImpact = waste * costPerUnit
func ComputeDerived(input, good, waste, costPerUnit decimal.Decimal) Derived {
	yield := decimal.Zero
	if input.GreaterThan(decimal.Zero) {
		yield = good.Div(input).Mul(hundred)
	}
	return Derived{
		YieldPct:        yield,
		TotalInputCost:  input.Mul(costPerUnit),
		WasteCostImpact: waste.Mul(costPerUnit),
	}
}
