package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/application/analytics"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
	domainflow "github.com/dhruvrakesh/satguruerp-sub001/internal/domain/flow"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/infrastructure/memory"
)

const (
	testOrder    = "ORD-2024-001"
	testOperator = "op-17"
)

var testRoute = []string{"PRINTING", "LAMINATION", "COATING", "SLITTING", "PACKAGING"}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type analyticsFixture struct {
	uc       *analytics.ChainAnalyticsUseCase
	flowRepo *memory.MaterialFlowRepository
	bomRepo  *memory.BOMRepository
}

func newAnalyticsFixture(t *testing.T) *analyticsFixture {
	t.Helper()
	f := &analyticsFixture{
		flowRepo: memory.NewMaterialFlowRepository(),
		bomRepo:  memory.NewBOMRepository(),
	}
	routeRepo := memory.NewRouteRepository()
	routeRepo.LoadRoute(testOrder, testRoute)
	f.uc = analytics.NewChainAnalyticsUseCase(f.flowRepo, routeRepo, f.bomRepo)
	return f
}

// seedRecord siembra un registro directo en el repositorio con derivados
// coherentes y timestamp controlado.
func (f *analyticsFixture) seedRecord(t *testing.T, stageID string, input, good, waste, rework int64, at time.Time) {
	t.Helper()
	in := decimal.NewFromInt(input)
	g := decimal.NewFromInt(good)
	w := decimal.NewFromInt(waste)
	cost := decimal.NewFromInt(2)
	derived := domainflow.ComputeDerived(in, g, w, cost)
	rec := &entity.MaterialFlowRecord{
		OrderID:         testOrder,
		StageID:         stageID,
		RecordedAt:      at,
		RecordedBy:      testOperator,
		MaterialType:    "BOPP-FILM",
		InputQty:        in,
		Unit:            "KG",
		CostPerUnit:     cost,
		GoodQty:         g,
		ReworkQty:       decimal.NewFromInt(rework),
		WasteQty:        w,
		WasteClass:      entity.WasteClassDefective,
		QualityGrade:    entity.GradeA,
		YieldPct:        derived.YieldPct,
		TotalInputCost:  derived.TotalInputCost,
		WasteCostImpact: derived.WasteCostImpact,
	}
	require.NoError(t, f.flowRepo.Create(rec))
}

// ──────────────────────────────────────────────────────────────────────────────
// ComputeChainYield
// ──────────────────────────────────────────────────────────────────────────────

// Vector de referencia de dos etapas: el yield global es el ratio
// salida-final/entrada-inicial, no el promedio de los yields por etapa.
func TestComputeChainYield_RatioGlobal(t *testing.T) {
	f := newAnalyticsFixture(t)
	base := time.Now()
	f.seedRecord(t, "PRINTING", 100, 90, 8, 2, base)
	f.seedRecord(t, "LAMINATION", 90, 85, 3, 2, base.Add(time.Hour))

	report, err := f.uc.ComputeChainYield(context.Background(), testOrder)
	require.NoError(t, err)

	assert.True(t, report.OverallYieldPct.Equal(decimal.NewFromInt(85)), "85/100 = 85%%, fue %s", report.OverallYieldPct)
	assert.True(t, report.WastePct.Equal(decimal.NewFromInt(11)), "(8+3)/100 = 11%%, fue %s", report.WastePct)
	assert.True(t, report.ReworkPct.Equal(decimal.NewFromInt(4)), "(2+2)/100 = 4%%, fue %s", report.ReworkPct)

	require.Len(t, report.Stages, 2)
	assert.Equal(t, "PRINTING", report.Stages[0].StageID)
	assert.Equal(t, "LAMINATION", report.Stages[1].StageID)
	require.NotNil(t, report.Stages[0].StageYield)
	assert.True(t, report.Stages[0].StageYield.Equal(decimal.NewFromInt(90)))
	require.NotNil(t, report.Stages[1].StageYield)
	assert.True(t, report.Stages[1].StageYield.Round(2).Equal(decimal.RequireFromString("94.44")))
}

// Las etapas sin registros no aparecen en el reporte, y el orden es el
// canónico de la ruta aunque los registros llegaran desordenados.
func TestComputeChainYield_EtapasVaciasOmitidas(t *testing.T) {
	f := newAnalyticsFixture(t)
	base := time.Now()
	// Sembrado fuera de orden de ruta a propósito.
	f.seedRecord(t, "COATING", 80, 78, 2, 0, base.Add(2*time.Hour))
	f.seedRecord(t, "PRINTING", 100, 90, 8, 2, base)

	report, err := f.uc.ComputeChainYield(context.Background(), testOrder)
	require.NoError(t, err)
	require.Len(t, report.Stages, 2)
	assert.Equal(t, "PRINTING", report.Stages[0].StageID)
	assert.Equal(t, "COATING", report.Stages[1].StageID)
	// Última etapa con registros = COATING: 78/100.
	assert.True(t, report.OverallYieldPct.Equal(decimal.NewFromInt(78)))
}

// Varios registros de la misma etapa se suman antes de calcular el yield.
func TestComputeChainYield_AgregaPorEtapa(t *testing.T) {
	f := newAnalyticsFixture(t)
	base := time.Now()
	f.seedRecord(t, "PRINTING", 60, 55, 4, 1, base)
	f.seedRecord(t, "PRINTING", 40, 35, 4, 1, base.Add(30*time.Minute))

	report, err := f.uc.ComputeChainYield(context.Background(), testOrder)
	require.NoError(t, err)
	require.Len(t, report.Stages, 1)
	st := report.Stages[0]
	assert.True(t, st.InputQty.Equal(decimal.NewFromInt(100)))
	assert.True(t, st.OutputQty.Equal(decimal.NewFromInt(90)))
	assert.Equal(t, 2, st.RecordCount)
	require.NotNil(t, st.StageYield)
	assert.True(t, st.StageYield.Equal(decimal.NewFromInt(90)))
}

func TestComputeChainYield_SinRegistros(t *testing.T) {
	f := newAnalyticsFixture(t)

	report, err := f.uc.ComputeChainYield(context.Background(), testOrder)
	require.NoError(t, err)
	assert.Empty(t, report.Stages)
	assert.True(t, report.OverallYieldPct.IsZero())
	assert.Nil(t, report.PlannedInputQty)
}

func TestComputeChainYield_OrdenDesconocida(t *testing.T) {
	f := newAnalyticsFixture(t)
	_, err := f.uc.ComputeChainYield(context.Background(), "ORD-NO-EXISTE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// La referencia BOM compara la entrada real de la primera etapa contra lo
// planificado. Solo lectura: el motor nunca escribe en la fuente BOM.
func TestComputeChainYield_ReferenciaBOM(t *testing.T) {
	f := newAnalyticsFixture(t)
	f.bomRepo.LoadLine(&entity.BOMLine{
		OrderID:      testOrder,
		MaterialType: "BOPP-FILM",
		PlannedQty:   decimal.NewFromInt(120),
		Unit:         "KG",
	})
	f.seedRecord(t, "PRINTING", 100, 90, 8, 2, time.Now())

	report, err := f.uc.ComputeChainYield(context.Background(), testOrder)
	require.NoError(t, err)
	require.NotNil(t, report.PlannedInputQty)
	assert.True(t, report.PlannedInputQty.Equal(decimal.NewFromInt(120)))
	require.NotNil(t, report.PlanVariancePct)
	// (100 − 120) / 120 × 100 ≈ −16.67%
	assert.True(t, report.PlanVariancePct.Round(2).Equal(decimal.RequireFromString("-16.67")),
		"varianza fue %s", report.PlanVariancePct)
}
