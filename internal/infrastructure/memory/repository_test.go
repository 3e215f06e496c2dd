package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/repository"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/infrastructure/memory"
)

const testOrder = "ORD-2024-001"

func flowRecord(stageID string, at time.Time) *entity.MaterialFlowRecord {
	return &entity.MaterialFlowRecord{
		OrderID:      testOrder,
		StageID:      stageID,
		RecordedAt:   at,
		RecordedBy:   "op-17",
		MaterialType: "BOPP-FILM",
		InputQty:     decimal.NewFromInt(100),
		Unit:         "KG",
		CostPerUnit:  decimal.NewFromInt(2),
		GoodQty:      decimal.NewFromInt(90),
		WasteQty:     decimal.NewFromInt(10),
		WasteClass:   entity.WasteClassSetup,
		QualityGrade: entity.GradeA,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// MaterialFlowRepository
// ──────────────────────────────────────────────────────────────────────────────

func TestMaterialFlowRepository_CreateAsignaID(t *testing.T) {
	repo := memory.NewMaterialFlowRepository()
	rec := flowRecord("PRINTING", time.Now())
	require.NoError(t, repo.Create(rec))
	assert.NotEmpty(t, rec.ID)

	got, err := repo.GetByID(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)

	// Inexistente: nil sin error, el caso de uso decide el sentinel.
	missing, err := repo.GetByID("no-existe")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMaterialFlowRepository_ListByOrderFiltroYOrden(t *testing.T) {
	repo := memory.NewMaterialFlowRepository()
	base := time.Now()
	older := flowRecord("PRINTING", base)
	newer := flowRecord("LAMINATION", base.Add(time.Hour))
	require.NoError(t, repo.Create(older))
	require.NoError(t, repo.Create(newer))

	// Sin filtro de etapa: más reciente primero.
	all, err := repo.ListByOrder(testOrder, "", 50, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)

	// Con filtro de etapa.
	printing, err := repo.ListByOrder(testOrder, "PRINTING", 50, 0)
	require.NoError(t, err)
	require.Len(t, printing, 1)
	assert.Equal(t, older.ID, printing[0].ID)

	// Paginación: offset más allá del final devuelve vacío, no error.
	empty, err := repo.ListByOrder(testOrder, "", 50, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	page, err := repo.ListByOrder(testOrder, "", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, older.ID, page[0].ID)
}

func TestMaterialFlowRepository_AllByOrderAscendente(t *testing.T) {
	repo := memory.NewMaterialFlowRepository()
	base := time.Now()
	second := flowRecord("LAMINATION", base.Add(time.Hour))
	first := flowRecord("PRINTING", base)
	// Insertado fuera de orden a propósito.
	require.NoError(t, repo.Create(second))
	require.NoError(t, repo.Create(first))

	all, err := repo.AllByOrder(testOrder)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
}

// El repositorio devuelve copias: mutar lo devuelto no toca el ledger.
func TestMaterialFlowRepository_DevuelveCopias(t *testing.T) {
	repo := memory.NewMaterialFlowRepository()
	rec := flowRecord("PRINTING", time.Now())
	require.NoError(t, repo.Create(rec))

	got, err := repo.GetByID(rec.ID)
	require.NoError(t, err)
	got.GoodQty = decimal.NewFromInt(1)

	again, err := repo.GetByID(rec.ID)
	require.NoError(t, err)
	assert.True(t, again.GoodQty.Equal(decimal.NewFromInt(90)))
}

// ──────────────────────────────────────────────────────────────────────────────
// ProcessTransferRepository — semántica CAS
// ──────────────────────────────────────────────────────────────────────────────

func seedTransfer(t *testing.T, repo *memory.ProcessTransferRepository) *entity.ProcessTransfer {
	t.Helper()
	tr := &entity.ProcessTransfer{
		OrderID:      testOrder,
		FromStage:    "PRINTING",
		ToStage:      "LAMINATION",
		MaterialType: "BOPP-FILM",
		QuantitySent: decimal.NewFromInt(60),
		Unit:         "KG",
		SentBy:       "op-17",
		SentAt:       time.Now(),
		Status:       entity.TransferInitiated,
	}
	require.NoError(t, repo.Create(tr))
	return tr
}

func receivedUpdate(tr *entity.ProcessTransfer) *entity.ProcessTransfer {
	now := time.Now()
	qty := tr.QuantitySent
	upd := *tr
	upd.Status = entity.TransferReceived
	upd.QuantityReceived = &qty
	upd.ReceivedBy = "op-18"
	upd.ReceivedAt = &now
	return &upd
}

func TestProcessTransferRepository_UpdateInTransitCAS(t *testing.T) {
	repo := memory.NewProcessTransferRepository()
	tr := seedTransfer(t, repo)

	ok, err := repo.UpdateInTransit(tr.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Segundo intento pierde el CAS: ya no está en INITIATED.
	ok, err = repo.UpdateInTransit(tr.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.UpdateInTransit("no-existe")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProcessTransferRepository_UpdateReceiveCAS(t *testing.T) {
	repo := memory.NewProcessTransferRepository()
	tr := seedTransfer(t, repo)

	ok, err := repo.UpdateReceive(receivedUpdate(tr))
	require.NoError(t, err)
	assert.True(t, ok)

	// Terminal: ningún CAS posterior puede reabrirlo.
	ok, err = repo.UpdateReceive(receivedUpdate(tr))
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferReceived, got.Status)
	assert.Equal(t, "op-18", got.ReceivedBy)
}

// N goroutines compitiendo por el mismo cierre: el mutex del repo garantiza
// exactamente un ganador, igual que el WHERE de estado en PostgreSQL.
func TestProcessTransferRepository_CierreConcurrenteUnGanador(t *testing.T) {
	repo := memory.NewProcessTransferRepository()
	tr := seedTransfer(t, repo)

	const workers = 16
	var wg sync.WaitGroup
	wins := make([]bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := repo.UpdateReceive(receivedUpdate(tr))
			assert.NoError(t, err)
			wins[i] = ok
		}(i)
	}
	wg.Wait()

	count := 0
	for _, w := range wins {
		if w {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestProcessTransferRepository_PendingYTerminales(t *testing.T) {
	repo := memory.NewProcessTransferRepository()
	open := seedTransfer(t, repo)
	closed := seedTransfer(t, repo)
	ok, err := repo.UpdateReceive(receivedUpdate(closed))
	require.NoError(t, err)
	require.True(t, ok)

	pending, err := repo.PendingByDestination(testOrder, "LAMINATION")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, open.ID, pending[0].ID)

	moved, err := repo.TerminalSentByMaterial(testOrder, "PRINTING", "LAMINATION")
	require.NoError(t, err)
	assert.True(t, moved["BOPP-FILM"].Equal(decimal.NewFromInt(60)), "solo el terminal suma")
}

// ──────────────────────────────────────────────────────────────────────────────
// RouteRepository / BOMRepository / TxRunner
// ──────────────────────────────────────────────────────────────────────────────

func TestRouteRepository_GetRoute(t *testing.T) {
	repo := memory.NewRouteRepository()
	repo.LoadRoute(testOrder, []string{"PRINTING", "LAMINATION"})

	route, err := repo.GetRoute(testOrder)
	require.NoError(t, err)
	assert.Equal(t, []string{"PRINTING", "LAMINATION"}, route.Stages)

	_, err = repo.GetRoute("ORD-NO-EXISTE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBOMRepository_PlannedQuantities(t *testing.T) {
	repo := memory.NewBOMRepository()
	repo.LoadLine(&entity.BOMLine{
		OrderID:      testOrder,
		MaterialType: "BOPP-FILM",
		PlannedQty:   decimal.NewFromInt(120),
		Unit:         "KG",
	})

	lines, err := repo.PlannedQuantities(testOrder)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].PlannedQty.Equal(decimal.NewFromInt(120)))

	// Sin BOM no es error: lista vacía.
	empty, err := repo.PlannedQuantities("ORD-NO-EXISTE")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTxRunner_ContextoCancelado(t *testing.T) {
	runner := memory.NewTxRunner(memory.NewMaterialFlowRepository(), memory.NewProcessTransferRepository())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := runner.Run(ctx, func(repository.MaterialFlowRepository, repository.ProcessTransferRepository) error {
		t.Fatal("el callback no debe ejecutarse con contexto cancelado")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
