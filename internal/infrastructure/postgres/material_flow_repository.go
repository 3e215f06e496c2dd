package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/repository"
)

var _ repository.MaterialFlowRepository = (*MaterialFlowRepo)(nil)

// MaterialFlowRepo implementación sobre PostgreSQL (usable con pool o tx).
// La tabla material_flow_records es append-only: no hay UPDATE ni DELETE.
type MaterialFlowRepo struct {
	q Querier
}

// NewMaterialFlowRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialFlowRepository(q Querier) *MaterialFlowRepo {
	return &MaterialFlowRepo{q: q}
}

const flowColumns = `id, order_id, stage_id, recorded_at, recorded_by,
		material_type, input_qty, unit, cost_per_unit, source_stage,
		good_qty, rework_qty, waste_qty, waste_class, quality_grade,
		yield_pct, total_input_cost, waste_cost_impact, notes`

// Create persiste un registro de flujo.
func (r *MaterialFlowRepo) Create(rec *entity.MaterialFlowRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	query := `
		INSERT INTO material_flow_records (` + flowColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	sourceStage := (*string)(nil)
	if rec.SourceStage != "" {
		sourceStage = &rec.SourceStage
	}
	_, err := r.q.Exec(context.Background(), query,
		rec.ID, rec.OrderID, rec.StageID, rec.RecordedAt, rec.RecordedBy,
		rec.MaterialType, rec.InputQty, rec.Unit, rec.CostPerUnit, sourceStage,
		rec.GoodQty, rec.ReworkQty, rec.WasteQty, rec.WasteClass, rec.QualityGrade,
		rec.YieldPct, rec.TotalInputCost, rec.WasteCostImpact, rec.Notes,
	)
	if err != nil {
		return fmt.Errorf("create material flow record: %w", err)
	}
	return nil
}

// GetByID obtiene un registro por ID. nil si no existe.
func (r *MaterialFlowRepo) GetByID(id string) (*entity.MaterialFlowRecord, error) {
	query := `SELECT ` + flowColumns + ` FROM material_flow_records WHERE id = $1`
	rec, err := scanFlowRecord(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material flow record: %w", err)
	}
	return rec, nil
}

// ListByOrder lista registros de la orden, más reciente primero.
// stageID vacío = todas las etapas.
func (r *MaterialFlowRepo) ListByOrder(orderID, stageID string, limit, offset int) ([]*entity.MaterialFlowRecord, error) {
	query := `
		SELECT ` + flowColumns + `
		FROM material_flow_records
		WHERE order_id = $1 AND ($2 = '' OR stage_id = $2)
		ORDER BY recorded_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, orderID, stageID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list material flow records: %w", err)
	}
	defer rows.Close()
	return collectFlowRecords(rows)
}

// AllByOrder devuelve el historial completo en orden cronológico ascendente.
func (r *MaterialFlowRepo) AllByOrder(orderID string) ([]*entity.MaterialFlowRecord, error) {
	query := `
		SELECT ` + flowColumns + `
		FROM material_flow_records
		WHERE order_id = $1
		ORDER BY recorded_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("all material flow records: %w", err)
	}
	defer rows.Close()
	return collectFlowRecords(rows)
}

func collectFlowRecords(rows pgx.Rows) ([]*entity.MaterialFlowRecord, error) {
	var out []*entity.MaterialFlowRecord
	for rows.Next() {
		rec, err := scanFlowRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material flow record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate material flow records: %w", err)
	}
	return out, nil
}

func scanFlowRecord(row pgx.Row) (*entity.MaterialFlowRecord, error) {
	var rec entity.MaterialFlowRecord
	var sourceStage *string
	err := row.Scan(
		&rec.ID, &rec.OrderID, &rec.StageID, &rec.RecordedAt, &rec.RecordedBy,
		&rec.MaterialType, &rec.InputQty, &rec.Unit, &rec.CostPerUnit, &sourceStage,
		&rec.GoodQty, &rec.ReworkQty, &rec.WasteQty, &rec.WasteClass, &rec.QualityGrade,
		&rec.YieldPct, &rec.TotalInputCost, &rec.WasteCostImpact, &rec.Notes,
	)
	if err != nil {
		return nil, err
	}
	if sourceStage != nil {
		rec.SourceStage = *sourceStage
	}
	return &rec, nil
}
