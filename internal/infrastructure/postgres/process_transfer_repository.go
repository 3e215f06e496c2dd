package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/repository"
)

var _ repository.ProcessTransferRepository = (*ProcessTransferRepo)(nil)

// ProcessTransferRepo implementación sobre PostgreSQL (usable con pool o tx).
// La única mutación es la transición de estado, siempre por compare-and-set.
type ProcessTransferRepo struct {
	q Querier
}

// NewProcessTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProcessTransferRepository(q Querier) *ProcessTransferRepo {
	return &ProcessTransferRepo{q: q}
}

const transferColumns = `id, order_id, from_stage, to_stage, material_type,
		quantity_sent, unit, sent_by, sent_at,
		quantity_received, received_by, received_at,
		status, discrepancy_notes, quality_notes`

// Create persiste un traspaso recién iniciado.
func (r *ProcessTransferRepo) Create(t *entity.ProcessTransfer) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO process_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.OrderID, t.FromStage, t.ToStage, t.MaterialType,
		t.QuantitySent, t.Unit, t.SentBy, t.SentAt,
		t.QuantityReceived, nullIfEmpty(t.ReceivedBy), t.ReceivedAt,
		string(t.Status), nullIfEmpty(t.DiscrepancyNotes), nullIfEmpty(t.QualityNotes),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create process transfer: %w", err)
	}
	return nil
}

// GetByID obtiene un traspaso por ID. nil si no existe.
func (r *ProcessTransferRepo) GetByID(id string) (*entity.ProcessTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM process_transfers WHERE id = $1`
	t, err := scanTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get process transfer: %w", err)
	}
	return t, nil
}

// PendingByDestination lista traspasos no terminales con destino en toStage.
func (r *ProcessTransferRepo) PendingByDestination(orderID, toStage string) ([]*entity.ProcessTransfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM process_transfers
		WHERE order_id = $1 AND to_stage = $2 AND status IN ('INITIATED', 'IN_TRANSIT')
		ORDER BY sent_at ASC`
	rows, err := r.q.Query(context.Background(), query, orderID, toStage)
	if err != nil {
		return nil, fmt.Errorf("pending transfers: %w", err)
	}
	defer rows.Close()
	var out []*entity.ProcessTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan process transfer: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate process transfers: %w", err)
	}
	return out, nil
}

// TerminalSentByMaterial suma cantidad enviada de traspasos terminales del
// par de etapas, por material.
func (r *ProcessTransferRepo) TerminalSentByMaterial(orderID, fromStage, toStage string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT material_type, COALESCE(SUM(quantity_sent), 0)
		FROM process_transfers
		WHERE order_id = $1 AND from_stage = $2 AND to_stage = $3
		  AND status IN ('RECEIVED', 'DISCREPANCY')
		GROUP BY material_type`
	rows, err := r.q.Query(context.Background(), query, orderID, fromStage, toStage)
	if err != nil {
		return nil, fmt.Errorf("terminal sent by material: %w", err)
	}
	defer rows.Close()
	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var mat string
		var qty decimal.Decimal
		if err := rows.Scan(&mat, &qty); err != nil {
			return nil, fmt.Errorf("scan terminal sum: %w", err)
		}
		out[mat] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate terminal sums: %w", err)
	}
	return out, nil
}

// UpdateInTransit hace CAS INITIATED → IN_TRANSIT. 0 filas afectadas = false.
func (r *ProcessTransferRepo) UpdateInTransit(id string) (bool, error) {
	query := `
		UPDATE process_transfers SET status = 'IN_TRANSIT'
		WHERE id = $1 AND status = 'INITIATED'`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return false, fmt.Errorf("update in transit: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateReceive cierra el traspaso con CAS sobre estado no terminal. La
// cláusula de status garantiza que de dos recepciones concurrentes solo una
// afecte la fila.
func (r *ProcessTransferRepo) UpdateReceive(t *entity.ProcessTransfer) (bool, error) {
	query := `
		UPDATE process_transfers
		SET status = $2, quantity_received = $3, received_by = $4,
		    received_at = $5, discrepancy_notes = $6, quality_notes = $7
		WHERE id = $1 AND status IN ('INITIATED', 'IN_TRANSIT')`
	tag, err := r.q.Exec(context.Background(), query,
		t.ID, string(t.Status), t.QuantityReceived, nullIfEmpty(t.ReceivedBy),
		t.ReceivedAt, nullIfEmpty(t.DiscrepancyNotes), nullIfEmpty(t.QualityNotes),
	)
	if err != nil {
		return false, fmt.Errorf("update receive: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanTransfer(row pgx.Row) (*entity.ProcessTransfer, error) {
	var t entity.ProcessTransfer
	var status string
	var receivedBy, discrepancyNotes, qualityNotes *string
	err := row.Scan(
		&t.ID, &t.OrderID, &t.FromStage, &t.ToStage, &t.MaterialType,
		&t.QuantitySent, &t.Unit, &t.SentBy, &t.SentAt,
		&t.QuantityReceived, &receivedBy, &t.ReceivedAt,
		&status, &discrepancyNotes, &qualityNotes,
	)
	if err != nil {
		return nil, err
	}
	t.Status = entity.TransferStatus(status)
	if receivedBy != nil {
		t.ReceivedBy = *receivedBy
	}
	if discrepancyNotes != nil {
		t.DiscrepancyNotes = *discrepancyNotes
	}
	if qualityNotes != nil {
		t.QualityNotes = *qualityNotes
	}
	return &t, nil
}
