package repository

import (
	"github.com/shopspring/decimal"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain/entity"
)

// ProcessTransferRepository define el puerto de persistencia de traspasos
// entre etapas. La única mutación permitida es la transición de estado, y
// siempre mediante compare-and-set contra el estado actual.
type ProcessTransferRepository interface {
	Create(t *entity.ProcessTransfer) error
	GetByID(id string) (*entity.ProcessTransfer, error)
	// PendingByDestination devuelve traspasos no terminales (INITIATED o
	// IN_TRANSIT) con destino en toStage para la orden.
	PendingByDestination(orderID, toStage string) ([]*entity.ProcessTransfer, error)
	// TerminalSentByMaterial suma la cantidad enviada de traspasos terminales
	// (RECEIVED o DISCREPANCY) del par de etapas, agrupada por material.
	TerminalSentByMaterial(orderID, fromStage, toStage string) (map[string]decimal.Decimal, error)
	// UpdateInTransit hace CAS INITIATED → IN_TRANSIT. Devuelve false si el
	// traspaso no estaba en INITIATED (o no existe); el caller debe releer.
	UpdateInTransit(id string) (bool, error)
	// UpdateReceive cierra el traspaso: escribe status terminal, cantidad
	// recibida, receptor, fecha y notas, con CAS sobre estado no terminal.
	// Devuelve false si perdió la carrera (el caller relee y decide).
	UpdateReceive(t *entity.ProcessTransfer) (bool, error)
}
