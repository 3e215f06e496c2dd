package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus estado del traspaso de material entre etapas.
type TransferStatus string

// Máquina de estados: INITIATED → IN_TRANSIT → {RECEIVED, DISCREPANCY}.
// RECEIVED y DISCREPANCY son terminales: ninguna transición los abandona.
const (
	TransferInitiated   TransferStatus = "INITIATED"
	TransferInTransit   TransferStatus = "IN_TRANSIT"
	TransferReceived    TransferStatus = "RECEIVED"
	TransferDiscrepancy TransferStatus = "DISCREPANCY"
)

// IsTerminal indica si el estado es final.
func (s TransferStatus) IsTerminal() bool {
	return s == TransferReceived || s == TransferDiscrepancy
}

// CanTransitionTo valida la transición contra la máquina de estados cerrada.
func (s TransferStatus) CanTransitionTo(next TransferStatus) bool {
	switch s {
	case TransferInitiated:
		return next == TransferInTransit || next == TransferReceived || next == TransferDiscrepancy
	case TransferInTransit:
		return next == TransferReceived || next == TransferDiscrepancy
	}
	return false
}

// ProcessTransfer es un intento de traspaso de una cantidad de material entre
// dos etapas de una orden. Nunca se borra ni se reemplaza; su estado pasa
// exactamente una vez de no-terminal a terminal.
type ProcessTransfer struct {
	ID           string
	OrderID      string
	FromStage    string
	ToStage      string
	MaterialType string
	QuantitySent decimal.Decimal
	Unit         string
	SentBy       string // referencia opaca al remitente
	SentAt       time.Time

	// Fijados juntos, exactamente una vez, al pasar a estado terminal.
	QuantityReceived *decimal.Decimal
	ReceivedBy       string
	ReceivedAt       *time.Time

	Status           TransferStatus
	DiscrepancyNotes string // solo en DISCREPANCY
	QualityNotes     string // opcional, al recibir
}
