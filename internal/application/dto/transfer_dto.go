package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InitiateTransferRequest body para POST /api/transfers.
type InitiateTransferRequest struct {
	OrderID      string          `json:"order_id"`
	FromStage    string          `json:"from_stage"`
	ToStage      string          `json:"to_stage"`
	MaterialType string          `json:"material_type"`
	QuantitySent decimal.Decimal `json:"quantity_sent"`
	Unit         string          `json:"unit"`
}

// ReceiveTransferRequest body para POST /api/transfers/:id/receive.
type ReceiveTransferRequest struct {
	QuantityReceived decimal.Decimal `json:"quantity_received"`
	QualityNotes     string          `json:"quality_notes,omitempty"`
}

// AutoTransferRequest body para POST /api/transfers/auto.
type AutoTransferRequest struct {
	OrderID   string `json:"order_id"`
	FromStage string `json:"from_stage"`
	ToStage   string `json:"to_stage"`
}

// TransferDTO representación de un traspaso entre etapas.
type TransferDTO struct {
	ID               string           `json:"id"`
	OrderID          string           `json:"order_id"`
	FromStage        string           `json:"from_stage"`
	ToStage          string           `json:"to_stage"`
	MaterialType     string           `json:"material_type"`
	QuantitySent     decimal.Decimal  `json:"quantity_sent"`
	Unit             string           `json:"unit"`
	SentBy           string           `json:"sent_by"`
	SentAt           time.Time        `json:"sent_at"`
	QuantityReceived *decimal.Decimal `json:"quantity_received,omitempty"`
	ReceivedBy       string           `json:"received_by,omitempty"`
	ReceivedAt       *time.Time       `json:"received_at,omitempty"`
	Status           string           `json:"status"`
	DiscrepancyNotes string           `json:"discrepancy_notes,omitempty"`
	QualityNotes     string           `json:"quality_notes,omitempty"`
}

// AutoTransferFailure fallo por material dentro de un batch de auto-transfer.
type AutoTransferFailure struct {
	MaterialType string `json:"material_type"`
	Reason       string `json:"reason"`
}

// AutoTransferResultDTO resultado parcial estructurado del batch: los fallos
// por material no son fatales para el resto del batch.
type AutoTransferResultDTO struct {
	TransferredCount int                   `json:"transferred_count"`
	TotalQuantity    decimal.Decimal       `json:"total_quantity"`
	Failures         []AutoTransferFailure `json:"failures"`
}
