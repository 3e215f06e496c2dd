package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/application/dto"
	apptransfer "github.com/dhruvrakesh/satguruerp-sub001/internal/application/transfer"
)

// TransferHandler maneja las peticiones HTTP del Tracker de traspasos.
type TransferHandler struct {
	uc *apptransfer.TrackerUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *apptransfer.TrackerUseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Initiate godoc
// @Summary      Iniciar traspaso de material entre etapas
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InitiateTransferRequest  true  "order_id, from_stage, to_stage, material_type, quantity_sent, unit"
// @Success      201   {object}  dto.TransferDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Initiate(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.InitiateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.uc.Initiate(c.Context(), actorID, in)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// Dispatch godoc
// @Summary      Marcar traspaso como en tránsito
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traspaso"
// @Success      200  {object}  dto.TransferDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/dispatch [post]
func (h *TransferHandler) Dispatch(c *fiber.Ctx) error {
	t, err := h.uc.Dispatch(c.Context(), c.Params("id"))
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.JSON(t)
}

// Receive godoc
// @Summary      Recibir traspaso (cierre terminal, una sola vez)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del traspaso"
// @Param        body  body  dto.ReceiveTransferRequest  true  "quantity_received, quality_notes"
// @Success      200   {object}  dto.TransferDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReceiveTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.uc.Receive(c.Context(), c.Params("id"), actorID, in)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.JSON(t)
}

// AutoTransfer godoc
// @Summary      Auto-transferir toda la salida disponible aguas arriba
// @Description  Crea y recibe de inmediato (cantidad recibida = enviada) un
//               traspaso por cada material disponible. Los fallos por material
//               se reportan en el resultado, no abortan el batch.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AutoTransferRequest  true  "order_id, from_stage, to_stage"
// @Success      200   {object}  dto.AutoTransferResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transfers/auto [post]
func (h *TransferHandler) AutoTransfer(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AutoTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.AutoTransfer(c.Context(), actorID, in)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.JSON(result)
}

// PendingReceives godoc
// @Summary      Traspasos pendientes de recepción hacia una etapa
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        orderId  path  string  true  "ID de la orden"
// @Param        stageId  path  string  true  "Etapa destino"
// @Success      200  {array}   dto.TransferDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{orderId}/stages/{stageId}/pending-receives [get]
func (h *TransferHandler) PendingReceives(c *fiber.Ctx) error {
	pending, err := h.uc.PendingReceives(c.Context(), c.Params("orderId"), c.Params("stageId"))
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"total": len(pending), "pending": pending})
}
