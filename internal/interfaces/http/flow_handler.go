package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dhruvrakesh/satguruerp-sub001/internal/application/dto"
	appflow "github.com/dhruvrakesh/satguruerp-sub001/internal/application/flow"
	"github.com/dhruvrakesh/satguruerp-sub001/internal/domain"
)

// FlowHandler maneja las peticiones HTTP del Recorder de flujo de material.
type FlowHandler struct {
	uc *appflow.RecorderUseCase
}

// NewFlowHandler construye el handler.
func NewFlowHandler(uc *appflow.RecorderUseCase) *FlowHandler {
	return &FlowHandler{uc: uc}
}

// RecordFlow godoc
// @Summary      Registrar balance de material de una etapa
// @Tags         flows
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordFlowRequest  true  "order_id, stage_id, material, entrada, salidas, clasificación"
// @Success      201   {object}  dto.FlowRecordDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/flows [post]
func (h *FlowHandler) RecordFlow(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordFlowRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.uc.RecordFlow(c.Context(), actorID, in)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// ListFlows godoc
// @Summary      Listar registros de flujo de una orden
// @Tags         flows
// @Security     Bearer
// @Produce      json
// @Param        orderId  path   string  true   "ID de la orden"
// @Param        stage    query  string  false  "Filtrar por etapa"
// @Success      200  {array}   dto.FlowRecordDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{orderId}/flows [get]
func (h *FlowHandler) ListFlows(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	flows, err := h.uc.ListFlows(c.Context(), c.Params("orderId"), c.Query("stage"), page)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"total": len(flows), "flows": flows})
}

// AvailableOutput godoc
// @Summary      Salida buena aguas arriba aún no trasladada hacia una etapa
// @Tags         flows
// @Security     Bearer
// @Produce      json
// @Param        orderId  path  string  true  "ID de la orden"
// @Param        stageId  path  string  true  "Etapa destino"
// @Success      200  {array}   dto.AvailableOutputDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{orderId}/stages/{stageId}/available-output [get]
func (h *FlowHandler) AvailableOutput(c *fiber.Ctx) error {
	entries, err := h.uc.AvailableUpstreamOutput(c.Context(), c.Params("orderId"), c.Params("stageId"))
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"total": len(entries), "available": entries})
}

// domainErrorResponse mapea errores de dominio a respuestas HTTP.
func domainErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden, etapa o traspaso no encontrado"})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "el traspaso ya está en estado terminal"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia; releer y reintentar"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
