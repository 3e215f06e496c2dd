package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/dhruvrakesh/satguruerp-sub001/internal/application/analytics"
)

// AnalyticsHandler maneja las consultas de analítica de cadena (read-only).
type AnalyticsHandler struct {
	uc *appanalytics.ChainAnalyticsUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *appanalytics.ChainAnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// ChainYield godoc
// @Summary      Reporte de yield end-to-end de la cadena de una orden
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        orderId  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.ChainYieldReportDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{orderId}/chain-yield [get]
func (h *AnalyticsHandler) ChainYield(c *fiber.Ctx) error {
	report, err := h.uc.ComputeChainYield(c.Context(), c.Params("orderId"))
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.JSON(report)
}

// Bottlenecks godoc
// @Summary      Scores de cuello de botella por etapa, ordenados por severidad
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        orderId  path  string  true  "ID de la orden"
// @Success      200  {array}   dto.BottleneckScoreDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{orderId}/bottlenecks [get]
func (h *AnalyticsHandler) Bottlenecks(c *fiber.Ctx) error {
	scores, err := h.uc.ComputeBottlenecks(c.Context(), c.Params("orderId"))
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"total": len(scores), "bottlenecks": scores})
}
