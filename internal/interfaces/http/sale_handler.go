package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-pos-api/internal/application/sales"
	"github.com/jhoicas/Caja-pos-api/internal/infrastructure/receipt"
)

// SaleHandler consulta de ventas confirmadas y emisión del tique.
type SaleHandler struct {
	uc      *sales.UseCase
	tickets *receipt.TicketBuilder
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase, tickets *receipt.TicketBuilder) *SaleHandler {
	return &SaleHandler{uc: uc, tickets: tickets}
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetResponse(c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Tique XML de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      xml
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {string}  string  "tique XML"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	sale, details, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	out, err := h.tickets.Build(sale, details)
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(out)
}
