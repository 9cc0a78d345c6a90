package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-pos-api/internal/application/checkout"
	"github.com/jhoicas/Caja-pos-api/internal/application/dto"
	"github.com/jhoicas/Caja-pos-api/internal/application/sales"
	"github.com/jhoicas/Caja-pos-api/internal/domain/entity"
	"github.com/jhoicas/Caja-pos-api/internal/domain/pricing"
	"github.com/jhoicas/Caja-pos-api/pkg/money"
)

// SessionHandler maneja las sesiones de caja: carrito, checkout y commit.
type SessionHandler struct {
	cartUC   *checkout.CartUseCase
	commitUC *checkout.CommitSaleUseCase
	stock    checkout.StockReader
}

// NewSessionHandler construye el handler.
func NewSessionHandler(cartUC *checkout.CartUseCase, commitUC *checkout.CommitSaleUseCase, stock checkout.StockReader) *SessionHandler {
	return &SessionHandler{cartUC: cartUC, commitUC: commitUC, stock: stock}
}

// Create godoc
// @Summary      Abrir sesión de caja
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.SessionResponse
// @Router       /api/sessions [post]
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	s := h.cartUC.CreateSession(GetUserID(c))
	return c.Status(fiber.StatusCreated).JSON(h.toResponse(s))
}

// Get godoc
// @Summary      Estado de la sesión
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id} [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	s, err := h.cartUC.GetSession(c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(h.toResponse(s))
}

// AddLine godoc
// @Summary      Agregar línea al carrito
// @Tags         sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la sesión"
// @Param        body  body  dto.AddLineRequest  true  "Producto y cantidad digitada"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/lines [post]
func (h *SessionHandler) AddLine(c *fiber.Ctx) error {
	var in dto.AddLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	s, err := h.cartUC.AddLine(c.UserContext(), c.Params("id"), in.ProductID, pricing.Entry{Quantity: in.Quantity, Unit: in.Unit})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(h.toResponse(s))
}

// EditLine godoc
// @Summary      Reemplazar la cantidad de una línea (cero la elimina)
// @Tags         sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path  string               true  "ID de la sesión"
// @Param        productId  path  string               true  "ID del producto"
// @Param        body       body  dto.EditLineRequest  true  "Cantidad digitada"
// @Success      200        {object}  dto.SessionResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/lines/{productId} [put]
func (h *SessionHandler) EditLine(c *fiber.Ctx) error {
	var in dto.EditLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s, err := h.cartUC.EditLine(c.UserContext(), c.Params("id"), c.Params("productId"), pricing.Entry{Quantity: in.Quantity, Unit: in.Unit})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(h.toResponse(s))
}

// RemoveLine godoc
// @Summary      Quitar una línea del carrito
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID de la sesión"
// @Param        productId  path  string  true  "ID del producto"
// @Success      200        {object}  dto.SessionResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/lines/{productId} [delete]
func (h *SessionHandler) RemoveLine(c *fiber.Ctx) error {
	s, err := h.cartUC.RemoveLine(c.Params("id"), c.Params("productId"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(h.toResponse(s))
}

// SetDiscount godoc
// @Summary      Fijar el descuento del carrito
// @Tags         sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la sesión"
// @Param        body  body  dto.DiscountRequest  true  "Tipo y valor"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/discount [put]
func (h *SessionHandler) SetDiscount(c *fiber.Ctx) error {
	var in dto.DiscountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s, err := h.cartUC.SetDiscount(c.Params("id"), entity.Discount{Kind: in.Kind, Value: in.Value})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(h.toResponse(s))
}

// SetCustomer godoc
// @Summary      Asociar cliente a la sesión (solo despliegue y recibo)
// @Tags         sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la sesión"
// @Param        body  body  dto.CustomerRequest  true  "Datos del cliente"
// @Success      200   {object}  dto.SessionResponse
// @Router       /api/sessions/{id}/customer [put]
func (h *SessionHandler) SetCustomer(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s, err := h.cartUC.SetCustomer(c.Params("id"), entity.Customer{Name: in.Name, Document: in.Document, Phone: in.Phone})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(h.toResponse(s))
}

// StartCheckout godoc
// @Summary      Iniciar checkout (congela tasa de cambio e impuesto)
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/checkout [post]
func (h *SessionHandler) StartCheckout(c *fiber.Ctx) error {
	s, err := h.cartUC.StartCheckout(c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(h.toResponse(s))
}

// Validate godoc
// @Summary      Re-validar stock contra el catálogo, sin confirmar
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.ValidateStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/validate [post]
func (h *SessionHandler) Validate(c *fiber.Ctx) error {
	shortages, err := h.commitUC.Validate(c.Params("id"), h.stock)
	if err != nil {
		return mapDomainError(c, err)
	}
	resp := dto.ValidateStockResponse{OK: len(shortages) == 0}
	for _, sh := range shortages {
		resp.Shortages = append(resp.Shortages, dto.ShortageItem{
			ProductID: sh.ProductID, SKU: sh.SKU,
			Requested: sh.Requested, Available: sh.Available,
		})
	}
	return c.JSON(resp)
}

// Commit godoc
// @Summary      Confirmar la venta (transaccional, todo o nada)
// @Tags         sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la sesión"
// @Param        body  body  dto.CommitRequest  true  "Método de pago"
// @Success      201   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente, itemizado en details"
// @Failure      502   {object}  dto.ErrorResponse
// @Failure      504   {object}  dto.ErrorResponse  "resultado desconocido; conciliar antes de reintentar"
// @Router       /api/sessions/{id}/commit [post]
func (h *SessionHandler) Commit(c *fiber.Ctx) error {
	var in dto.CommitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale, details, err := h.commitUC.Commit(c.UserContext(), c.Params("id"), in.PaymentMethod)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sales.ToSaleResponse(sale, details))
}

// Reset godoc
// @Summary      Vaciar el carrito y volver a BROWSING
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/sessions/{id}/reset [post]
func (h *SessionHandler) Reset(c *fiber.Ctx) error {
	s, err := h.cartUC.Reset(c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(h.toResponse(s))
}

func (h *SessionHandler) toResponse(s *checkout.Session) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:    s.ID,
		State: s.State,
		Lines: make([]dto.CartLineResponse, 0, len(s.Cart.Lines)),
		Discount: dto.DiscountRequest{
			Kind:  s.Cart.Discount.Kind,
			Value: s.Cart.Discount.Value,
		},
		Customer: dto.CustomerRequest{
			Name:     s.Cart.Customer.Name,
			Document: s.Cart.Customer.Document,
			Phone:    s.Cart.Customer.Phone,
		},
	}
	for _, l := range s.Cart.Lines {
		resp.Lines = append(resp.Lines, dto.CartLineResponse{
			ProductID:        l.ProductID,
			SKU:              l.SKU,
			Name:             l.Name,
			Category:         string(l.Category),
			Unit:             l.Unit,
			EnteredQuantity:  l.EnteredQuantity,
			EnteredUnit:      l.EnteredUnit,
			ResolvedQuantity: l.ResolvedQuantity,
			UnitPrice:        l.UnitPrice,
			Currency:         string(l.Currency),
			LineTotal:        l.LineTotal,
			LineTotalDisplay: money.Format(l.LineTotal, string(l.Currency)),
		})
	}
	if len(s.Cart.Lines) > 0 {
		if totals, err := h.cartUC.Totals(s.ID); err == nil {
			resp.Totals = &dto.TotalsResponse{
				SubtotalCOP:      totals.SubtotalCOP,
				SubtotalUSD:      totals.SubtotalUSD,
				DisplayCurrency:  string(totals.DisplayCurrency),
				ExchangeRate:     totals.ExchangeRate,
				Subtotal:         totals.Subtotal,
				Discount:         totals.Discount,
				DiscountShareCOP: totals.DiscountShareCOP,
				DiscountShareUSD: totals.DiscountShareUSD,
				Tax:              totals.Tax,
				Total:            totals.Total,
				TotalDisplay:     money.Format(totals.Total, string(totals.DisplayCurrency)),
			}
		}
	}
	return resp
}
