package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-pos-api/internal/application/dto"
	"github.com/jhoicas/Caja-pos-api/internal/domain"
)

// mapDomainError traduce la taxonomía de errores del dominio a HTTP.
// Los faltantes de stock viajan itemizados en Details; un commit ambiguo
// (timeout en vuelo) se distingue del fallo franco con 504 vs 502.
func mapDomainError(c *fiber.Ctx, err error) error {
	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: valErr.Error(),
			Details: fiber.Map{"product_id": valErr.ProductID, "field": valErr.Field, "reason": valErr.Reason},
		})
	}

	var stockErr *domain.StockError
	if errors.As(err, &stockErr) {
		items := make([]dto.ShortageItem, 0, len(stockErr.Items))
		for _, sh := range stockErr.Items {
			items = append(items, dto.ShortageItem{
				ProductID: sh.ProductID, SKU: sh.SKU,
				Requested: sh.Requested, Available: sh.Available,
			})
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: "stock insuficiente; corrija las líneas reportadas y reintente",
			Details: items,
		})
	}

	var commitErr *domain.CommitError
	if errors.As(err, &commitErr) {
		status := fiber.StatusBadGateway
		if commitErr.Ambiguous {
			status = fiber.StatusGatewayTimeout
		}
		return c.Status(status).JSON(dto.ErrorResponse{
			Code:    commitErr.Code,
			Message: commitErr.Message,
			Details: fiber.Map{"ambiguous": commitErr.Ambiguous},
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrSessionState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SESSION_STATE", Message: "operación no permitida en el estado actual de la sesión"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autenticado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "sin permiso"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
