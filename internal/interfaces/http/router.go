package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-pos-api/internal/application/catalog"
	"github.com/jhoicas/Caja-pos-api/internal/application/checkout"
	"github.com/jhoicas/Caja-pos-api/internal/application/sales"
	"github.com/jhoicas/Caja-pos-api/internal/infrastructure/receipt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC *catalog.UseCase
	CartUC    *checkout.CartUseCase
	CommitUC  *checkout.CommitSaleUseCase
	SalesUC   *sales.UseCase
	Stock     checkout.StockReader
	Tickets   *receipt.TicketBuilder
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Catálogo (público, solo lectura)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	caja := RequireRole("cajero", "admin")

	// Sesiones de caja (protegido, rol de caja)
	sessions := protected.Group("/sessions", caja)
	sessionHandler := NewSessionHandler(deps.CartUC, deps.CommitUC, deps.Stock)
	sessions.Post("/", sessionHandler.Create)
	sessions.Get("/:id", sessionHandler.Get)
	sessions.Post("/:id/lines", sessionHandler.AddLine)
	sessions.Put("/:id/lines/:productId", sessionHandler.EditLine)
	sessions.Delete("/:id/lines/:productId", sessionHandler.RemoveLine)
	sessions.Put("/:id/discount", sessionHandler.SetDiscount)
	sessions.Put("/:id/customer", sessionHandler.SetCustomer)
	sessions.Post("/:id/checkout", sessionHandler.StartCheckout)
	sessions.Post("/:id/validate", sessionHandler.Validate)
	sessions.Post("/:id/commit", sessionHandler.Commit)
	sessions.Post("/:id/reset", sessionHandler.Reset)

	// Ventas confirmadas (protegido)
	salesGroup := protected.Group("/sales", caja)
	saleHandler := NewSaleHandler(deps.SalesUC, deps.Tickets)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
}
