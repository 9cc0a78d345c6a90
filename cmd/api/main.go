package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Caja-pos-api/internal/application/catalog"
	"github.com/jhoicas/Caja-pos-api/internal/application/checkout"
	"github.com/jhoicas/Caja-pos-api/internal/application/sales"
	"github.com/jhoicas/Caja-pos-api/internal/domain/entity"
	"github.com/jhoicas/Caja-pos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Caja-pos-api/internal/infrastructure/receipt"
	httpRouter "github.com/jhoicas/Caja-pos-api/internal/interfaces/http"
	"github.com/jhoicas/Caja-pos-api/pkg/config"
	"github.com/jhoicas/Caja-pos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("moneda", cfg.Checkout.DisplayCurrency).
		Str("tasa_cambio", cfg.Checkout.ExchangeRate.String()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Términos de sesión: se congelan por sesión al iniciar checkout.
	terms := entity.CheckoutTerms{
		ExchangeRate:    cfg.Checkout.ExchangeRate,
		DisplayCurrency: entity.Currency(cfg.Checkout.DisplayCurrency),
		TaxRate:         cfg.Checkout.TaxRate,
	}

	store := checkout.NewStore()
	catalogUC := catalog.NewUseCase(productRepo)
	cartUC := checkout.NewCartUseCase(store, productRepo, terms, log)
	commitUC := checkout.NewCommitSaleUseCase(store, txRunner, log)
	salesUC := sales.NewUseCase(saleRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Caja POS API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC: catalogUC,
		CartUC:    cartUC,
		CommitUC:  commitUC,
		SalesUC:   salesUC,
		Stock:     productRepo,
		Tickets:   receipt.NewTicketBuilder(),
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
