package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa la cabecera de una venta confirmada: la foto del carrito en
// el momento del commit, con las cifras autoritativas del motor de precios.
type Sale struct {
	ID               string
	Number           string // consecutivo legible (POS-<unix>)
	Date             time.Time
	SellerID         string
	CustomerName     string
	CustomerDocument string
	DisplayCurrency  Currency
	ExchangeRate     decimal.Decimal // COP por USD aplicada en la sesión
	SubtotalCOP      decimal.Decimal
	SubtotalUSD      decimal.Decimal
	Subtotal         decimal.Decimal // unificado en moneda de despliegue
	DiscountKind     string
	DiscountValue    decimal.Decimal // valor solicitado
	DiscountApplied  decimal.Decimal // valor efectivo tras recorte
	TaxRate          decimal.Decimal // fracción aplicada
	TaxAmount        decimal.Decimal
	GrandTotal       decimal.Decimal
	PaymentMethod    string
	CreatedAt        time.Time
}

// SaleDetail una línea de la venta, en unidad canónica, con la procedencia
// de la digitación original para el recibo.
type SaleDetail struct {
	ID              string
	SaleID          string
	ProductID       string
	SKU             string
	Quantity        decimal.Decimal // resuelta, unidad canónica
	Unit            string
	UnitPrice       decimal.Decimal
	Currency        Currency
	LineTotal       decimal.Decimal
	EnteredQuantity decimal.Decimal
	EnteredUnit     string
}
