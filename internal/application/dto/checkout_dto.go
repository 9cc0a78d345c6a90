package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddLineRequest entrada para agregar una línea al carrito.
// Unit vacío = unidad canónica del producto; "TONELADA" para barras por peso.
type AddLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
}

// EditLineRequest reemplaza la cantidad de una línea (no suma).
// Quantity en cero elimina la línea.
type EditLineRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

// DiscountRequest descuento a nivel de carrito.
type DiscountRequest struct {
	Kind  string          `json:"kind" validate:"required,oneof=NONE PERCENT FLAT"`
	Value decimal.Decimal `json:"value"`
}

// CustomerRequest datos del cliente, solo despliegue y recibo.
type CustomerRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
}

// CommitRequest confirmación de la venta.
type CommitRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// CartLineResponse una línea del carrito, con la procedencia de la digitación.
type CartLineResponse struct {
	ProductID        string          `json:"product_id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	Unit             string          `json:"unit"`
	EnteredQuantity  decimal.Decimal `json:"entered_quantity"`
	EnteredUnit      string          `json:"entered_unit,omitempty"`
	ResolvedQuantity decimal.Decimal `json:"resolved_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Currency         string          `json:"currency"`
	LineTotal        decimal.Decimal `json:"line_total"`
	LineTotalDisplay string          `json:"line_total_display"`
}

// TotalsResponse las cifras del motor de precios para el carrito actual.
type TotalsResponse struct {
	SubtotalCOP      decimal.Decimal `json:"subtotal_cop"`
	SubtotalUSD      decimal.Decimal `json:"subtotal_usd"`
	DisplayCurrency  string          `json:"display_currency"`
	ExchangeRate     decimal.Decimal `json:"exchange_rate"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Discount         decimal.Decimal `json:"discount"`
	DiscountShareCOP decimal.Decimal `json:"discount_share_cop"` // solo auditoría
	DiscountShareUSD decimal.Decimal `json:"discount_share_usd"` // solo auditoría
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
	TotalDisplay     string          `json:"total_display"`
}

// SessionResponse estado completo de una sesión de caja.
type SessionResponse struct {
	ID       string             `json:"id"`
	State    string             `json:"state"`
	Lines    []CartLineResponse `json:"lines"`
	Discount DiscountRequest    `json:"discount"`
	Customer CustomerRequest    `json:"customer"`
	Totals   *TotalsResponse    `json:"totals,omitempty"`
}

// ShortageItem faltante de una línea en la validación de stock.
type ShortageItem struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
}

// ValidateStockResponse resultado de la re-validación autoritativa.
type ValidateStockResponse struct {
	OK        bool           `json:"ok"`
	Shortages []ShortageItem `json:"shortages,omitempty"`
}

// SaleDetailResponse línea de una venta confirmada.
type SaleDetailResponse struct {
	ProductID       string          `json:"product_id"`
	SKU             string          `json:"sku"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Currency        string          `json:"currency"`
	LineTotal       decimal.Decimal `json:"line_total"`
	EnteredQuantity decimal.Decimal `json:"entered_quantity"`
	EnteredUnit     string          `json:"entered_unit,omitempty"`
}

// SaleResponse venta confirmada con sus líneas y cifras.
type SaleResponse struct {
	ID               string               `json:"id"`
	Number           string               `json:"number"`
	Date             time.Time            `json:"date"`
	SellerID         string               `json:"seller_id"`
	CustomerName     string               `json:"customer_name,omitempty"`
	CustomerDocument string               `json:"customer_document,omitempty"`
	DisplayCurrency  string               `json:"display_currency"`
	ExchangeRate     decimal.Decimal      `json:"exchange_rate"`
	SubtotalCOP      decimal.Decimal      `json:"subtotal_cop"`
	SubtotalUSD      decimal.Decimal      `json:"subtotal_usd"`
	Subtotal         decimal.Decimal      `json:"subtotal"`
	DiscountKind     string               `json:"discount_kind"`
	DiscountApplied  decimal.Decimal      `json:"discount_applied"`
	TaxRate          decimal.Decimal      `json:"tax_rate"`
	TaxAmount        decimal.Decimal      `json:"tax_amount"`
	GrandTotal       decimal.Decimal      `json:"grand_total"`
	TotalDisplay     string               `json:"total_display"`
	PaymentMethod    string               `json:"payment_method"`
	Details          []SaleDetailResponse `json:"details"`
}
