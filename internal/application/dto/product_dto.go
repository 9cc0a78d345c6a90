package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductResponse salida de un producto del catálogo, con la disponibilidad
// ya expresada en unidad canónica según la regla de su categoría.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	PriceDisplay string          `json:"price_display"`
	Available    decimal.Decimal `json:"available"` // unidad canónica, 2 dec en AREA
	LowStock     bool            `json:"low_stock"`
	AreaPerBox   decimal.Decimal `json:"area_per_box,omitempty"`
	BarsPerTonne decimal.Decimal `json:"bars_per_tonne,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
