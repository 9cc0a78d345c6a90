package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryKind discrimina la regla de conversión y precio de cada categoría.
// Cada variante es dueña de su validación, su conversión a unidad canónica y
// su fórmula de precio (ver internal/domain/pricing).
type CategoryKind string

const (
	CategoryArea    CategoryKind = "AREA"    // superficie (baldosa): canónica m², stock en cajas
	CategoryBarBulk CategoryKind = "BAR"     // barras enteras: entrada por unidad o por tonelada
	CategoryGeneric CategoryKind = "GENERIC" // conteo entero en la unidad declarada del producto
)

// Currency monedas fijas del sistema (contabilidad bimonetaria, sin multimoneda abierta).
type Currency string

const (
	CurrencyCOP Currency = "COP"
	CurrencyUSD Currency = "USD"
)

// Product representa un producto del catálogo. El núcleo de caja solo lo lee;
// la administración de productos vive en otro servicio.
//
// Stock guarda la cifra tal como la cuenta la bodega: cajas para AREA, barras
// para BAR, unidades para GENERIC. La disponibilidad en unidad canónica se
// deriva con la regla de la categoría.
type Product struct {
	ID           string
	SKU          string // código único
	Name         string
	Category     CategoryKind
	Unit         string          // unidad canónica: "m2", "barra", o la declarada
	Price        decimal.Decimal // precio por unidad canónica
	Currency     Currency
	Stock        decimal.Decimal // cifra de bodega (cajas / barras / unidades)
	AreaPerBox   decimal.Decimal // AREA: m² por caja
	BarsPerTonne decimal.Decimal // BAR: barras por tonelada (0 = sin factor definido)
	MinStock     decimal.Decimal // umbral de stock bajo, en unidad canónica
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
