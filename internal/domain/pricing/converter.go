// Conversión de la digitación del cajero a cantidad canónica, por categoría.
// Servicio de dominio puro: sin I/O, todo sobre decimal.

package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-pos-api/internal/domain"
	"github.com/jhoicas/Caja-pos-api/internal/domain/entity"
)

// Unidades de entrada. Vacío significa la unidad canónica del producto
// (m² en AREA, barra en BAR, la declarada en GENERIC).
const (
	EntryCanonical = ""
	EntryTonne     = "TONELADA" // solo categoría de barras
)

// Entry cantidad y unidad tal como las digita el cajero.
type Entry struct {
	Quantity decimal.Decimal
	Unit     string
}

// Resolution resultado de resolver una entrada contra un producto.
// Quantity queda en unidad canónica; DisplayBoxes es solo informativa.
type Resolution struct {
	Quantity  decimal.Decimal // cantidad canónica (débito de stock)
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	// AREA: cajas equivalentes a 2 decimales, solo para mostrar.
	// Jamás redondea la cantidad resuelta ni alimenta el precio.
	DisplayBoxes decimal.Decimal
}

// ConversionRule variante por categoría: cada una es dueña de su validación,
// su conversión a unidad canónica y su fórmula de precio.
type ConversionRule interface {
	// Resolve valida la entrada y la convierte a cantidad canónica con precio.
	Resolve(p *entity.Product, e Entry) (Resolution, error)
	// Available devuelve el stock disponible en unidad canónica.
	Available(p *entity.Product) decimal.Decimal
}

var rules = map[entity.CategoryKind]ConversionRule{
	entity.CategoryArea:    areaRule{},
	entity.CategoryBarBulk: barRule{},
	entity.CategoryGeneric: genericRule{},
}

// RuleFor devuelve la regla de la categoría.
func RuleFor(kind entity.CategoryKind) (ConversionRule, error) {
	r, ok := rules[kind]
	if !ok {
		return nil, &domain.ValidationError{Field: "category", Reason: "categoría desconocida: " + string(kind)}
	}
	return r, nil
}

// ── AREA ─────────────────────────────────────────────────────────────────────
// Stock en cajas, unidad canónica m². El cajero digita el área directamente.
// La disponibilidad cajas*m²/caja se redondea a 2 decimales (mitad lejos de
// cero) para no dejar restos flotantes de caja fantasma; el precio se calcula
// con el área digitada sin redondear.
type areaRule struct{}

func (areaRule) Available(p *entity.Product) decimal.Decimal {
	return p.Stock.Mul(p.AreaPerBox).Round(2)
}

func (areaRule) Resolve(p *entity.Product, e Entry) (Resolution, error) {
	if e.Unit != EntryCanonical {
		return Resolution{}, &domain.ValidationError{ProductID: p.ID, Field: "unit", Reason: "los productos por área se digitan en " + p.Unit}
	}
	if !e.Quantity.IsPositive() {
		return Resolution{}, &domain.ValidationError{ProductID: p.ID, Field: "quantity", Reason: "el área debe ser mayor que cero"}
	}
	if !p.AreaPerBox.IsPositive() {
		return Resolution{}, &domain.ValidationError{ProductID: p.ID, Field: "conversion_factor", Reason: "producto sin m² por caja configurados"}
	}
	res := Resolution{
		Quantity:     e.Quantity, // exacta: no se redondea al alza a cajas enteras
		UnitPrice:    p.Price,
		LineTotal:    p.Price.Mul(e.Quantity),
		DisplayBoxes: e.Quantity.Div(p.AreaPerBox).Round(2),
	}
	return res, nil
}

// ── BAR ──────────────────────────────────────────────────────────────────────
// Barras enteras e indivisibles. Dos modos de entrada: conteo directo (entero
// positivo, los fraccionarios se rechazan) o peso en toneladas, convertido con
// round(peso * barras/tonelada) a la barra entera más cercana — el resto se
// absorbe a propósito. Sin factor configurado, la entrada por peso falla con
// error de configuración en lugar de asumir un valor.
type barRule struct{}

func (barRule) Available(p *entity.Product) decimal.Decimal {
	return p.Stock
}

func (barRule) Resolve(p *entity.Product, e Entry) (Resolution, error) {
	var bars decimal.Decimal
	switch e.Unit {
	case EntryTonne:
		if !e.Quantity.IsPositive() {
			return Resolution{}, &domain.ValidationError{ProductID: p.ID, Field: "quantity", Reason: "el peso debe ser mayor que cero"}
		}
		if !p.BarsPerTonne.IsPositive() {
			return Resolution{}, &domain.ValidationError{ProductID: p.ID, Field: "conversion_factor", Reason: "producto sin barras por tonelada configuradas"}
		}
		bars = e.Quantity.Mul(p.BarsPerTonne).Round(0)
		if bars.IsZero() {
			return Resolution{}, &domain.ValidationError{ProductID: p.ID, Field: "quantity", Reason: "el peso equivale a cero barras"}
		}
	case EntryCanonical:
		if !e.Quantity.IsPositive() {
			return Resolution{}, &domain.ValidationError{ProductID: p.ID, Field: "quantity", Reason: "la cantidad de barras debe ser mayor que cero"}
		}
		if !e.Quantity.IsInteger() {
			return Resolution{}, &domain.ValidationError{ProductID: p.ID, Field: "quantity", Reason: "las barras se venden enteras; cantidad fraccionaria no permitida"}
		}
		bars = e.Quantity
	default:
		return Resolution{}, &domain.ValidationError{ProductID: p.ID, Field: "unit", Reason: "unidad no soportada para barras: " + e.Unit}
	}
	return Resolution{
		Quantity:  bars,
		UnitPrice: p.Price,
		LineTotal: p.Price.Mul(bars),
	}, nil
}

// ── GENERIC ──────────────────────────────────────────────────────────────────
// Conteo entero positivo en la unidad declarada del producto.
type genericRule struct{}

func (genericRule) Available(p *entity.Product) decimal.Decimal {
	return p.Stock
}

func (genericRule) Resolve(p *entity.Product, e Entry) (Resolution, error) {
	if e.Unit != EntryCanonical {
		return Resolution{}, &domain.ValidationError{ProductID: p.ID, Field: "unit", Reason: "este producto se digita en " + p.Unit}
	}
	if !e.Quantity.IsPositive() {
		return Resolution{}, &domain.ValidationError{ProductID: p.ID, Field: "quantity", Reason: "la cantidad debe ser mayor que cero"}
	}
	if !e.Quantity.IsInteger() {
		return Resolution{}, &domain.ValidationError{ProductID: p.ID, Field: "quantity", Reason: "la cantidad debe ser un entero"}
	}
	return Resolution{
		Quantity:  e.Quantity,
		UnitPrice: p.Price,
		LineTotal: p.Price.Mul(e.Quantity),
	}, nil
}

// Shortage compara una cantidad canónica solicitada contra el stock disponible
// del producto. Devuelve nil si alcanza; si no, el faltante exacto
// (solicitado vs disponible) para reportarlo al caller.
func Shortage(p *entity.Product, requested decimal.Decimal) *domain.StockShortage {
	rule, err := RuleFor(p.Category)
	if err != nil {
		return &domain.StockShortage{ProductID: p.ID, SKU: p.SKU, Requested: requested}
	}
	avail := rule.Available(p)
	if avail.GreaterThanOrEqual(requested) {
		return nil
	}
	return &domain.StockShortage{ProductID: p.ID, SKU: p.SKU, Requested: requested, Available: avail}
}

// StockDebit convierte la cantidad canónica vendida a la unidad en que la
// bodega cuenta el stock: cajas (posiblemente fraccionarias) en AREA, la misma
// cifra en las demás. El resto fraccionario de caja se conserva en bodega;
// solo la cifra de disponibilidad se redondea al mostrarse.
func StockDebit(p *entity.Product, resolved decimal.Decimal) decimal.Decimal {
	if p.Category == entity.CategoryArea && p.AreaPerBox.IsPositive() {
		return resolved.Div(p.AreaPerBox)
	}
	return resolved
}
