package entity

import "github.com/shopspring/decimal"

// Tipos de descuento del carrito.
const (
	DiscountNone    = "NONE"
	DiscountPercent = "PERCENT" // porcentaje sobre el subtotal unificado, recortado a [0,100]
	DiscountFlat    = "FLAT"    // monto fijo en moneda de despliegue, recortado al subtotal
)

// Discount especificación de descuento a nivel de carrito.
type Discount struct {
	Kind  string
	Value decimal.Decimal
}

// Customer datos del cliente en el carrito. Solo despliegue y recibo;
// no afectan ningún cálculo de precio.
type Customer struct {
	Name     string
	Document string
	Phone    string
}

// CartLine una línea del carrito.
//
// Invariante: LineTotal == UnitPrice * ResolvedQuantity, recalculado en cada
// mutación vía Reprice. Nunca se edita como valor independiente.
// EnteredQuantity/EnteredUnit conservan la digitación original del cajero
// (procedencia, solo despliegue); ResolvedQuantity siempre está en la unidad
// canónica del producto.
type CartLine struct {
	ProductID        string
	SKU              string
	Name             string
	Category         CategoryKind
	Unit             string // unidad canónica del producto
	EnteredQuantity  decimal.Decimal
	EnteredUnit      string // "" = unidad canónica; "TONELADA" para barras por peso
	ResolvedQuantity decimal.Decimal
	UnitPrice        decimal.Decimal
	Currency         Currency
	LineTotal        decimal.Decimal
}

// Reprice recalcula LineTotal desde UnitPrice y ResolvedQuantity.
func (l *CartLine) Reprice() {
	l.LineTotal = l.UnitPrice.Mul(l.ResolvedQuantity)
}

// Cart secuencia ordenada de líneas más el descuento y el cliente.
// El total nunca se cachea: siempre se deriva de las líneas (ver pricing.Compute).
type Cart struct {
	Lines    []*CartLine
	Discount Discount
	Customer Customer
}

// NewCart crea un carrito vacío sin descuento.
func NewCart() *Cart {
	return &Cart{Discount: Discount{Kind: DiscountNone}}
}

// FindLine devuelve el índice y la línea del producto, o (-1, nil) si no está.
func (c *Cart) FindLine(productID string) (int, *CartLine) {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i, l
		}
	}
	return -1, nil
}

// RemoveLine elimina la línea del producto conservando el orden de las demás.
// Elimina de verdad: nunca deja una línea en cero.
func (c *Cart) RemoveLine(productID string) bool {
	i, _ := c.FindLine(productID)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

// LineSum suma de los totales de línea por moneda. Es la única fuente del
// total del carrito.
func (c *Cart) LineSum() (cop, usd decimal.Decimal) {
	for _, l := range c.Lines {
		switch l.Currency {
		case CurrencyUSD:
			usd = usd.Add(l.LineTotal)
		default:
			cop = cop.Add(l.LineTotal)
		}
	}
	return cop, usd
}
