package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock que genera la caja.
const (
	MovementTypeOUT = "OUT" // salida por venta
)

// StockMovement registro del libro de movimientos: cada línea vendida deja
// una salida referenciando la venta (SaleID) en la misma transacción del commit.
type StockMovement struct {
	ID        string
	SaleID    string
	ProductID string
	Type      string
	Quantity  decimal.Decimal // negativo en salidas, en unidad canónica
	Unit      string
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
	Date      time.Time
	CreatedAt time.Time
	CreatedBy string
}
