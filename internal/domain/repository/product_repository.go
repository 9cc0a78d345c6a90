package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-pos-api/internal/domain/entity"
)

// ProductRepository define el puerto de lectura y débito de stock del catálogo (DIP).
// La caja nunca muta un producto salvo su stock en el commit.
type ProductRepository interface {
	// GetByID lectura simple, aceptable durante la navegación (pre-checkout).
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate lectura autoritativa con bloqueo de fila (SELECT FOR UPDATE);
	// úsese solo dentro de la transacción del commit.
	GetForUpdate(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	// DecrementStock resta qty (en la unidad de conteo de bodega) al stock.
	DecrementStock(productID string, qty decimal.Decimal, now time.Time) error
}
