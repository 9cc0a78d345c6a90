package checkout

import (
	"context"

	"github.com/jhoicas/Caja-pos-api/internal/domain/entity"
	"github.com/jhoicas/Caja-pos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la frontera de commit: todo o nada, sin
// commit parcial de líneas.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// StockReader lectura autoritativa del catálogo para la validación de stock.
// La implementación debe ir a la fuente (sin caché): cualquier lectura previa
// al checkout es demostrablemente vieja frente a vendedores concurrentes.
type StockReader interface {
	GetByID(id string) (*entity.Product, error)
}
