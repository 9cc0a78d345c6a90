package repository

import "github.com/jhoicas/Caja-pos-api/internal/domain/entity"

// SaleRepository puerto de persistencia de ventas confirmadas (DIP).
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateDetail(detail *entity.SaleDetail) error
	GetByID(id string) (*entity.Sale, error)
	ListDetails(saleID string) ([]*entity.SaleDetail, error)
}

// StockMovementRepository puerto del libro de movimientos de stock.
type StockMovementRepository interface {
	Create(m *entity.StockMovement) error
}
