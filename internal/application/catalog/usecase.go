package catalog

import (
	"github.com/jhoicas/Caja-pos-api/internal/application/dto"
	"github.com/jhoicas/Caja-pos-api/internal/domain"
	"github.com/jhoicas/Caja-pos-api/internal/domain/entity"
	"github.com/jhoicas/Caja-pos-api/internal/domain/pricing"
	"github.com/jhoicas/Caja-pos-api/internal/domain/repository"
	"github.com/jhoicas/Caja-pos-api/pkg/money"
)

// UseCase lado de lectura del catálogo para la navegación del cajero.
// Una lectura cacheada o vieja es aceptable aquí (solo despliegue); la
// lectura autoritativa vive en la frontera de commit.
type UseCase struct {
	repo repository.ProductRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ProductRepository) *UseCase {
	return &UseCase{repo: repo}
}

// GetByID devuelve el producto con su disponibilidad en unidad canónica.
func (uc *UseCase) GetByID(id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	resp := toProductResponse(p)
	return &resp, nil
}

// List devuelve una página del catálogo.
func (uc *UseCase) List(page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	products, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Category:     string(p.Category),
		Unit:         p.Unit,
		Price:        p.Price,
		Currency:     string(p.Currency),
		PriceDisplay: money.Format(p.Price, string(p.Currency)),
		AreaPerBox:   p.AreaPerBox,
		BarsPerTonne: p.BarsPerTonne,
		UpdatedAt:    p.UpdatedAt,
	}
	if rule, err := pricing.RuleFor(p.Category); err == nil {
		resp.Available = rule.Available(p)
		resp.LowStock = resp.Available.LessThanOrEqual(p.MinStock)
	}
	return resp
}
