package sales

import (
	"github.com/jhoicas/Caja-pos-api/internal/application/dto"
	"github.com/jhoicas/Caja-pos-api/internal/domain"
	"github.com/jhoicas/Caja-pos-api/internal/domain/entity"
	"github.com/jhoicas/Caja-pos-api/internal/domain/repository"
	"github.com/jhoicas/Caja-pos-api/pkg/money"
)

// UseCase lado de consulta de ventas confirmadas.
type UseCase struct {
	repo repository.SaleRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.SaleRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Get devuelve la venta con sus líneas, o ErrNotFound.
func (uc *UseCase) Get(id string) (*entity.Sale, []*entity.SaleDetail, error) {
	sale, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if sale == nil {
		return nil, nil, domain.ErrNotFound
	}
	details, err := uc.repo.ListDetails(id)
	if err != nil {
		return nil, nil, err
	}
	return sale, details, nil
}

// GetResponse devuelve la venta como DTO de salida.
func (uc *UseCase) GetResponse(id string) (*dto.SaleResponse, error) {
	sale, details, err := uc.Get(id)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale, details)
	return &resp, nil
}

// ToSaleResponse mapea la venta y sus líneas al DTO de salida.
func ToSaleResponse(sale *entity.Sale, details []*entity.SaleDetail) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:               sale.ID,
		Number:           sale.Number,
		Date:             sale.Date,
		SellerID:         sale.SellerID,
		CustomerName:     sale.CustomerName,
		CustomerDocument: sale.CustomerDocument,
		DisplayCurrency:  string(sale.DisplayCurrency),
		ExchangeRate:     sale.ExchangeRate,
		SubtotalCOP:      sale.SubtotalCOP,
		SubtotalUSD:      sale.SubtotalUSD,
		Subtotal:         sale.Subtotal,
		DiscountKind:     sale.DiscountKind,
		DiscountApplied:  sale.DiscountApplied,
		TaxRate:          sale.TaxRate,
		TaxAmount:        sale.TaxAmount,
		GrandTotal:       sale.GrandTotal,
		TotalDisplay:     money.Format(sale.GrandTotal, string(sale.DisplayCurrency)),
		PaymentMethod:    sale.PaymentMethod,
		Details:          make([]dto.SaleDetailResponse, 0, len(details)),
	}
	for _, d := range details {
		resp.Details = append(resp.Details, dto.SaleDetailResponse{
			ProductID:       d.ProductID,
			SKU:             d.SKU,
			Quantity:        d.Quantity,
			Unit:            d.Unit,
			UnitPrice:       d.UnitPrice,
			Currency:        string(d.Currency),
			LineTotal:       d.LineTotal,
			EnteredQuantity: d.EnteredQuantity,
			EnteredUnit:     d.EnteredUnit,
		})
	}
	return resp
}
