package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Caja-pos-api/internal/domain"
	"github.com/jhoicas/Caja-pos-api/internal/domain/entity"
	"github.com/jhoicas/Caja-pos-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, number, date, seller_id, customer_name, customer_document,
			display_currency, exchange_rate, subtotal_cop, subtotal_usd, subtotal,
			discount_kind, discount_value, discount_applied, tax_rate, tax_amount,
			grand_total, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.Number, sale.Date, sale.SellerID, sale.CustomerName, sale.CustomerDocument,
		sale.DisplayCurrency, sale.ExchangeRate, sale.SubtotalCOP, sale.SubtotalUSD, sale.Subtotal,
		sale.DiscountKind, sale.DiscountValue, sale.DiscountApplied, sale.TaxRate, sale.TaxAmount,
		sale.GrandTotal, sale.PaymentMethod, sale.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea de la venta.
func (r *SaleRepo) CreateDetail(d *entity.SaleDetail) error {
	query := `
		INSERT INTO sale_details (id, sale_id, product_id, sku, quantity, unit,
			unit_price, currency, line_total, entered_quantity, entered_unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.SaleID, d.ProductID, d.SKU, d.Quantity, d.Unit,
		d.UnitPrice, d.Currency, d.LineTotal, d.EnteredQuantity, d.EnteredUnit,
	)
	if err != nil {
		return fmt.Errorf("insert sale detail: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `
		SELECT id, number, date, seller_id, customer_name, customer_document,
			display_currency, exchange_rate, subtotal_cop, subtotal_usd, subtotal,
			discount_kind, discount_value, discount_applied, tax_rate, tax_amount,
			grand_total, payment_method, created_at
		FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.Number, &s.Date, &s.SellerID, &s.CustomerName, &s.CustomerDocument,
		&s.DisplayCurrency, &s.ExchangeRate, &s.SubtotalCOP, &s.SubtotalUSD, &s.Subtotal,
		&s.DiscountKind, &s.DiscountValue, &s.DiscountApplied, &s.TaxRate, &s.TaxAmount,
		&s.GrandTotal, &s.PaymentMethod, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// ListDetails lista las líneas de una venta en orden de inserción.
func (r *SaleRepo) ListDetails(saleID string) ([]*entity.SaleDetail, error) {
	query := `
		SELECT id, sale_id, product_id, sku, quantity, unit,
			unit_price, currency, line_total, entered_quantity, entered_unit
		FROM sale_details WHERE sale_id = $1 ORDER BY ctid`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale details: %w", err)
	}
	defer rows.Close()

	var details []*entity.SaleDetail
	for rows.Next() {
		var d entity.SaleDetail
		if err := rows.Scan(
			&d.ID, &d.SaleID, &d.ProductID, &d.SKU, &d.Quantity, &d.Unit,
			&d.UnitPrice, &d.Currency, &d.LineTotal, &d.EnteredQuantity, &d.EnteredUnit,
		); err != nil {
			return nil, fmt.Errorf("scan sale detail: %w", err)
		}
		details = append(details, &d)
	}
	return details, rows.Err()
}
