package checkout_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-pos-api/internal/domain/entity"
	"github.com/jhoicas/Caja-pos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los puertos de persistencia. El runner imita la
// atomicidad de la transacción real: si fn falla, restaura el stock y descarta
// lo escrito (rollback).
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		cp := *p
		r.products[p.ID] = &cp
	}
	return r
}

// setStock simula a otro cajero consumiendo el stock compartido entre el
// armado del carrito y el checkout.
func (r *fakeProductRepo) setStock(id string, stock decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		p.Stock = stock
	}
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p // cada lectura devuelve una copia, como una fila de la DB
	return &cp, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProductRepo) DecrementStock(productID string, qty decimal.Decimal, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[productID]; ok {
		p.Stock = p.Stock.Sub(qty)
	}
	return nil
}

func (r *fakeProductRepo) snapshot() map[string]decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[string]decimal.Decimal, len(r.products))
	for id, p := range r.products {
		snap[id] = p.Stock
	}
	return snap
}

func (r *fakeProductRepo) restore(snap map[string]decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, stock := range snap {
		if p, ok := r.products[id]; ok {
			p.Stock = stock
		}
	}
}

type fakeSaleRepo struct {
	sales   []*entity.Sale
	details []*entity.SaleDetail
	journal *[]string // orden de inserción compartido con fakeMovementRepo
}

func (r *fakeSaleRepo) anota(op string) {
	if r.journal != nil {
		*r.journal = append(*r.journal, op)
	}
}

func (r *fakeSaleRepo) Create(sale *entity.Sale) error {
	r.anota("venta")
	r.sales = append(r.sales, sale)
	return nil
}

func (r *fakeSaleRepo) CreateDetail(d *entity.SaleDetail) error {
	r.anota("detalle")
	r.details = append(r.details, d)
	return nil
}

func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	for _, s := range r.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) ListDetails(saleID string) ([]*entity.SaleDetail, error) {
	var out []*entity.SaleDetail
	for _, d := range r.details {
		if d.SaleID == saleID {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeMovementRepo struct {
	movements []*entity.StockMovement
	journal   *[]string
}

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	if r.journal != nil {
		*r.journal = append(*r.journal, "movimiento")
	}
	r.movements = append(r.movements, m)
	return nil
}

type fakeTxRunner struct {
	products *fakeProductRepo
	sales    *fakeSaleRepo
	movs     *fakeMovementRepo

	failWith error  // si no es nil, el transporte falla sin ejecutar fn
	onRun    func() // hook previo a fn (simula expiración de contexto en vuelo)
}

func (r *fakeTxRunner) RunSale(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	if r.onRun != nil {
		r.onRun()
	}
	if r.failWith != nil {
		return r.failWith
	}
	stockSnap := r.products.snapshot()
	nSales, nDetails, nMovs := len(r.sales.sales), len(r.sales.details), len(r.movs.movements)
	if err := fn(r.products, r.sales, r.movs); err != nil {
		// rollback
		r.products.restore(stockSnap)
		r.sales.sales = r.sales.sales[:nSales]
		r.sales.details = r.sales.details[:nDetails]
		r.movs.movements = r.movs.movements[:nMovs]
		return err
	}
	return nil
}

// ── productos de prueba ──────────────────────────────────────────────────────

func baldosa() *entity.Product {
	return &entity.Product{
		ID: "prod-baldosa", SKU: "BAL-001", Name: "Baldosa cerámica 60x60",
		Category: entity.CategoryArea, Unit: "m2",
		Price: dec("42000"), Currency: entity.CurrencyCOP,
		Stock: dec("50"), AreaPerBox: dec("1.44"),
	}
}

func varilla() *entity.Product {
	return &entity.Product{
		ID: "prod-varilla", SKU: "VAR-038", Name: "Varilla corrugada 3/8",
		Category: entity.CategoryBarBulk, Unit: "barra",
		Price: dec("4.5"), Currency: entity.CurrencyUSD,
		Stock: dec("50"), BarsPerTonne: dec("480"),
	}
}

func cemento() *entity.Product {
	return &entity.Product{
		ID: "prod-cemento", SKU: "CEM-050", Name: "Cemento gris 50kg",
		Category: entity.CategoryGeneric, Unit: "bulto",
		Price: dec("32500"), Currency: entity.CurrencyCOP,
		Stock: dec("200"),
	}
}

func terminos() entity.CheckoutTerms {
	return entity.CheckoutTerms{
		ExchangeRate:    dec("4000"),
		DisplayCurrency: entity.CurrencyCOP,
		TaxRate:         dec("0.19"),
	}
}
