package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-pos-api/internal/application/checkout"
	"github.com/jhoicas/Caja-pos-api/internal/domain"
	"github.com/jhoicas/Caja-pos-api/internal/domain/entity"
	"github.com/jhoicas/Caja-pos-api/internal/domain/pricing"
	"github.com/jhoicas/Caja-pos-api/pkg/logger"
)

type commitFixture struct {
	cartUC   *checkout.CartUseCase
	commitUC *checkout.CommitSaleUseCase
	products *fakeProductRepo
	sales    *fakeSaleRepo
	movs     *fakeMovementRepo
	runner   *fakeTxRunner
	journal  *[]string
}

func newCommitFixture(t *testing.T, products ...*entity.Product) *commitFixture {
	t.Helper()
	repo := newFakeProductRepo(products...)
	journal := &[]string{}
	sales := &fakeSaleRepo{journal: journal}
	movs := &fakeMovementRepo{journal: journal}
	runner := &fakeTxRunner{products: repo, sales: sales, movs: movs}
	store := checkout.NewStore()
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	return &commitFixture{
		cartUC:   checkout.NewCartUseCase(store, repo, terminos(), log),
		commitUC: checkout.NewCommitSaleUseCase(store, runner, log),
		products: repo,
		sales:    sales,
		movs:     movs,
		runner:   runner,
		journal:  journal,
	}
}

// arma sesión con las líneas dadas y la deja en CHECKOUT.
func (f *commitFixture) enCheckout(t *testing.T, add func(ctx context.Context, sessionID string)) *checkout.Session {
	t.Helper()
	ctx := context.Background()
	s := f.cartUC.CreateSession("seller-1")
	add(ctx, s.ID)
	s, err := f.cartUC.StartCheckout(s.ID)
	require.NoError(t, err)
	return s
}

func TestCommit_Exitoso(t *testing.T) {
	f := newCommitFixture(t, baldosa(), varilla())
	s := f.enCheckout(t, func(ctx context.Context, id string) {
		_, err := f.cartUC.AddLine(ctx, id, "prod-baldosa", pricing.Entry{Quantity: dec("15.5")})
		require.NoError(t, err)
		_, err = f.cartUC.AddLine(ctx, id, "prod-varilla", pricing.Entry{Quantity: dec("10")})
		require.NoError(t, err)
	})

	sale, details, err := f.commitUC.Commit(context.Background(), s.ID, "EFECTIVO")
	require.NoError(t, err)
	require.NotNil(t, sale)
	require.Len(t, details, 2)

	// cifras autoritativas: 42000*15.5 = 651000 COP; 4.5*10 = 45 USD
	assert.True(t, sale.SubtotalCOP.Equal(dec("651000")))
	assert.True(t, sale.SubtotalUSD.Equal(dec("45")))
	// unificado: 651000 + 45*4000 = 831000; IVA 19%
	assert.True(t, sale.Subtotal.Equal(dec("831000")))
	assert.True(t, sale.GrandTotal.Equal(dec("988890")), "831000*1.19, se obtuvo %s", sale.GrandTotal)

	// persistencia: cabecera, detalles y movimientos OUT en la misma tx
	require.Len(t, f.sales.sales, 1)
	require.Len(t, f.sales.details, 2)
	require.Len(t, f.movs.movements, 2)
	assert.Equal(t, entity.MovementTypeOUT, f.movs.movements[0].Type)
	assert.True(t, f.movs.movements[0].Quantity.IsNegative())

	// débito de stock: AREA en cajas fraccionarias (50 - 15.5/1.44), BAR en barras
	pb, _ := f.products.GetByID("prod-baldosa")
	wantBoxes := dec("50").Sub(dec("15.5").Div(dec("1.44")))
	assert.True(t, pb.Stock.Equal(wantBoxes), "stock de cajas %s, se esperaba %s", pb.Stock, wantBoxes)
	pv, _ := f.products.GetByID("prod-varilla")
	assert.True(t, pv.Stock.Equal(dec("40")))

	// el carrito se destruye y la sesión queda COMMITTED
	s, err = f.cartUC.GetSession(s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateCommitted, s.State)
	assert.Empty(t, s.Cart.Lines)
}

// El escenario de concurrencia: el stock de varilla cae de 50 a 3 entre el
// armado del carrito y el checkout. El commit debe abortar con el faltante
// exacto (disponible=3, solicitado=10) y el carrito debe conservar la línea.
func TestCommit_StockConsumidoPorOtraCaja(t *testing.T) {
	f := newCommitFixture(t, varilla())
	s := f.enCheckout(t, func(ctx context.Context, id string) {
		_, err := f.cartUC.AddLine(ctx, id, "prod-varilla", pricing.Entry{Quantity: dec("10")})
		require.NoError(t, err)
	})

	// otra caja consume el stock compartido
	f.products.setStock("prod-varilla", dec("3"))

	_, _, err := f.commitUC.Commit(context.Background(), s.ID, "EFECTIVO")
	require.Error(t, err)

	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Items, 1)
	assert.True(t, stockErr.Items[0].Requested.Equal(dec("10")), "solicitado=10")
	assert.True(t, stockErr.Items[0].Available.Equal(dec("3")), "disponible=3")

	// sin commit parcial: nada persistido, stock sin tocar
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.movs.movements)
	pv, _ := f.products.GetByID("prod-varilla")
	assert.True(t, pv.Stock.Equal(dec("3")))

	// el carrito conserva la línea (jamás se elimina en silencio) y la sesión
	// queda en ABORTED, no terminal
	s, _ = f.cartUC.GetSession(s.ID)
	assert.Equal(t, entity.StateAborted, s.State)
	require.Len(t, s.Cart.Lines, 1)
	assert.True(t, s.Cart.Lines[0].ResolvedQuantity.Equal(dec("10")))

	// corregido el faltante, el reintento desde ABORTED procede
	f.products.setStock("prod-varilla", dec("50"))
	sale, _, err := f.commitUC.Commit(context.Background(), s.ID, "EFECTIVO")
	require.NoError(t, err)
	assert.NotNil(t, sale)
}

// Falta parcial en carrito multi-línea: el reporte trae TODAS las líneas
// cortas y ninguna línea (ni siquiera las que alcanzan) se confirma.
func TestCommit_AbortaCarritoCompletoSinCommitParcial(t *testing.T) {
	f := newCommitFixture(t, varilla(), cemento())
	s := f.enCheckout(t, func(ctx context.Context, id string) {
		_, err := f.cartUC.AddLine(ctx, id, "prod-varilla", pricing.Entry{Quantity: dec("10")})
		require.NoError(t, err)
		_, err = f.cartUC.AddLine(ctx, id, "prod-cemento", pricing.Entry{Quantity: dec("5")})
		require.NoError(t, err)
	})

	f.products.setStock("prod-varilla", dec("2"))

	_, _, err := f.commitUC.Commit(context.Background(), s.ID, "EFECTIVO")
	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Items, 1, "solo la línea corta aparece en el reporte")
	assert.Equal(t, "prod-varilla", stockErr.Items[0].ProductID)

	// el cemento alcanzaba, pero tampoco se confirmó
	pc, _ := f.products.GetByID("prod-cemento")
	assert.True(t, pc.Stock.Equal(dec("200")), "sin commit parcial de las líneas que sí alcanzan")
}

func TestCommit_FallaDeTransporteConservaCarrito(t *testing.T) {
	f := newCommitFixture(t, cemento())
	s := f.enCheckout(t, func(ctx context.Context, id string) {
		_, err := f.cartUC.AddLine(ctx, id, "prod-cemento", pricing.Entry{Quantity: dec("2")})
		require.NoError(t, err)
	})

	f.runner.failWith = errors.New("conexión rechazada")
	_, _, err := f.commitUC.Commit(context.Background(), s.ID, "EFECTIVO")
	require.Error(t, err)

	var commitErr *domain.CommitError
	require.ErrorAs(t, err, &commitErr)
	assert.Equal(t, "COMMIT_FAILED", commitErr.Code)
	assert.False(t, commitErr.Ambiguous)

	s, _ = f.cartUC.GetSession(s.ID)
	assert.Equal(t, entity.StateAborted, s.State)
	require.Len(t, s.Cart.Lines, 1, "el reintento no exige re-digitar nada")

	// restablecido el transporte, el reintento procede
	f.runner.failWith = nil
	sale, _, err := f.commitUC.Commit(context.Background(), s.ID, "EFECTIVO")
	require.NoError(t, err)
	assert.NotNil(t, sale)
}

// Contexto expirado con el commit ya en vuelo: el resultado es desconocido y
// se reporta la ambigüedad en lugar de asumir fallo.
func TestCommit_TimeoutEnVueloReportaAmbiguedad(t *testing.T) {
	f := newCommitFixture(t, cemento())
	s := f.enCheckout(t, func(ctx context.Context, id string) {
		_, err := f.cartUC.AddLine(ctx, id, "prod-cemento", pricing.Entry{Quantity: dec("2")})
		require.NoError(t, err)
	})

	ctx, cancel := context.WithCancel(context.Background())
	f.runner.onRun = cancel // el contexto expira con la llamada ya despachada
	f.runner.failWith = context.DeadlineExceeded

	_, _, err := f.commitUC.Commit(ctx, s.ID, "EFECTIVO")
	require.Error(t, err)

	var commitErr *domain.CommitError
	require.ErrorAs(t, err, &commitErr)
	assert.True(t, commitErr.Ambiguous, "timeout en vuelo no es un fallo: es resultado desconocido")
	assert.Equal(t, "COMMIT_UNKNOWN", commitErr.Code)

	s, _ = f.cartUC.GetSession(s.ID)
	require.Len(t, s.Cart.Lines, 1, "el carrito queda intacto hasta conciliar")
}

func TestCommit_EstadoInvalido(t *testing.T) {
	f := newCommitFixture(t, cemento())
	ctx := context.Background()

	s := f.cartUC.CreateSession("seller-1")
	_, err := f.cartUC.AddLine(ctx, s.ID, "prod-cemento", pricing.Entry{Quantity: dec("1")})
	require.NoError(t, err)

	// en CART, sin iniciar checkout
	_, _, err = f.commitUC.Commit(ctx, s.ID, "EFECTIVO")
	assert.True(t, errors.Is(err, domain.ErrSessionState))
}

func TestValidateStock_ReporteIndependienteDelCommit(t *testing.T) {
	repo := newFakeProductRepo(varilla(), cemento())
	lines := []*entity.CartLine{
		{ProductID: "prod-varilla", SKU: "VAR-038", ResolvedQuantity: dec("10")},
		{ProductID: "prod-cemento", SKU: "CEM-050", ResolvedQuantity: dec("500")},
		{ProductID: "prod-retirado", SKU: "RET-000", ResolvedQuantity: dec("1")},
	}
	repo.setStock("prod-varilla", dec("3"))

	shortages, err := checkout.ValidateStock(lines, repo)
	require.NoError(t, err)
	require.Len(t, shortages, 3)

	byID := map[string]domain.StockShortage{}
	for _, sh := range shortages {
		byID[sh.ProductID] = sh
	}
	assert.True(t, byID["prod-varilla"].Available.Equal(dec("3")))
	assert.True(t, byID["prod-cemento"].Available.Equal(dec("200")))
	assert.True(t, byID["prod-retirado"].Available.IsZero(),
		"producto retirado del catálogo reporta disponible cero")
}

func TestCommit_CabeceraDeVentaAntesQueDetallesYMovimientos(t *testing.T) {
	f := newCommitFixture(t, baldosa(), cemento())
	s := f.enCheckout(t, func(ctx context.Context, id string) {
		_, err := f.cartUC.AddLine(ctx, id, "prod-baldosa", pricing.Entry{Quantity: dec("3")})
		require.NoError(t, err)
		_, err = f.cartUC.AddLine(ctx, id, "prod-cemento", pricing.Entry{Quantity: dec("5")})
		require.NoError(t, err)
	})

	_, _, err := f.commitUC.Commit(context.Background(), s.ID, "EFECTIVO")
	require.NoError(t, err)

	// detalles y movimientos referencian sales(id): la cabecera va primero
	ops := *f.journal
	require.NotEmpty(t, ops)
	assert.Equal(t, "venta", ops[0], "la cabecera de la venta debe insertarse primero")
	for _, op := range ops[1:] {
		assert.NotEqual(t, "venta", op, "una sola inserción de cabecera por commit")
	}
	assert.Contains(t, ops, "detalle")
	assert.Contains(t, ops, "movimiento")
}
