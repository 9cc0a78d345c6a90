package checkout

import (
	"context"
	"time"

	"github.com/jhoicas/Caja-pos-api/internal/domain"
	"github.com/jhoicas/Caja-pos-api/internal/domain/entity"
	"github.com/jhoicas/Caja-pos-api/internal/domain/pricing"
	"github.com/jhoicas/Caja-pos-api/internal/domain/repository"
	"github.com/jhoicas/Caja-pos-api/pkg/logger"
)

// CartUseCase mantiene la identidad de las líneas y la semántica de fusión
// del carrito: agregar/fusionar, editar, eliminar, descuento, cliente y las
// transiciones de estado de la sesión. Todo el cálculo es síncrono y sin
// efectos; la única suspensión vive en el commit.
type CartUseCase struct {
	store    *Store
	products repository.ProductRepository
	terms    entity.CheckoutTerms // términos vigentes; se congelan por sesión en StartCheckout
	log      *logger.Logger
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(store *Store, products repository.ProductRepository, terms entity.CheckoutTerms, log *logger.Logger) *CartUseCase {
	return &CartUseCase{store: store, products: products, terms: terms, log: log}
}

// CreateSession abre una sesión de caja en BROWSING.
func (uc *CartUseCase) CreateSession(sellerID string) *Session {
	s := uc.store.Create(sellerID)
	uc.log.Debug().Str("session_id", s.ID).Str("seller_id", sellerID).Msg("sesión de caja creada")
	return s
}

// GetSession devuelve la sesión o ErrNotFound.
func (uc *CartUseCase) GetSession(id string) (*Session, error) {
	s := uc.store.Get(id)
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// AddLine resuelve la entrada del cajero y la agrega al carrito.
//
// Si el producto ya está en el carrito la cantidad resuelta se incrementa y se
// re-valida contra stock — salvo en categorías por área: las entradas
// parciales de área no se pueden sumar con sentido sin recalcular el precio
// desde cero, así que se exige eliminar la línea y digitar el área total.
func (uc *CartUseCase) AddLine(ctx context.Context, sessionID, productID string, entry pricing.Entry) (*Session, error) {
	s, err := uc.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !s.canMutateCart() {
		return nil, domain.ErrSessionState
	}

	product, err := uc.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	rule, err := pricing.RuleFor(product.Category)
	if err != nil {
		return nil, err
	}
	res, err := rule.Resolve(product, entry)
	if err != nil {
		return nil, err
	}

	_, existing := s.Cart.FindLine(productID)
	if existing != nil && product.Category == entity.CategoryArea {
		return nil, &domain.ValidationError{
			ProductID: productID,
			Field:     "quantity",
			Reason:    "producto por área ya está en el carrito: elimine la línea y digite el área total",
		}
	}

	requested := res.Quantity
	if existing != nil {
		requested = existing.ResolvedQuantity.Add(res.Quantity)
	}
	if sh := pricing.Shortage(product, requested); sh != nil {
		return nil, &domain.StockError{Items: []domain.StockShortage{*sh}}
	}

	if existing != nil {
		existing.ResolvedQuantity = requested
		existing.EnteredQuantity = requested
		existing.EnteredUnit = pricing.EntryCanonical
		existing.UnitPrice = res.UnitPrice
		existing.Reprice()
	} else {
		line := &entity.CartLine{
			ProductID:        product.ID,
			SKU:              product.SKU,
			Name:             product.Name,
			Category:         product.Category,
			Unit:             product.Unit,
			EnteredQuantity:  entry.Quantity,
			EnteredUnit:      entry.Unit,
			ResolvedQuantity: res.Quantity,
			UnitPrice:        res.UnitPrice,
			Currency:         product.Currency,
		}
		line.Reprice()
		s.Cart.Lines = append(s.Cart.Lines, line)
	}

	s.touch()
	return s, nil
}

// EditLine reemplaza la cantidad de la línea por la entrada nueva (no suma) y
// re-valida y re-cotiza. Cantidad cero elimina la línea: un decremento a cero
// nunca deja una línea vacía.
func (uc *CartUseCase) EditLine(ctx context.Context, sessionID, productID string, entry pricing.Entry) (*Session, error) {
	s, err := uc.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !s.canMutateCart() {
		return nil, domain.ErrSessionState
	}
	_, line := s.Cart.FindLine(productID)
	if line == nil {
		return nil, domain.ErrNotFound
	}

	if entry.Quantity.IsZero() && entry.Unit == pricing.EntryCanonical {
		s.Cart.RemoveLine(productID)
		s.touch()
		return s, nil
	}

	product, err := uc.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	rule, err := pricing.RuleFor(product.Category)
	if err != nil {
		return nil, err
	}
	res, err := rule.Resolve(product, entry)
	if err != nil {
		return nil, err
	}
	if sh := pricing.Shortage(product, res.Quantity); sh != nil {
		return nil, &domain.StockError{Items: []domain.StockShortage{*sh}}
	}

	line.EnteredQuantity = entry.Quantity
	line.EnteredUnit = entry.Unit
	line.ResolvedQuantity = res.Quantity
	line.UnitPrice = res.UnitPrice
	line.Reprice()

	s.touch()
	return s, nil
}

// RemoveLine elimina la línea del producto.
func (uc *CartUseCase) RemoveLine(sessionID, productID string) (*Session, error) {
	s, err := uc.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !s.canMutateCart() {
		return nil, domain.ErrSessionState
	}
	if !s.Cart.RemoveLine(productID) {
		return nil, domain.ErrNotFound
	}
	s.touch()
	return s, nil
}

// SetDiscount fija la especificación de descuento del carrito. Los recortes
// (porcentaje a [0,100], fijo al subtotal) los aplica el motor al calcular.
func (uc *CartUseCase) SetDiscount(sessionID string, d entity.Discount) (*Session, error) {
	s, err := uc.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !s.canMutateCart() {
		return nil, domain.ErrSessionState
	}
	switch d.Kind {
	case entity.DiscountNone, entity.DiscountPercent, entity.DiscountFlat:
	default:
		return nil, &domain.ValidationError{Field: "discount", Reason: "tipo de descuento desconocido: " + d.Kind}
	}
	if d.Value.IsNegative() {
		return nil, &domain.ValidationError{Field: "discount", Reason: "el descuento no puede ser negativo"}
	}
	s.Cart.Discount = d
	s.touch()
	return s, nil
}

// SetCustomer fija los datos del cliente (solo despliegue, sin efecto en precios).
func (uc *CartUseCase) SetCustomer(sessionID string, c entity.Customer) (*Session, error) {
	s, err := uc.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !s.canMutateCart() {
		return nil, domain.ErrSessionState
	}
	s.Cart.Customer = c
	s.touch()
	return s, nil
}

// StartCheckout transiciona CART -> CHECKOUT. Requiere al menos una línea y
// congela los términos de la sesión (tasa, moneda de despliegue, impuesto):
// una sola lectura por checkout, jamás refrescada a mitad de cálculo.
func (uc *CartUseCase) StartCheckout(sessionID string) (*Session, error) {
	s, err := uc.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if s.State != entity.StateCart {
		return nil, domain.ErrSessionState
	}
	if len(s.Cart.Lines) == 0 {
		return nil, &domain.ValidationError{Field: "cart", Reason: "el checkout requiere al menos una línea"}
	}
	s.Terms = uc.terms
	s.State = entity.StateCheckout
	s.UpdatedAt = time.Now()
	uc.log.Debug().Str("session_id", s.ID).
		Str("display_currency", string(s.Terms.DisplayCurrency)).
		Str("exchange_rate", s.Terms.ExchangeRate.String()).
		Msg("checkout iniciado, términos congelados")
	return s, nil
}

// Reset vacía el carrito y vuelve a BROWSING. Es la única vía de regreso:
// un commit abortado jamás limpia el carrito por su cuenta.
func (uc *CartUseCase) Reset(sessionID string) (*Session, error) {
	s, err := uc.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.Cart = entity.NewCart()
	s.Terms = entity.CheckoutTerms{}
	s.State = entity.StateBrowsing
	s.touch()
	return s, nil
}

// Totals deriva las cifras del carrito actual. Dentro del checkout usa los
// términos congelados de la sesión; antes, los vigentes (solo vista previa).
func (uc *CartUseCase) Totals(sessionID string) (pricing.Totals, error) {
	s, err := uc.GetSession(sessionID)
	if err != nil {
		return pricing.Totals{}, err
	}
	terms := s.Terms
	if terms.IsZero() {
		terms = uc.terms
	}
	return pricing.Compute(s.Cart, terms)
}
