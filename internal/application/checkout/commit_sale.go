package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Caja-pos-api/internal/domain"
	"github.com/jhoicas/Caja-pos-api/internal/domain/entity"
	"github.com/jhoicas/Caja-pos-api/internal/domain/pricing"
	"github.com/jhoicas/Caja-pos-api/internal/domain/repository"
	"github.com/jhoicas/Caja-pos-api/pkg/logger"
)

// CommitSaleUseCase compuerta del commit: re-lee el stock autoritativo de cada
// producto del carrito justo antes de confirmar, y acepta o rechaza el carrito
// completo en una sola transacción. Sin reservas durante la navegación: la
// única verificación confiable es la de la frontera de commit, porque el stock
// pudo consumirse por cajas concurrentes desde que se armó el carrito.
type CommitSaleUseCase struct {
	store    *Store
	txRunner TxRunner
	log      *logger.Logger
}

// NewCommitSaleUseCase construye el caso de uso.
func NewCommitSaleUseCase(store *Store, txRunner TxRunner, log *logger.Logger) *CommitSaleUseCase {
	return &CommitSaleUseCase{store: store, txRunner: txRunner, log: log}
}

// ValidateStock compara la cantidad resuelta de cada línea contra el stock
// recién leído del catálogo. Devuelve el faltante por línea; vacío significa
// que todo alcanza. Separado del commit para poder probar el reporte de falla
// sin el transporte de persistencia.
func ValidateStock(lines []*entity.CartLine, reader StockReader) ([]domain.StockShortage, error) {
	var shortages []domain.StockShortage
	for _, line := range lines {
		p, err := reader.GetByID(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("leer stock de %s: %w", line.ProductID, err)
		}
		if p == nil {
			// Producto retirado del catálogo: disponible cero.
			shortages = append(shortages, domain.StockShortage{
				ProductID: line.ProductID,
				SKU:       line.SKU,
				Requested: line.ResolvedQuantity,
			})
			continue
		}
		if sh := pricing.Shortage(p, line.ResolvedQuantity); sh != nil {
			shortages = append(shortages, *sh)
		}
	}
	return shortages, nil
}

// Validate re-valida la sesión contra el lector autoritativo, sin confirmar.
func (uc *CommitSaleUseCase) Validate(sessionID string, reader StockReader) ([]domain.StockShortage, error) {
	s := uc.store.Get(sessionID)
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if len(s.Cart.Lines) == 0 {
		return nil, &domain.ValidationError{Field: "cart", Reason: "carrito vacío"}
	}
	return ValidateStock(s.Cart.Lines, reader)
}

// Commit confirma la venta: dentro de una sola transacción bloquea la fila de
// cada producto (SELECT FOR UPDATE), re-valida la cantidad de cada línea
// contra el stock fresco, y si todas alcanzan descuenta stock, guarda cabecera,
// detalles y movimientos OUT. Cualquier faltante aborta el carrito completo
// con el reporte por línea; el carrito queda intacto y la sesión en ABORTED,
// lista para corregir y reintentar. Sin reintentos automáticos.
func (uc *CommitSaleUseCase) Commit(ctx context.Context, sessionID, paymentMethod string) (*entity.Sale, []*entity.SaleDetail, error) {
	s := uc.store.Get(sessionID)
	if s == nil {
		return nil, nil, domain.ErrNotFound
	}
	if s.State != entity.StateCheckout && s.State != entity.StateAborted {
		return nil, nil, domain.ErrSessionState
	}
	if len(s.Cart.Lines) == 0 {
		return nil, nil, &domain.ValidationError{Field: "cart", Reason: "carrito vacío"}
	}
	if paymentMethod == "" {
		return nil, nil, &domain.ValidationError{Field: "payment_method", Reason: "método de pago requerido"}
	}

	// La cancelación solo tiene sentido antes de despachar el commit.
	if err := ctx.Err(); err != nil {
		return nil, nil, &domain.CommitError{Code: "CANCELLED", Message: "commit cancelado antes de despacharse", Err: err}
	}

	// Cifras autoritativas con los términos congelados de la sesión.
	totals, err := pricing.Compute(s.Cart, s.Terms)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:               uuid.New().String(),
		Number:           fmt.Sprintf("POS-%d", now.Unix()),
		Date:             now,
		SellerID:         s.SellerID,
		CustomerName:     s.Cart.Customer.Name,
		CustomerDocument: s.Cart.Customer.Document,
		DisplayCurrency:  totals.DisplayCurrency,
		ExchangeRate:     totals.ExchangeRate,
		SubtotalCOP:      totals.SubtotalCOP,
		SubtotalUSD:      totals.SubtotalUSD,
		Subtotal:         totals.Subtotal,
		DiscountKind:     s.Cart.Discount.Kind,
		DiscountValue:    s.Cart.Discount.Value,
		DiscountApplied:  totals.Discount,
		TaxRate:          s.Terms.TaxRate,
		TaxAmount:        totals.Tax,
		GrandTotal:       totals.Total,
		PaymentMethod:    paymentMethod,
		CreatedAt:        now,
	}
	details := make([]*entity.SaleDetail, 0, len(s.Cart.Lines))

	err = uc.txRunner.RunSale(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		movRepo repository.StockMovementRepository,
	) error {
		// Fase 1: validación con bloqueo de fila. Se recogen TODOS los
		// faltantes antes de abortar, para un reporte completo por línea.
		products := make(map[string]*entity.Product, len(s.Cart.Lines))
		var shortages []domain.StockShortage
		for _, line := range s.Cart.Lines {
			p, err := productRepo.GetForUpdate(line.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				shortages = append(shortages, domain.StockShortage{
					ProductID: line.ProductID, SKU: line.SKU, Requested: line.ResolvedQuantity,
				})
				continue
			}
			products[line.ProductID] = p
			if sh := pricing.Shortage(p, line.ResolvedQuantity); sh != nil {
				shortages = append(shortages, *sh)
			}
		}
		if len(shortages) > 0 {
			return &domain.StockError{Items: shortages}
		}

		// Fase 2: débito y persistencia, misma transacción. La cabecera
		// de la venta se inserta primero: los movimientos y detalles
		// referencian sales(id).
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, line := range s.Cart.Lines {
			p := products[line.ProductID]
			if err := productRepo.DecrementStock(p.ID, pricing.StockDebit(p, line.ResolvedQuantity), now); err != nil {
				return err
			}
			if err := movRepo.Create(&entity.StockMovement{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ProductID: p.ID,
				Type:      entity.MovementTypeOUT,
				Quantity:  line.ResolvedQuantity.Neg(),
				Unit:      line.Unit,
				UnitPrice: line.UnitPrice,
				Total:     line.LineTotal.Neg(),
				Date:      now,
				CreatedAt: now,
				CreatedBy: s.SellerID,
			}); err != nil {
				return err
			}
		}

		for _, line := range s.Cart.Lines {
			d := &entity.SaleDetail{
				ID:              uuid.New().String(),
				SaleID:          sale.ID,
				ProductID:       line.ProductID,
				SKU:             line.SKU,
				Quantity:        line.ResolvedQuantity,
				Unit:            line.Unit,
				UnitPrice:       line.UnitPrice,
				Currency:        line.Currency,
				LineTotal:       line.LineTotal,
				EnteredQuantity: line.EnteredQuantity,
				EnteredUnit:     line.EnteredUnit,
			}
			if err := saleRepo.CreateDetail(d); err != nil {
				return err
			}
			details = append(details, d)
		}
		return nil
	})

	if err != nil {
		// El aborto nunca limpia el carrito: la sesión vuelve a ABORTED
		// (no terminal) y el reintento no exige re-digitar nada.
		s.State = entity.StateAborted
		s.UpdatedAt = time.Now()

		var stockErr *domain.StockError
		if errors.As(err, &stockErr) {
			uc.log.Warn().Str("session_id", s.ID).Int("faltantes", len(stockErr.Items)).
				Msg("commit abortado por stock insuficiente")
			return nil, nil, err
		}
		var commitErr *domain.CommitError
		if errors.As(err, &commitErr) {
			return nil, nil, err
		}
		// Timeout o cancelación con el commit ya despachado: el resultado es
		// desconocido. Se reporta la ambigüedad en lugar de adivinar un fallo.
		if ctx.Err() != nil {
			uc.log.Error().Err(err).Str("session_id", s.ID).
				Msg("commit despachado sin respuesta definitiva")
			return nil, nil, &domain.CommitError{
				Code:      "COMMIT_UNKNOWN",
				Message:   "sin respuesta definitiva del almacén; conciliar antes de reintentar",
				Ambiguous: true,
				Err:       err,
			}
		}
		uc.log.Error().Err(err).Str("session_id", s.ID).Msg("commit de venta falló")
		return nil, nil, &domain.CommitError{Code: "COMMIT_FAILED", Message: err.Error(), Err: err}
	}

	// Éxito: el carrito se destruye y la sesión queda COMMITTED.
	s.Cart = entity.NewCart()
	s.State = entity.StateCommitted
	s.UpdatedAt = time.Now()
	uc.log.Info().Str("sale_id", sale.ID).Str("number", sale.Number).
		Str("total", sale.GrandTotal.String()).Str("moneda", string(sale.DisplayCurrency)).
		Msg("venta confirmada")
	return sale, details, nil
}
