// Motor de totales del carrito: subtotales por moneda, unificación a la
// moneda de despliegue, descuento recortado, impuesto y total final.
// Todas las cifras se derivan de las líneas en cada llamada; no existe ningún
// total cacheado que pueda divergir tras una mutación.

package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-pos-api/internal/domain"
	"github.com/jhoicas/Caja-pos-api/internal/domain/entity"
)

var oneHundred = decimal.NewFromInt(100)

// Totals cifras completas de un carrito bajo unos términos de sesión.
type Totals struct {
	SubtotalCOP decimal.Decimal
	SubtotalUSD decimal.Decimal

	DisplayCurrency entity.Currency
	ExchangeRate    decimal.Decimal // COP por USD

	Subtotal decimal.Decimal // unificado en moneda de despliegue
	Discount decimal.Decimal // aplicado (tras recorte), moneda de despliegue
	Tax      decimal.Decimal
	Total    decimal.Decimal

	// Prorrateo del descuento entre los subtotales por moneda, cada parte en
	// su moneda nativa. Solo para auditoría/despliegue: jamás realimenta el
	// total autoritativo.
	DiscountShareCOP decimal.Decimal
	DiscountShareUSD decimal.Decimal
}

// Compute deriva todos los totales del estado actual de las líneas.
// terms se captura una sola vez al iniciar el checkout; la misma tasa aplica a
// subtotal, descuento e impuesto para que las cifras sean consistentes entre sí.
func Compute(cart *entity.Cart, terms entity.CheckoutTerms) (Totals, error) {
	if !terms.ExchangeRate.IsPositive() {
		return Totals{}, &domain.ValidationError{Field: "exchange_rate", Reason: "la tasa de cambio debe ser mayor que cero"}
	}
	if terms.DisplayCurrency != entity.CurrencyCOP && terms.DisplayCurrency != entity.CurrencyUSD {
		return Totals{}, &domain.ValidationError{Field: "display_currency", Reason: "moneda de despliegue no soportada: " + string(terms.DisplayCurrency)}
	}
	taxRate := normalizeRate(terms.TaxRate)
	if taxRate.IsNegative() {
		return Totals{}, &domain.ValidationError{Field: "tax_rate", Reason: "el impuesto no puede ser negativo"}
	}

	t := Totals{
		DisplayCurrency: terms.DisplayCurrency,
		ExchangeRate:    terms.ExchangeRate,
	}
	t.SubtotalCOP, t.SubtotalUSD = cart.LineSum()

	// Unificación: el balde que no está en la moneda de despliegue se
	// convierte con la única tasa de la sesión.
	var usdUnified, copUnified decimal.Decimal
	switch terms.DisplayCurrency {
	case entity.CurrencyCOP:
		copUnified = t.SubtotalCOP
		usdUnified = t.SubtotalUSD.Mul(terms.ExchangeRate)
	case entity.CurrencyUSD:
		copUnified = t.SubtotalCOP.Div(terms.ExchangeRate)
		usdUnified = t.SubtotalUSD
	}
	t.Subtotal = copUnified.Add(usdUnified)

	// Descuento sobre la cifra unificada, recortado.
	t.Discount = clampDiscount(cart.Discount, t.Subtotal)

	// Prorrateo proporcional, solo informativo, en la moneda nativa del balde.
	if t.Subtotal.IsPositive() && t.Discount.IsPositive() {
		copShare := t.Discount.Mul(copUnified).Div(t.Subtotal)
		usdShare := t.Discount.Mul(usdUnified).Div(t.Subtotal)
		if terms.DisplayCurrency == entity.CurrencyCOP {
			t.DiscountShareCOP = copShare
			t.DiscountShareUSD = usdShare.Div(terms.ExchangeRate)
		} else {
			t.DiscountShareCOP = copShare.Mul(terms.ExchangeRate)
			t.DiscountShareUSD = usdShare
		}
	}

	// Impuesto sobre (subtotal - descuento); nunca negativo por el recorte.
	base := t.Subtotal.Sub(t.Discount)
	t.Tax = base.Mul(taxRate)

	t.Total = base.Add(t.Tax)
	if t.Total.IsNegative() {
		t.Total = decimal.Zero
	}
	return t, nil
}

// clampDiscount aplica los recortes: porcentaje a [0,100], fijo a no exceder
// el subtotal; ninguno puede ser negativo.
func clampDiscount(d entity.Discount, subtotal decimal.Decimal) decimal.Decimal {
	switch d.Kind {
	case entity.DiscountPercent:
		pct := d.Value
		if pct.IsNegative() {
			pct = decimal.Zero
		}
		if pct.GreaterThan(oneHundred) {
			pct = oneHundred
		}
		return subtotal.Mul(pct).Div(oneHundred)
	case entity.DiscountFlat:
		v := d.Value
		if v.IsNegative() {
			return decimal.Zero
		}
		if v.GreaterThan(subtotal) {
			return subtotal
		}
		return v
	default:
		return decimal.Zero
	}
}

// normalizeRate acepta tarifas como fracción (0.19) o porcentaje (19).
func normalizeRate(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(oneHundred)
	}
	return rate
}
