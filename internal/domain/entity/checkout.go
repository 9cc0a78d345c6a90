package entity

import "github.com/shopspring/decimal"

// Estados de una sesión de caja.
//
//	BROWSING -> CART      : primera línea agregada
//	CART     -> CHECKOUT  : inicio de checkout (requiere >= 1 línea); congela CheckoutTerms
//	CHECKOUT -> COMMITTED : validación de stock y commit exitosos
//	CHECKOUT -> ABORTED   : falla de stock o de commit
//	ABORTED  -> CHECKOUT  : no es terminal; el carrito se conserva para corregir y reintentar
//
// Solo un reset explícito vuelve a BROWSING con el carrito vacío; un commit
// abortado jamás limpia el carrito por su cuenta.
const (
	StateBrowsing  = "BROWSING"
	StateCart      = "CART"
	StateCheckout  = "CHECKOUT"
	StateCommitted = "COMMITTED"
	StateAborted   = "ABORTED"
)

// CheckoutTerms parámetros congelados al iniciar el checkout: una sola tasa de
// cambio, una moneda de despliegue y una tarifa de impuesto por sesión. Jamás
// se refrescan a mitad de cálculo, para que subtotal, descuento e impuesto
// salgan de las mismas cifras.
type CheckoutTerms struct {
	ExchangeRate    decimal.Decimal // COP por USD
	DisplayCurrency Currency
	TaxRate         decimal.Decimal // fracción o porcentaje; pricing normaliza
}

// IsZero indica si los términos aún no han sido capturados.
func (t CheckoutTerms) IsZero() bool {
	return t.ExchangeRate.IsZero() && t.DisplayCurrency == "" && t.TaxRate.IsZero()
}
