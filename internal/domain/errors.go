package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sentinelas, sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrSessionState      = errors.New("operación no permitida en el estado actual de la sesión")
	ErrCommitFailed      = errors.New("el envío de la venta falló")
)

// ValidationError señala una cantidad o unidad mal formada o no permitida.
// Identifica producto y campo para que el cajero corrija la línea exacta;
// el carrito queda intacto.
type ValidationError struct {
	ProductID string
	Field     string // "quantity", "unit", "conversion_factor", "discount", ...
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.ProductID == "" {
		return fmt.Sprintf("validación: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("validación: producto %s, %s: %s", e.ProductID, e.Field, e.Reason)
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// StockShortage detalla el faltante de una línea: solicitado vs disponible.
type StockShortage struct {
	ProductID string
	SKU       string
	Requested decimal.Decimal
	Available decimal.Decimal
}

// StockError reporta todas las líneas cuyo stock fresco no alcanza.
// Nunca hay commit parcial: una sola línea corta aborta el carrito completo.
type StockError struct {
	Items []StockShortage
}

func (e *StockError) Error() string {
	var sb strings.Builder
	sb.WriteString("stock insuficiente:")
	for _, it := range e.Items {
		fmt.Fprintf(&sb, " [%s solicitado=%s disponible=%s]", it.ProductID, it.Requested, it.Available)
	}
	return sb.String()
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// CommitError representa una falla del commit externo (red, sesión, rechazo remoto).
// Ambiguous=true cuando la llamada ya estaba despachada y no hubo respuesta
// definitiva (ej. timeout): el resultado es desconocido y el caller debe
// conciliar en lugar de asumir fallo. El carrito queda intacto en ambos casos.
type CommitError struct {
	Code      string
	Message   string
	Ambiguous bool
	Err       error
}

func (e *CommitError) Error() string {
	if e.Ambiguous {
		return fmt.Sprintf("commit %s: resultado desconocido: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("commit %s: %s", e.Code, e.Message)
}

// Unwrap expone la causa y permite errors.Is(err, ErrCommitFailed).
func (e *CommitError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrCommitFailed
}
