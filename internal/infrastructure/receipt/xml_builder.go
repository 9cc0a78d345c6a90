package receipt

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-pos-api/internal/domain/entity"
	"github.com/jhoicas/Caja-pos-api/pkg/money"
)

// TicketBuilder serializa una venta confirmada como tique XML: la cabecera con
// las cifras autoritativas y las líneas con la procedencia de la digitación
// (cantidad y unidad tal como las tecleó el cajero, además de la resuelta).
type TicketBuilder struct{}

// NewTicketBuilder construye el generador de tiques.
func NewTicketBuilder() *TicketBuilder {
	return &TicketBuilder{}
}

// Build genera el XML del tique. Los montos llevan el valor decimal autoritativo
// en atributos y el texto formateado al locale de la moneda para impresión.
func (b *TicketBuilder) Build(sale *entity.Sale, details []*entity.SaleDetail) ([]byte, error) {
	if sale == nil {
		return nil, fmt.Errorf("receipt: venta nula")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	ticket := doc.CreateElement("Tique")
	ticket.CreateAttr("id", sale.ID)
	ticket.CreateAttr("numero", sale.Number)
	ticket.CreateAttr("fecha", sale.Date.Format("2006-01-02T15:04:05-07:00"))

	vendedor := ticket.CreateElement("Vendedor")
	vendedor.CreateAttr("id", sale.SellerID)

	if sale.CustomerName != "" || sale.CustomerDocument != "" {
		cliente := ticket.CreateElement("Cliente")
		cliente.CreateElement("Nombre").SetText(sale.CustomerName)
		if sale.CustomerDocument != "" {
			cliente.CreateElement("Documento").SetText(sale.CustomerDocument)
		}
	}

	lineas := ticket.CreateElement("Lineas")
	for _, d := range details {
		linea := lineas.CreateElement("Linea")
		linea.CreateAttr("sku", d.SKU)
		linea.CreateElement("Producto").SetText(d.ProductID)

		cant := linea.CreateElement("Cantidad")
		cant.CreateAttr("unidad", d.Unit)
		cant.SetText(d.Quantity.String())

		// digitación original, para que el cajero reconozca lo que tecleó
		if d.EnteredUnit != "" && !d.EnteredQuantity.Equal(d.Quantity) {
			dig := linea.CreateElement("Digitado")
			dig.CreateAttr("unidad", d.EnteredUnit)
			dig.SetText(d.EnteredQuantity.String())
		}

		precio := linea.CreateElement("PrecioUnitario")
		precio.CreateAttr("moneda", string(d.Currency))
		precio.SetText(d.UnitPrice.StringFixed(2))

		total := linea.CreateElement("Total")
		total.CreateAttr("moneda", string(d.Currency))
		total.CreateAttr("impreso", money.Format(d.LineTotal, string(d.Currency)))
		total.SetText(d.LineTotal.StringFixed(2))
	}

	totales := ticket.CreateElement("Totales")
	totales.CreateAttr("moneda", string(sale.DisplayCurrency))
	totales.CreateAttr("tasaCambio", sale.ExchangeRate.String())

	addMonto := func(tag string, v decimal.Decimal) *etree.Element {
		e := totales.CreateElement(tag)
		e.SetText(v.StringFixed(2))
		return e
	}
	addMonto("SubtotalCOP", sale.SubtotalCOP)
	addMonto("SubtotalUSD", sale.SubtotalUSD)
	addMonto("Subtotal", sale.Subtotal)
	if sale.DiscountApplied.IsPositive() {
		desc := addMonto("Descuento", sale.DiscountApplied)
		desc.CreateAttr("tipo", sale.DiscountKind)
		desc.CreateAttr("solicitado", sale.DiscountValue.String())
	}
	iva := addMonto("Impuesto", sale.TaxAmount)
	iva.CreateAttr("tasa", sale.TaxRate.String())
	gran := addMonto("GranTotal", sale.GrandTotal)
	gran.CreateAttr("impreso", money.Format(sale.GrandTotal, string(sale.DisplayCurrency)))

	pago := ticket.CreateElement("Pago")
	pago.SetText(sale.PaymentMethod)

	doc.Indent(2)
	return doc.WriteToBytes()
}
