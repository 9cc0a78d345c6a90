package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Printers por moneda: los montos en pesos se muestran con formato es-CO
// (punto de miles, coma decimal) y los de dólares con en-US.
var printers = map[string]*message.Printer{
	"COP": message.NewPrinter(language.MustParse("es-CO")),
	"USD": message.NewPrinter(language.AmericanEnglish),
}

// Format devuelve el monto con separadores del locale de la moneda, dos
// decimales y el código ISO como sufijo. Ej: "4.910,40 COP", "1,250.00 USD".
// Solo para despliegue; las cifras autoritativas viajan como decimal.
func Format(amount decimal.Decimal, currency string) string {
	p, ok := printers[currency]
	if !ok {
		p = printers["COP"]
	}
	f, _ := amount.Round(2).Float64()
	return p.Sprintf("%v %s",
		number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)),
		currency,
	)
}
