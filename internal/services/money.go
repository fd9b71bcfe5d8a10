package services

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/JoelBonito/gestion-chs-sub001/i18n"
)

var printers = map[string]*message.Printer{
	i18n.LangPT: message.NewPrinter(language.EuropeanPortuguese),
	i18n.LangFR: message.NewPrinter(language.French),
}

// FormatEUR renders a monetary value with the viewer's locale separators.
// This is the single money formatter; every amount shown to a user goes
// through it.
func FormatEUR(lang string, v float64) string {
	p, ok := printers[lang]
	if !ok {
		p = printers[i18n.LangPT]
	}
	return p.Sprintf("%v €", number.Decimal(v,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}
