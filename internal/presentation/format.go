// Package presentation держит правила отображения: испанские названия
// месяцев и разделители тысяч в аргентинской локали.
package presentation

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var spanishMonths = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

var esAR = message.NewPrinter(language.MustParse("es-AR"))

// MonthName возвращает испанское название месяца для даты 2006-01-02.
// Для неразборчивой даты возвращает пустую строку.
func MonthName(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return spanishMonths[t.Month()-1]
}

// FormatCount форматирует счетчик с разделителями тысяч es-AR
func FormatCount(n int64) string {
	return esAR.Sprintf("%d", n)
}
