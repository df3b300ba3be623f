package presentation

import "time"

// localOffset - смещение "местного" дня относительно UTC.
// Это сознательное упрощение: вычитание трех часов, а не настоящая
// tz-конверсия (DST и политические изменения игнорируются). Потребители
// зависят от именно такой границы суток, не "чинить".
const localOffset = -3 * time.Hour

// LocalDate возвращает текущую местную дату в формате 2006-01-02
func LocalDate(now time.Time) string {
	return now.UTC().Add(localOffset).Format("2006-01-02")
}
