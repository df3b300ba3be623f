package valueobject

// Severity классифицирует состояние системы для отображения и алертов
type Severity string

const (
	SeverityOK Severity = "OK"
	// SeverityOKAlerts - общий статус зеленый, но уже есть один сбойный цикл
	SeverityOKAlerts  Severity = "OK_ALERTS"
	SeverityAttention Severity = "ATTENTION"
	SeverityHigh      Severity = "HIGH"
	SeverityCritical  Severity = "CRITICAL"
)

// StatusColor держит пару цветов фон/текст для цветной полосы на картинке
type StatusColor struct {
	Background string
	Foreground string
}

// Colors возвращает цвета статусной полосы для уровня
func (s Severity) Colors() StatusColor {
	switch s {
	case SeverityAttention:
		return StatusColor{Background: "#facc15", Foreground: "#ffffff"}
	case SeverityHigh:
		return StatusColor{Background: "#f97316", Foreground: "#ffffff"}
	case SeverityCritical:
		return StatusColor{Background: "#dc2626", Foreground: "#ffffff"}
	default:
		// OK и OK_ALERTS рисуются одинаково
		return StatusColor{Background: "#22c55e", Foreground: "#ffffff"}
	}
}

// String реализует fmt.Stringer
func (s Severity) String() string {
	return string(s)
}
