package port

import (
	"context"

	"github.com/lightdata/push-dispatch/internal/domain/service"
)

// RenderInput - все, что нужно рендереру для картинки-резюме.
// Счетчики передаются уже отформатированными строками (es-AR).
type RenderInput struct {
	Date         string
	Month        string
	DailyCount   string
	MonthlyCount string
	Monitoring   service.MonitoringSummary
	Metrics      service.MetricSeverity
}

// SummaryRenderer определяет интерфейс рендерера картинки-резюме (Port)
type SummaryRenderer interface {
	// RenderSummary возвращает PNG-байты картинки
	RenderSummary(ctx context.Context, input RenderInput) ([]byte, error)
}
