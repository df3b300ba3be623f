package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lightdata/push-dispatch/internal/application/port"
)

// statsResponse покрывает обе формы ответа /cantidad: новую
// (cantidadDia + cantidadMes) и старую (один счетчик cantidad).
// Форма разрешается здесь один раз, дальше по коду живет port.PackageCounts.
type statsResponse struct {
	OK          bool    `json:"ok"`
	Fecha       string  `json:"fecha"`
	Mes         string  `json:"mes"`
	CantidadDia *int64  `json:"cantidadDia"`
	CantidadMes *int64  `json:"cantidadMes"`
	Cantidad    *int64  `json:"cantidad"`
	Msg         *string `json:"msg"`
}

// StatsClient - клиент API счетчиков пакетов
type StatsClient struct {
	url    string
	client *http.Client
}

// NewStatsClient создает клиент с таймаутом по умолчанию
func NewStatsClient(url string) *StatsClient {
	return &StatsClient{
		url:    url,
		client: &http.Client{Timeout: statsTimeout},
	}
}

// FetchCounts запрашивает счетчики за день и нормализует форму ответа
func (c *StatsClient) FetchCounts(ctx context.Context, date string) (port.PackageCounts, error) {
	var resp statsResponse
	if err := postJSON(ctx, c.client, c.url, map[string]string{"dia": date}, &resp); err != nil {
		return port.PackageCounts{}, err
	}

	if !resp.OK {
		return port.PackageCounts{}, fmt.Errorf("stats API returned ok=false for %s", date)
	}

	counts := port.PackageCounts{Date: resp.Fecha, Month: resp.Mes}
	if counts.Date == "" {
		counts.Date = date
	}

	switch {
	case resp.CantidadDia != nil:
		counts.DailyCount = *resp.CantidadDia
		if resp.CantidadMes != nil {
			counts.MonthlyCount = *resp.CantidadMes
			counts.HasMonthly = true
		}
	case resp.Cantidad != nil:
		// Старая форма: только дневной счетчик
		counts.DailyCount = *resp.Cantidad
	default:
		return port.PackageCounts{}, fmt.Errorf("stats API response has no count field for %s", date)
	}

	return counts, nil
}
