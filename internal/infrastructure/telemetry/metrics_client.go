package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lightdata/push-dispatch/internal/domain/valueobject"
)

type metricsResponse struct {
	OK   bool `json:"ok"`
	Rows []struct {
		CPU   *float64 `json:"cpu"`
		RAM   *float64 `json:"ram"`
		Disco *float64 `json:"disco"`
	} `json:"rows"`
}

// MetricsClient - клиент API утилизации ресурсов
type MetricsClient struct {
	url    string
	client *http.Client
}

// NewMetricsClient создает клиент с таймаутом по умолчанию
func NewMetricsClient(url string) *MetricsClient {
	return &MetricsClient{
		url:    url,
		client: &http.Client{Timeout: metricsTimeout},
	}
}

// FetchSnapshot возвращает первый ряд ответа как срез утилизации
func (c *MetricsClient) FetchSnapshot(ctx context.Context) (valueobject.ResourceSnapshot, error) {
	var resp metricsResponse
	if err := getJSON(ctx, c.client, c.url, &resp); err != nil {
		return valueobject.ResourceSnapshot{}, err
	}

	if !resp.OK {
		return valueobject.ResourceSnapshot{}, fmt.Errorf("metrics API returned ok=false")
	}
	if len(resp.Rows) == 0 {
		return valueobject.ResourceSnapshot{}, fmt.Errorf("metrics API returned no rows")
	}

	first := resp.Rows[0]
	return valueobject.ResourceSnapshot{
		CPUPercent:  first.CPU,
		RAMPercent:  first.RAM,
		DiskPercent: first.Disco,
	}, nil
}
