package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/lightdata/push-dispatch/internal/domain/valueobject"
)

type monitoringResponse struct {
	OK   bool                         `json:"ok"`
	Rows []map[string]json.RawMessage `json:"rows"`
}

// MonitoringClient - клиент API мониторинга микросервисов
type MonitoringClient struct {
	url    string
	client *http.Client
}

// NewMonitoringClient создает клиент с таймаутом по умолчанию
func NewMonitoringClient(url string) *MonitoringClient {
	return &MonitoringClient{
		url:    url,
		client: &http.Client{Timeout: monitoringTimeout},
	}
}

// FetchLatencySeries возвращает серию сэмплов за день, самый свежий первым.
// Поля id и fecha строки уходят в метаданные сэмпла, остальные поля
// трактуются как латентности микросервисов: null -> nil, не-число -> NaN
// (и то и другое анализатор считает сбоем).
func (c *MonitoringClient) FetchLatencySeries(ctx context.Context, date string) (valueobject.LatencySeries, error) {
	var resp monitoringResponse
	if err := postJSON(ctx, c.client, c.url, map[string]string{"dia": date}, &resp); err != nil {
		return nil, err
	}

	if !resp.OK {
		return nil, fmt.Errorf("monitoring API returned ok=false for %s", date)
	}

	series := make(valueobject.LatencySeries, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		sample := valueobject.LatencySample{Latencies: make(map[string]*float64, len(row))}
		for key, raw := range row {
			switch key {
			case "id":
				sample.ID = decodeString(raw)
			case "fecha":
				sample.Timestamp = decodeString(raw)
			default:
				sample.Latencies[key] = decodeLatency(raw)
			}
		}
		series = append(series, sample)
	}

	return series, nil
}

func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func decodeLatency(raw json.RawMessage) *float64 {
	if string(raw) == "null" {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		// Не-числовое значение считается сбойным сэмплом
		nan := math.NaN()
		return &nan
	}
	return &v
}
