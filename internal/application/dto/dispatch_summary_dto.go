package dto

import (
	"time"

	"github.com/lightdata/push-dispatch/internal/domain/service"
)

// DispatchSummaryDTO - резюме одного диспатча для WebSocket-клиентов и
// событий NATS. Токен получателя отдается в маскированном виде.
type DispatchSummaryDTO struct {
	Recipient    string                  `json:"recipient"`
	Date         string                  `json:"date"`
	Month        string                  `json:"month"`
	DailyCount   int64                   `json:"daily_count"`
	MonthlyCount int64                   `json:"monthly_count"`
	MaxStreak    int                     `json:"max_streak"`
	Severity     string                  `json:"severity"`
	Affected     []service.FailureStreak `json:"affected"`
	MetricsLevel string                  `json:"metrics_level"`
	ImageURL     string                  `json:"image_url,omitempty"`
	Hash         string                  `json:"hash"`
	Skipped      bool                    `json:"skipped"`
	SentAt       time.Time               `json:"sent_at"`
}

// MaskToken обрезает токен до безопасного для логов и рассылки вида
func MaskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
