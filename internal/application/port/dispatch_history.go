package port

import (
	"context"
	"time"
)

// DispatchRecord - одна успешная отправка, как она попадает в историю
type DispatchRecord struct {
	RecipientToken string
	Date           string
	Hash           string
	ImageURL       string
	DailyCount     int64
	MonthlyCount   int64
	MaxStreak      int
	MetricsLevel   string
	SentAt         time.Time
}

// DispatchHistory defines the interface for the dispatch audit trail (Port)
type DispatchHistory interface {
	// Append stores one dispatch record
	Append(ctx context.Context, record DispatchRecord) error
}
