package port

import (
	"context"

	"github.com/lightdata/push-dispatch/internal/domain/valueobject"
)

// PackageCounts - счетчики пакетов за день и месяц, уже приведенные к одной
// форме. Старая форма stats API отдает только дневной счетчик: в этом случае
// HasMonthly=false и MonthlyCount=0. Разбор формы происходит один раз на
// границе fetch, дальше по коду форма не перепроверяется.
type PackageCounts struct {
	Date         string
	Month        string
	DailyCount   int64
	MonthlyCount int64
	HasMonthly   bool
}

// StatsAPI определяет интерфейс к внешнему API счетчиков пакетов (Port)
type StatsAPI interface {
	// FetchCounts возвращает счетчики за указанный день (формат 2006-01-02)
	FetchCounts(ctx context.Context, date string) (PackageCounts, error)
}

// MonitoringAPI определяет интерфейс к API мониторинга микросервисов (Port)
type MonitoringAPI interface {
	// FetchLatencySeries возвращает серию сэмплов латентности, самый свежий первым
	FetchLatencySeries(ctx context.Context, date string) (valueobject.LatencySeries, error)
}

// ResourceSource определяет интерфейс к источнику утилизации ресурсов (Port).
// Реализации: HTTP metrics API и локальный gopsutil-коллектор.
type ResourceSource interface {
	// FetchSnapshot возвращает текущий срез CPU/RAM/диска
	FetchSnapshot(ctx context.Context) (valueobject.ResourceSnapshot, error)
}
