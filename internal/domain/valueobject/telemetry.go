package valueobject

import "math"

// LatencySample - одна строка мониторинга: латентность каждого микросервиса в ms.
// Значение nil означает, что сервис не ответил (null в исходной строке).
// Поля id и fecha исходной строки сюда не попадают, они исключены из анализа.
type LatencySample struct {
	ID        string
	Timestamp string

	// Latencies: имя микросервиса -> латентность в ms (nil = нет ответа)
	Latencies map[string]*float64
}

// LatencySeries - упорядоченная серия сэмплов, самый свежий первым
type LatencySeries []LatencySample

// ResourceSnapshot - срез утилизации CPU/RAM/диска в процентах.
// nil означает, что источник не вернул значение.
type ResourceSnapshot struct {
	CPUPercent  *float64
	RAMPercent  *float64
	DiskPercent *float64
}

// IsFiniteLatency сообщает, является ли значение валидной латентностью
func IsFiniteLatency(v *float64) bool {
	if v == nil {
		return false
	}
	return !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
