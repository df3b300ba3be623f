package service

import (
	"sort"

	"github.com/lightdata/push-dispatch/internal/domain/valueobject"
)

// LatencyFailThresholdMS - латентность выше этого порога считается сбоем
const LatencyFailThresholdMS = 2000.0

// FailureStreak - непрерывная серия сбоев одного микросервиса,
// считая от самого свежего сэмпла
type FailureStreak struct {
	Service string `json:"service"`
	Count   int    `json:"count"`
}

// MonitoringSummary - агрегированный результат анализа серии сэмплов
type MonitoringSummary struct {
	MaxStreak int             `json:"max_streak"`
	Affected  []FailureStreak `json:"affected"`
}

// Severity возвращает уровень тревоги по максимальной серии сбоев
func (m MonitoringSummary) Severity() valueobject.Severity {
	switch {
	case m.MaxStreak >= 4:
		return valueobject.SeverityCritical
	case m.MaxStreak == 3:
		return valueobject.SeverityHigh
	case m.MaxStreak == 2:
		return valueobject.SeverityAttention
	case m.MaxStreak == 1:
		return valueobject.SeverityOKAlerts
	default:
		return valueobject.SeverityOK
	}
}

// StreakAnalyzer считает непрерывные серии сбоев по серии мониторинга
type StreakAnalyzer struct {
	thresholdMS float64
}

// NewStreakAnalyzer создает анализатор с порогом по умолчанию
func NewStreakAnalyzer() *StreakAnalyzer {
	return &StreakAnalyzer{thresholdMS: LatencyFailThresholdMS}
}

// ComputeConsecutiveFails считает для каждого микросервиса, сколько самых
// свежих сэмплов подряд являются сбойными. Набор отслеживаемых сервисов
// берется из первого (самого свежего) сэмпла. Счет останавливается на первом
// не-сбойном сэмпле: серия описывает текущий, еще продолжающийся сбой,
// а не общее количество сбоев в окне.
func (a *StreakAnalyzer) ComputeConsecutiveFails(series valueobject.LatencySeries) MonitoringSummary {
	summary := MonitoringSummary{Affected: []FailureStreak{}}
	if len(series) == 0 {
		return summary
	}

	tracked := make([]string, 0, len(series[0].Latencies))
	for name := range series[0].Latencies {
		tracked = append(tracked, name)
	}

	for _, name := range tracked {
		streak := 0
		for _, sample := range series {
			if !a.isFailing(sample, name) {
				break
			}
			streak++
		}
		if streak > 0 {
			summary.Affected = append(summary.Affected, FailureStreak{Service: name, Count: streak})
		}
	}

	// Худшие серии первыми, при равенстве - по имени
	sort.Slice(summary.Affected, func(i, j int) bool {
		if summary.Affected[i].Count != summary.Affected[j].Count {
			return summary.Affected[i].Count > summary.Affected[j].Count
		}
		return summary.Affected[i].Service < summary.Affected[j].Service
	})

	if len(summary.Affected) > 0 {
		summary.MaxStreak = summary.Affected[0].Count
	}

	return summary
}

func (a *StreakAnalyzer) isFailing(sample valueobject.LatencySample, service string) bool {
	v, ok := sample.Latencies[service]
	if !ok || !valueobject.IsFiniteLatency(v) {
		return true
	}
	return *v > a.thresholdMS
}
