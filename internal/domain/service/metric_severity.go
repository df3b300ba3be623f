package service

import (
	"github.com/lightdata/push-dispatch/internal/domain/valueobject"
)

// MetricWarnThresholdPercent - утилизация выше или равная порогу считается тревожной
const MetricWarnThresholdPercent = 80.0

// MetricSeverity - результат оценки среза утилизации ресурсов
type MetricSeverity struct {
	OverThresholdCount int                  `json:"over_threshold_count"`
	Level              valueobject.Severity `json:"level"`
}

// MetricAnalyzer оценивает срез CPU/RAM/диска
type MetricAnalyzer struct {
	thresholdPercent float64
}

// NewMetricAnalyzer создает анализатор с порогом по умолчанию
func NewMetricAnalyzer() *MetricAnalyzer {
	return &MetricAnalyzer{thresholdPercent: MetricWarnThresholdPercent}
}

// ComputeMetricsSeverity считает, сколько из известных значений среза
// превышают порог, и выводит уровень тревоги
func (a *MetricAnalyzer) ComputeMetricsSeverity(snapshot valueobject.ResourceSnapshot) MetricSeverity {
	over := 0
	for _, v := range []*float64{snapshot.CPUPercent, snapshot.RAMPercent, snapshot.DiskPercent} {
		if v != nil && *v >= a.thresholdPercent {
			over++
		}
	}

	level := valueobject.SeverityOK
	switch {
	case over >= 3:
		level = valueobject.SeverityCritical
	case over == 2:
		level = valueobject.SeverityHigh
	case over == 1:
		level = valueobject.SeverityAttention
	}

	return MetricSeverity{OverThresholdCount: over, Level: level}
}
