package port

import "context"

// CycleStats - счетчики одного прохода планировщика
type CycleStats struct {
	Recipients int
	Sent       int
	Suppressed int
	Failed     int
	DurationMS int64
	MaxStreak  int
}

// CycleMetricsPublisher defines the interface for shipping per-cycle
// counters to an external metrics backend (Port)
type CycleMetricsPublisher interface {
	// PublishCycle buffers the stats of one completed pass
	PublishCycle(ctx context.Context, stats CycleStats) error

	// Close flushes buffered data and releases resources
	Close() error
}
