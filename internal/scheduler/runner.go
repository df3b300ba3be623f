// Package scheduler гоняет периодические проходы диспатча по всем
// зарегистрированным получателям.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lightdata/push-dispatch/internal/application/port"
	"github.com/lightdata/push-dispatch/internal/application/usecase"
	"github.com/lightdata/push-dispatch/internal/presentation"
	"github.com/lightdata/push-dispatch/pkg/logger"
)

// Dispatcher - то, что runner вызывает на каждого получателя
type Dispatcher interface {
	Execute(ctx context.Context, recipient port.Recipient, date string) (usecase.DispatchResult, error)
}

// PassSummary - итог одного прохода
type PassSummary struct {
	Recipients int       `json:"recipients"`
	Sent       int       `json:"sent"`
	Suppressed int       `json:"suppressed"`
	Failed     int       `json:"failed"`
	MaxStreak  int       `json:"max_streak"`
	Date       string    `json:"date"`
	StartedAt  time.Time `json:"started_at"`
	Duration   string    `json:"duration"`
}

// Snapshot - состояние runner'а для status-эндпоинта
type Snapshot struct {
	StartedAt   time.Time     `json:"started_at"`
	Interval    time.Duration `json:"interval"`
	LastRunAt   time.Time     `json:"last_run_at,omitempty"`
	LastError   string        `json:"last_error,omitempty"`
	LastSummary *PassSummary  `json:"last_summary,omitempty"`
}

// Runner запускает проход диспатча каждые interval. Проходы сериализованы
// через runMu: пока один не закончился, следующий тик ждет. Инвариант:
// не больше одного диспатча в полете на получателя.
type Runner struct {
	registry   port.DeviceRegistry
	dispatcher Dispatcher
	metrics    port.CycleMetricsPublisher // optional
	log        *logger.Logger
	interval   time.Duration
	now        func() time.Time

	runMu sync.Mutex

	mu          sync.RWMutex
	startedAt   time.Time
	lastRunAt   time.Time
	lastError   string
	lastSummary *PassSummary
}

// NewRunner создает runner; metrics может быть nil
func NewRunner(registry port.DeviceRegistry, dispatcher Dispatcher, metrics port.CycleMetricsPublisher, log *logger.Logger, interval time.Duration) *Runner {
	return &Runner{
		registry:   registry,
		dispatcher: dispatcher,
		metrics:    metrics,
		log:        log,
		interval:   interval,
		now:        time.Now,
		startedAt:  time.Now(),
	}
}

// Start крутит проходы до отмены контекста
func (r *Runner) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				// RunOnce уже залогировал и сохранил ошибку
				continue
			}
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce выполняет один проход: получатели обрабатываются последовательно,
// каждый диспатч полностью завершается до следующего. Отказ одного
// получателя не прерывает проход.
func (r *Runner) RunOnce(ctx context.Context) (*PassSummary, error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	startedAt := r.now()
	date := presentation.LocalDate(startedAt)

	recipients, err := r.registry.ListActive(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("list recipients: %w", err)
		r.updateFailure(startedAt, wrappedErr)
		r.log.Error("Dispatch pass failed", wrappedErr)
		return nil, wrappedErr
	}

	summary := &PassSummary{
		Recipients: len(recipients),
		Date:       date,
		StartedAt:  startedAt,
	}

	if len(recipients) == 0 {
		r.log.Debug("No registered recipients, skipping pass")
	}

	for _, recipient := range recipients {
		result, err := r.dispatcher.Execute(ctx, recipient, date)
		if err != nil {
			summary.Failed++
			r.log.Error("Dispatch failed for recipient", err, "date", date)

			// Провайдер больше не знает токен: держать его в реестре
			// бессмысленно, каждый проход будет падать на нем же
			if errors.Is(err, port.ErrUnregisteredToken) {
				if derr := r.registry.Deactivate(ctx, recipient.Token); derr != nil {
					r.log.Warn("Failed to deactivate stale token", "error", derr.Error())
				} else {
					r.log.Info("Deactivated unregistered token", "date", date)
				}
			}
			continue
		}

		if result.Skipped {
			summary.Suppressed++
		} else {
			summary.Sent++
		}
		if result.Summary != nil && result.Summary.MaxStreak > summary.MaxStreak {
			summary.MaxStreak = result.Summary.MaxStreak
		}
	}

	duration := r.now().Sub(startedAt)
	summary.Duration = duration.String()

	r.updateSuccess(startedAt, summary)

	r.log.Info("Dispatch pass completed",
		"date", date,
		"recipients", summary.Recipients,
		"sent", summary.Sent,
		"suppressed", summary.Suppressed,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)

	if r.metrics != nil {
		stats := port.CycleStats{
			Recipients: summary.Recipients,
			Sent:       summary.Sent,
			Suppressed: summary.Suppressed,
			Failed:     summary.Failed,
			DurationMS: duration.Milliseconds(),
			MaxStreak:  summary.MaxStreak,
		}
		if err := r.metrics.PublishCycle(ctx, stats); err != nil {
			r.log.Warn("Failed to publish cycle metrics", "error", err.Error())
		}
	}

	return summary, nil
}

// Snapshot возвращает копию состояния runner'а
func (r *Runner) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := Snapshot{
		StartedAt: r.startedAt,
		Interval:  r.interval,
		LastRunAt: r.lastRunAt,
		LastError: r.lastError,
	}

	if r.lastSummary != nil {
		copied := *r.lastSummary
		snapshot.LastSummary = &copied
	}

	return snapshot
}

func (r *Runner) updateSuccess(runAt time.Time, summary *PassSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastRunAt = runAt
	r.lastError = ""
	r.lastSummary = summary
}

func (r *Runner) updateFailure(runAt time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastRunAt = runAt
	r.lastError = err.Error()
}
