package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/lightdata/push-dispatch/internal/application/dto"
	"github.com/lightdata/push-dispatch/internal/application/port"
	"github.com/lightdata/push-dispatch/internal/domain/service"
	"github.com/lightdata/push-dispatch/internal/presentation"
	"github.com/lightdata/push-dispatch/pkg/logger"
)

// DispatchResult - итог одного диспатча для одного получателя
type DispatchResult struct {
	Skipped  bool
	Hash     string
	ImageURL string
	PushID   string
	Summary  *dto.DispatchSummaryDTO
}

// DispatchSummaryUseCase координирует один диспатч: fetch телеметрии,
// анализ, проверка на изменение, рендер, загрузка, push, запись хэша.
// Проверка на изменение идет до рендера: на "ничего не поменялось"
// дорогая работа не выполняется.
type DispatchSummaryUseCase struct {
	stats      port.StatsAPI
	monitoring port.MonitoringAPI
	resources  port.ResourceSource
	streaks    *service.StreakAnalyzer
	metrics    *service.MetricAnalyzer
	detector   *service.ChangeDetector
	state      port.StateStore
	renderer   port.SummaryRenderer
	images     port.ImageStore
	push       port.PushSender

	// Опциональные коллабораторы: их отказы логируются, но не валят
	// диспатч - push уже ушел
	notifier port.NotificationService
	events   port.EventPublisher
	history  port.DispatchHistory

	logger *logger.Logger
}

// DispatchSummaryDeps - обязательные и опциональные зависимости use case
type DispatchSummaryDeps struct {
	Stats      port.StatsAPI
	Monitoring port.MonitoringAPI
	Resources  port.ResourceSource
	State      port.StateStore
	Renderer   port.SummaryRenderer
	Images     port.ImageStore
	Push       port.PushSender
	Notifier   port.NotificationService
	Events     port.EventPublisher
	History    port.DispatchHistory
}

// NewDispatchSummaryUseCase создает новый use case
func NewDispatchSummaryUseCase(deps DispatchSummaryDeps, log *logger.Logger) *DispatchSummaryUseCase {
	return &DispatchSummaryUseCase{
		stats:      deps.Stats,
		monitoring: deps.Monitoring,
		resources:  deps.Resources,
		streaks:    service.NewStreakAnalyzer(),
		metrics:    service.NewMetricAnalyzer(),
		detector:   service.NewChangeDetector(),
		state:      deps.State,
		renderer:   deps.Renderer,
		images:     deps.Images,
		push:       deps.Push,
		notifier:   deps.Notifier,
		events:     deps.Events,
		history:    deps.History,
		logger:     log,
	}
}

// Execute выполняет диспатч для одного получателя за указанную дату
func (uc *DispatchSummaryUseCase) Execute(ctx context.Context, recipient port.Recipient, date string) (DispatchResult, error) {
	masked := dto.MaskToken(recipient.Token)

	// 1. FETCH_TELEMETRY
	counts, err := uc.stats.FetchCounts(ctx, date)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("%w: fetch counts: %v", ErrTelemetryUnavailable, err)
	}

	series, err := uc.monitoring.FetchLatencySeries(ctx, date)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("%w: fetch latency series: %v", ErrTelemetryUnavailable, err)
	}

	snapshot, err := uc.resources.FetchSnapshot(ctx)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("%w: fetch resource snapshot: %v", ErrTelemetryUnavailable, err)
	}

	// 2. ANALYZE
	monitoringSummary := uc.streaks.ComputeConsecutiveFails(series)
	metricSeverity := uc.metrics.ComputeMetricsSeverity(snapshot)

	month := counts.Month
	if month == "" {
		month = presentation.MonthName(counts.Date)
	}

	// 3. CHECK_CHANGE
	payload := service.LogicalPayload{
		Date:         counts.Date,
		Month:        month,
		DailyCount:   counts.DailyCount,
		MonthlyCount: counts.MonthlyCount,
		MaxStreak:    monitoringSummary.MaxStreak,
		Affected:     monitoringSummary.Affected,
		Metrics:      metricSeverity,
	}

	lastHash, hasLast, err := uc.state.GetLastHash(ctx, recipient.Token)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("read change state: %w", err)
	}

	decision, err := uc.detector.Evaluate(lastHash, hasLast, payload)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("evaluate change: %w", err)
	}

	summary := &dto.DispatchSummaryDTO{
		Recipient:    masked,
		Date:         counts.Date,
		Month:        month,
		DailyCount:   counts.DailyCount,
		MonthlyCount: counts.MonthlyCount,
		MaxStreak:    monitoringSummary.MaxStreak,
		Severity:     monitoringSummary.Severity().String(),
		Affected:     monitoringSummary.Affected,
		MetricsLevel: metricSeverity.Level.String(),
		Hash:         decision.Hash,
		SentAt:       time.Now().UTC(),
	}

	if !decision.Send {
		uc.logger.Debug("Dispatch suppressed, nothing changed",
			"recipient", masked,
			"hash", decision.Hash,
		)
		summary.Skipped = true
		return DispatchResult{Skipped: true, Hash: decision.Hash, Summary: summary}, nil
	}

	// 4. RENDER
	png, err := uc.renderer.RenderSummary(ctx, port.RenderInput{
		Date:         counts.Date,
		Month:        month,
		DailyCount:   presentation.FormatCount(counts.DailyCount),
		MonthlyCount: presentation.FormatCount(counts.MonthlyCount),
		Monitoring:   monitoringSummary,
		Metrics:      metricSeverity,
	})
	if err != nil {
		return DispatchResult{}, fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}

	// 5. UPLOAD
	imageName := fmt.Sprintf("resumen_%s", counts.Date)
	imageURL, err := uc.images.Upload(ctx, imageName, png)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("%w: %v", ErrUploadFailure, err)
	}
	if !isWellFormedURL(imageURL) {
		return DispatchResult{}, fmt.Errorf("%w: host returned %q", ErrUploadFailure, imageURL)
	}

	// 6. PUSH: все значения data-канала - строки
	pushID, err := uc.push.Send(ctx, port.PushMessage{
		Token:    recipient.Token,
		Title:    "Resumen Global",
		Body:     fmt.Sprintf("%s: %s paquetes", counts.Date, presentation.FormatCount(counts.DailyCount)),
		ImageURL: imageURL,
		Priority: "HIGH",
		Data: map[string]string{
			"fecha":        counts.Date,
			"mes":          month,
			"cantidad":     strconv.FormatInt(counts.DailyCount, 10),
			"cantidadMes":  strconv.FormatInt(counts.MonthlyCount, 10),
			"maxStreak":    strconv.Itoa(monitoringSummary.MaxStreak),
			"severidad":    monitoringSummary.Severity().String(),
			"metricsLevel": metricSeverity.Level.String(),
			"metricsOver":  strconv.Itoa(metricSeverity.OverThresholdCount),
			"imageUrl":     imageURL,
		},
	})
	if err != nil {
		return DispatchResult{}, fmt.Errorf("%w: %w", ErrPushFailure, err)
	}

	// 7. RECORD_HASH: только после успешного push
	if err := uc.state.SetLastHash(ctx, recipient.Token, decision.Hash); err != nil {
		// Push уже ушел; следующий проход в худшем случае продублирует его
		uc.logger.Error("Failed to record dispatch hash", err, "recipient", masked)
	}

	summary.ImageURL = imageURL
	uc.logger.Info("Dispatch sent",
		"recipient", masked,
		"date", counts.Date,
		"daily_count", counts.DailyCount,
		"max_streak", monitoringSummary.MaxStreak,
		"push_id", pushID,
	)

	uc.fanOut(ctx, summary, counts, monitoringSummary, metricSeverity, recipient, imageURL, decision.Hash)

	return DispatchResult{Hash: decision.Hash, ImageURL: imageURL, PushID: pushID, Summary: summary}, nil
}

// fanOut раздает результат опциональным коллабораторам
func (uc *DispatchSummaryUseCase) fanOut(
	ctx context.Context,
	summary *dto.DispatchSummaryDTO,
	counts port.PackageCounts,
	monitoring service.MonitoringSummary,
	metrics service.MetricSeverity,
	recipient port.Recipient,
	imageURL, hash string,
) {
	if uc.notifier != nil {
		uc.notifier.Broadcast(summary)
	}

	if uc.events != nil {
		if err := uc.events.PublishEvent(ctx, port.SubjectDispatchSent, summary); err != nil {
			uc.logger.Warn("Failed to publish dispatch event", "error", err.Error())
		}
	}

	if uc.history != nil {
		record := port.DispatchRecord{
			RecipientToken: recipient.Token,
			Date:           counts.Date,
			Hash:           hash,
			ImageURL:       imageURL,
			DailyCount:     counts.DailyCount,
			MonthlyCount:   counts.MonthlyCount,
			MaxStreak:      monitoring.MaxStreak,
			MetricsLevel:   metrics.Level.String(),
			SentAt:         time.Now().UTC(),
		}
		if err := uc.history.Append(ctx, record); err != nil {
			uc.logger.Warn("Failed to append dispatch history", "error", err.Error())
		}
	}
}

func isWellFormedURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
