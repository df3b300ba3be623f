package cloudwatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/lightdata/push-dispatch/internal/application/port"
)

const (
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
)

// CycleMetricsPublisherConfig holds configuration for CloudWatch publishing.
type CycleMetricsPublisherConfig struct {
	Namespace       string // CloudWatch namespace (e.g., "PushDispatch/Cycles")
	Region          string
	Endpoint        string // Optional endpoint override (for LocalStack)
	AccessKeyID     string
	SecretAccessKey string
	FlushInterval   time.Duration
}

// CycleMetricsPublisher ships per-cycle dispatch counters to CloudWatch.
// Stats are buffered and flushed in the background so a slow CloudWatch
// call never delays the next scheduler pass.
type CycleMetricsPublisher struct {
	client    *cloudwatch.Client
	namespace string

	buffer []types.MetricDatum
	mu     sync.Mutex

	flushTicker *time.Ticker
	stopCh      chan struct{}
	wg          sync.WaitGroup
}

// NewCycleMetricsPublisher creates a new publisher and starts its flush loop.
func NewCycleMetricsPublisher(ctx context.Context, cfg CycleMetricsPublisherConfig) (*CycleMetricsPublisher, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("region is required")
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 60 * time.Second
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	client := cloudwatch.NewFromConfig(awsCfg, func(options *cloudwatch.Options) {
		if cfg.Endpoint != "" {
			options.BaseEndpoint = &cfg.Endpoint
		}
	})

	p := &CycleMetricsPublisher{
		client:      client,
		namespace:   cfg.Namespace,
		buffer:      make([]types.MetricDatum, 0, 32),
		flushTicker: time.NewTicker(cfg.FlushInterval),
		stopCh:      make(chan struct{}),
	}

	p.wg.Add(1)
	go p.flushLoop()

	return p, nil
}

// PublishCycle buffers the counters of one completed scheduler pass.
func (p *CycleMetricsPublisher) PublishCycle(_ context.Context, stats port.CycleStats) error {
	now := time.Now()

	data := []types.MetricDatum{
		p.datum("Recipients", float64(stats.Recipients), types.StandardUnitCount, now),
		p.datum("DispatchesSent", float64(stats.Sent), types.StandardUnitCount, now),
		p.datum("DispatchesSuppressed", float64(stats.Suppressed), types.StandardUnitCount, now),
		p.datum("DispatchesFailed", float64(stats.Failed), types.StandardUnitCount, now),
		p.datum("CycleDuration", float64(stats.DurationMS), types.StandardUnitMilliseconds, now),
		p.datum("MaxStreak", float64(stats.MaxStreak), types.StandardUnitCount, now),
	}

	p.mu.Lock()
	p.buffer = append(p.buffer, data...)
	p.mu.Unlock()

	return nil
}

// Flush forces immediate publication of all buffered data.
func (p *CycleMetricsPublisher) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.flushBufferUnsafe(ctx)
}

// Close stops the background flush goroutine and flushes remaining data.
func (p *CycleMetricsPublisher) Close() error {
	close(p.stopCh)
	p.flushTicker.Stop()
	p.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return p.Flush(ctx)
}

func (p *CycleMetricsPublisher) datum(name string, value float64, unit types.StandardUnit, at time.Time) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(at),
	}
}

// flushLoop runs in a background goroutine and flushes the buffer periodically.
func (p *CycleMetricsPublisher) flushLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.flushTicker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			// A failed flush keeps the buffer; the next tick retries.
			_ = p.Flush(ctx)
			cancel()
		case <-p.stopCh:
			return
		}
	}
}

// flushBufferUnsafe flushes the buffer without locking (caller must hold lock).
func (p *CycleMetricsPublisher) flushBufferUnsafe(ctx context.Context) error {
	if len(p.buffer) == 0 {
		return nil
	}

	if err := p.publishWithRetry(ctx, p.buffer); err != nil {
		return fmt.Errorf("failed to publish cycle metrics: %w", err)
	}

	p.buffer = p.buffer[:0]
	return nil
}

// publishWithRetry publishes a batch with exponential backoff retry.
func (p *CycleMetricsPublisher) publishWithRetry(ctx context.Context, data []types.MetricDatum) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		input := &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(p.namespace),
			MetricData: data,
		}

		_, err := p.client.PutMetricData(ctx, input)
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt < maxRetries-1 {
			select {
			case <-time.After(backoff):
				backoff *= 2
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
