package dynamodb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/lightdata/push-dispatch/internal/application/dto"
	"github.com/lightdata/push-dispatch/internal/application/port"
)

const (
	attrPK           = "PK"
	attrSK           = "SK"
	attrRecipient    = "recipient"
	attrDate         = "date"
	attrHash         = "hash"
	attrImageURL     = "image_url"
	attrDailyCount   = "daily_count"
	attrMonthlyCount = "monthly_count"
	attrMaxStreak    = "max_streak"
	attrMetricsLevel = "metrics_level"
	attrSentAt       = "sent_at"
	attrExpiresAt    = "expires_at"
)

type Config struct {
	TableName       string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	RetentionDays   int
}

// DispatchHistory implements the dispatch audit trail on DynamoDB.
// Partition key is the masked recipient, sort key the send timestamp;
// items carry a TTL so the table stays bounded.
type DispatchHistory struct {
	client        *dynamodb.Client
	tableName     string
	retentionDays int
}

// NewDispatchHistory creates the repository and validates its config.
func NewDispatchHistory(ctx context.Context, cfg Config) (*DispatchHistory, error) {
	if strings.TrimSpace(cfg.TableName) == "" {
		return nil, fmt.Errorf("dynamodb table name is required")
	}
	if strings.TrimSpace(cfg.Region) == "" {
		return nil, fmt.Errorf("dynamodb region is required")
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 30
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
		return nil, fmt.Errorf("failed to create aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(options *dynamodb.Options) {
		if strings.TrimSpace(cfg.Endpoint) != "" {
			options.BaseEndpoint = &cfg.Endpoint
		}
	})

	return &DispatchHistory{
		client:        client,
		tableName:     cfg.TableName,
		retentionDays: cfg.RetentionDays,
	}, nil
}

// Append stores one dispatch record.
func (h *DispatchHistory) Append(ctx context.Context, record port.DispatchRecord) error {
	if strings.TrimSpace(record.RecipientToken) == "" {
		return fmt.Errorf("recipient token is required")
	}
	if record.SentAt.IsZero() {
		record.SentAt = time.Now().UTC()
	}

	masked := dto.MaskToken(record.RecipientToken)
	expiresAt := record.SentAt.Add(time.Duration(h.retentionDays) * 24 * time.Hour)

	item := map[string]types.AttributeValue{
		attrPK:           &types.AttributeValueMemberS{Value: "RECIPIENT#" + masked},
		attrSK:           &types.AttributeValueMemberS{Value: "SENT#" + record.SentAt.Format(time.RFC3339Nano)},
		attrRecipient:    &types.AttributeValueMemberS{Value: masked},
		attrDate:         &types.AttributeValueMemberS{Value: record.Date},
		attrHash:         &types.AttributeValueMemberS{Value: record.Hash},
		attrImageURL:     &types.AttributeValueMemberS{Value: record.ImageURL},
		attrDailyCount:   &types.AttributeValueMemberN{Value: strconv.FormatInt(record.DailyCount, 10)},
		attrMonthlyCount: &types.AttributeValueMemberN{Value: strconv.FormatInt(record.MonthlyCount, 10)},
		attrMaxStreak:    &types.AttributeValueMemberN{Value: strconv.Itoa(record.MaxStreak)},
		attrMetricsLevel: &types.AttributeValueMemberS{Value: record.MetricsLevel},
		attrSentAt:       &types.AttributeValueMemberS{Value: record.SentAt.Format(time.RFC3339Nano)},
		attrExpiresAt:    &types.AttributeValueMemberN{Value: strconv.FormatInt(expiresAt.Unix(), 10)},
	}

	_, err := h.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &h.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put dispatch record failed: %w", err)
	}

	return nil
}
