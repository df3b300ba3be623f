package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lightdata/push-dispatch/internal/application/port"
)

// PostgresDeviceRegistry реализует port.DeviceRegistry поверх PostgreSQL.
// Таблица devices: токен уникален, повторная регистрация обновляет
// платформу и владельца.
type PostgresDeviceRegistry struct {
	db *sql.DB
}

// NewPostgresDeviceRegistry создает новый registry
func NewPostgresDeviceRegistry(db *sql.DB) *PostgresDeviceRegistry {
	return &PostgresDeviceRegistry{
		db: db,
	}
}

// Register делает upsert устройства по токену
func (r *PostgresDeviceRegistry) Register(ctx context.Context, device port.Device) error {
	query := `
		INSERT INTO devices (user_id, token, platform, active, updated_at)
		VALUES ($1, $2, $3, TRUE, NOW())
		ON CONFLICT (token) DO UPDATE
		SET user_id = EXCLUDED.user_id,
		    platform = EXCLUDED.platform,
		    active = TRUE,
		    updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, device.UserID, device.Token, device.Platform); err != nil {
		return fmt.Errorf("failed to upsert device: %w", err)
	}

	return nil
}

// ListActive возвращает токены всех активных устройств
func (r *PostgresDeviceRegistry) ListActive(ctx context.Context) ([]port.Recipient, error) {
	query := `
		SELECT token
		FROM devices
		WHERE active = TRUE
		ORDER BY updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active devices: %w", err)
	}
	defer rows.Close()

	recipients := make([]port.Recipient, 0)
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("failed to scan device row: %w", err)
		}
		recipients = append(recipients, port.Recipient{Token: token})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate device rows: %w", err)
	}

	return recipients, nil
}

// Deactivate снимает устройство с рассылки (например, после unregistered
// ответа push-провайдера)
func (r *PostgresDeviceRegistry) Deactivate(ctx context.Context, token string) error {
	query := `UPDATE devices SET active = FALSE, updated_at = NOW() WHERE token = $1`

	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("failed to deactivate device: %w", err)
	}

	return nil
}
