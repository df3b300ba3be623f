package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// LogicalPayload - минимальный набор фактов, по которому решается,
// изменилось ли что-то с прошлой отправки. Хэшируется в каноничном виде,
// поэтому порядок ключей не влияет на результат.
type LogicalPayload struct {
	Date         string          `json:"date"`
	Month        string          `json:"month"`
	DailyCount   int64           `json:"daily_count"`
	MonthlyCount int64           `json:"monthly_count"`
	MaxStreak    int             `json:"max_streak"`
	Affected     []FailureStreak `json:"affected"`
	Metrics      MetricSeverity  `json:"metrics"`
}

// Decision - результат проверки на изменение
type Decision struct {
	Send bool
	Hash string
}

// ChangeDetector сравнивает каноничный хэш payload'а с последним отправленным
type ChangeDetector struct{}

// NewChangeDetector создает детектор изменений
func NewChangeDetector() *ChangeDetector {
	return &ChangeDetector{}
}

// HashPayload сериализует payload канонично (ключи объектов рекурсивно
// отсортированы, порядок массивов сохранен) и возвращает hex SHA-256.
// Два логически равных payload'а дают один хэш независимо от порядка ключей.
func (d *ChangeDetector) HashPayload(payload interface{}) (string, error) {
	canonical, err := canonicalJSON(payload)
	if err != nil {
		return "", fmt.Errorf("canonicalize payload: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Evaluate решает, надо ли отправлять: отправка нужна, если для получателя
// еще нет сохраненного хэша или он отличается от вычисленного
func (d *ChangeDetector) Evaluate(lastHash string, hasLast bool, payload interface{}) (Decision, error) {
	hash, err := d.HashPayload(payload)
	if err != nil {
		return Decision{}, err
	}

	return Decision{
		Send: !hasLast || lastHash != hash,
		Hash: hash,
	}, nil
}

// canonicalJSON прогоняет значение через map-представление: encoding/json
// сериализует ключи map в отсортированном порядке, что и дает каноничную форму
func canonicalJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}

	return json.Marshal(generic)
}
