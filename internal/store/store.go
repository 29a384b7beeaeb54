package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/srivastav-asutosh/SIP-Calculator/internal/calculations"
)

// ErrNotFound запись не найдена
var ErrNotFound = errors.New("record not found")

// CalculationRecord сохраненный расчет
type CalculationRecord struct {
	ID               int64     `json:"id"`
	UserID           *int64    `json:"user_id,omitempty"`
	SessionID        string    `json:"session_id,omitempty"`
	CalculationType  string    `json:"calculation_type"`
	Amount           float64   `json:"monthly_investment"`
	AnnualReturnRate float64   `json:"annual_return_rate"`
	TimePeriodYears  int       `json:"time_period_years"`
	TotalInvested    float64   `json:"total_invested"`
	EstimatedReturns float64   `json:"estimated_returns"`
	TotalValue       float64   `json:"total_value"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewCalculationRecord строит запись по результату расчета
func NewCalculationRecord(result *calculations.CalculationResult, userID *int64, sessionID string) *CalculationRecord {
	return &CalculationRecord{
		UserID:           userID,
		SessionID:        sessionID,
		CalculationType:  string(result.Mode),
		Amount:           result.Amount(),
		AnnualReturnRate: result.AnnualReturnRate,
		TimePeriodYears:  result.TimePeriodYears,
		TotalInvested:    result.TotalInvested,
		EstimatedReturns: result.EstimatedReturns,
		TotalValue:       result.TotalValue,
	}
}

// HistoryRecord годовая разбивка и поправки, привязанные к расчету
type HistoryRecord struct {
	ID              int64                               `json:"id"`
	CalculationID   int64                               `json:"calculation_id"`
	YearlyBreakdown []calculations.YearlyBreakdownEntry `json:"yearly_breakdown"`
	InflationRate   *float64                            `json:"inflation_rate,omitempty"`
	TaxRate         *float64                            `json:"tax_rate,omitempty"`
	CreatedAt       time.Time                           `json:"created_at"`
}

// Recorder сохраняет историю расчетов
type Recorder interface {
	SaveCalculation(ctx context.Context, rec *CalculationRecord) (int64, error)
	SaveHistory(ctx context.Context, h *HistoryRecord) error
	FindCalculation(ctx context.Context, id int64) (*CalculationRecord, error)
	FindHistory(ctx context.Context, calculationID int64) ([]HistoryRecord, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}

// Open выбирает хранилище по схеме databaseURL:
// "" -> noop, sqlite://path -> SQLite, postgres:// или postgresql:// -> Postgres
func Open(ctx context.Context, databaseURL string) (Recorder, error) {
	switch {
	case databaseURL == "" || databaseURL == "none":
		return NewNoopRecorder(), nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return NewSQLiteRecorder(sqlitePath(databaseURL))
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return NewPostgresRecorder(ctx, databaseURL)
	default:
		return nil, fmt.Errorf("unsupported database url scheme: %q", databaseURL)
	}
}

// sqlitePath следует соглашению SQLAlchemy: sqlite:///rel.db - относительный путь,
// sqlite:////abs/path.db - абсолютный
func sqlitePath(databaseURL string) string {
	path := strings.TrimPrefix(databaseURL, "sqlite://")
	if strings.HasPrefix(path, "/") {
		path = path[1:]
	}
	return path
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
