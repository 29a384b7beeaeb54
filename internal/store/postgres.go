package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecorder хранит историю расчетов в PostgreSQL
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder подключается по databaseURL и выполняет миграции
func NewPostgresRecorder(ctx context.Context, databaseURL string) (*PostgresRecorder, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &PostgresRecorder{pool: pool}
	if err := r.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	slog.Info("postgres recorder opened", "host", config.ConnConfig.Host, "database", config.ConnConfig.Database)
	return r, nil
}

func (r *PostgresRecorder) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sip_calculations (
			id                 BIGSERIAL PRIMARY KEY,
			user_id            BIGINT,
			session_id         TEXT,
			calculation_type   TEXT NOT NULL,
			monthly_investment DOUBLE PRECISION NOT NULL,
			annual_return_rate DOUBLE PRECISION NOT NULL,
			time_period_years  INTEGER NOT NULL,
			total_invested     DOUBLE PRECISION NOT NULL,
			estimated_returns  DOUBLE PRECISION NOT NULL,
			total_value        DOUBLE PRECISION NOT NULL,
			created_at         TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_calculations_created ON sip_calculations(created_at)`,

		`CREATE TABLE IF NOT EXISTS calculation_history (
			id               BIGSERIAL PRIMARY KEY,
			calculation_id   BIGINT NOT NULL REFERENCES sip_calculations(id) ON DELETE CASCADE,
			yearly_breakdown JSONB NOT NULL,
			inflation_rate   DOUBLE PRECISION,
			tax_rate         DOUBLE PRECISION,
			created_at       TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_calculation ON calculation_history(calculation_id)`,
	}

	for _, s := range stmts {
		if _, err := r.pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *PostgresRecorder) SaveCalculation(ctx context.Context, rec *CalculationRecord) (int64, error) {
	rec.CreatedAt = stamp(rec.CreatedAt)

	err := r.pool.QueryRow(ctx, `INSERT INTO sip_calculations
		(user_id, session_id, calculation_type, monthly_investment, annual_return_rate,
		 time_period_years, total_invested, estimated_returns, total_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		rec.UserID, rec.SessionID, rec.CalculationType, rec.Amount, rec.AnnualReturnRate,
		rec.TimePeriodYears, rec.TotalInvested, rec.EstimatedReturns, rec.TotalValue,
		rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to save calculation: %w", err)
	}
	return rec.ID, nil
}

func (r *PostgresRecorder) SaveHistory(ctx context.Context, h *HistoryRecord) error {
	h.CreatedAt = stamp(h.CreatedAt)

	breakdown, err := json.Marshal(h.YearlyBreakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	err = r.pool.QueryRow(ctx, `INSERT INTO calculation_history
		(calculation_id, yearly_breakdown, inflation_rate, tax_rate, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		h.CalculationID, breakdown, h.InflationRate, h.TaxRate, h.CreatedAt,
	).Scan(&h.ID)
	if err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) FindCalculation(ctx context.Context, id int64) (*CalculationRecord, error) {
	var (
		rec       CalculationRecord
		sessionID *string
	)

	err := r.pool.QueryRow(ctx, `SELECT id, user_id, session_id, calculation_type,
		monthly_investment, annual_return_rate, time_period_years,
		total_invested, estimated_returns, total_value, created_at
		FROM sip_calculations WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.UserID, &sessionID, &rec.CalculationType,
		&rec.Amount, &rec.AnnualReturnRate, &rec.TimePeriodYears,
		&rec.TotalInvested, &rec.EstimatedReturns, &rec.TotalValue, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load calculation: %w", err)
	}

	if sessionID != nil {
		rec.SessionID = *sessionID
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return &rec, nil
}

// FindHistory возвращает записи разбивки для расчета
func (r *PostgresRecorder) FindHistory(ctx context.Context, calculationID int64) ([]HistoryRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, calculation_id, yearly_breakdown,
		inflation_rate, tax_rate, created_at
		FROM calculation_history WHERE calculation_id = $1 ORDER BY id`, calculationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var out []HistoryRecord
	for rows.Next() {
		var (
			h         HistoryRecord
			breakdown []byte
		)
		if err := rows.Scan(&h.ID, &h.CalculationID, &breakdown, &h.InflationRate, &h.TaxRate, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		if err := json.Unmarshal(breakdown, &h.YearlyBreakdown); err != nil {
			return nil, fmt.Errorf("failed to unmarshal breakdown: %w", err)
		}
		h.CreatedAt = h.CreatedAt.UTC()
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *PostgresRecorder) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sip_calculations WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune calculations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRecorder) Close() error {
	r.pool.Close()
	return nil
}
