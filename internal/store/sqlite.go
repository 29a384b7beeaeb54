package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder хранит историю расчетов в SQLite
type SQLiteRecorder struct {
	db *sql.DB
}

// NewSQLiteRecorder открывает (или создает) базу и выполняет миграции
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Одно соединение: сериализует запись и сохраняет :memory: базу общей
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	slog.Info("sqlite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sip_calculations (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id            INTEGER,
			session_id         TEXT,
			calculation_type   TEXT NOT NULL,
			monthly_investment REAL NOT NULL,
			annual_return_rate REAL NOT NULL,
			time_period_years  INTEGER NOT NULL,
			total_invested     REAL NOT NULL,
			estimated_returns  REAL NOT NULL,
			total_value        REAL NOT NULL,
			created_at         INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_calculations_created ON sip_calculations(created_at)`,

		`CREATE TABLE IF NOT EXISTS calculation_history (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			calculation_id   INTEGER NOT NULL REFERENCES sip_calculations(id) ON DELETE CASCADE,
			yearly_breakdown TEXT NOT NULL,
			inflation_rate   REAL,
			tax_rate         REAL,
			created_at       INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_calculation ON calculation_history(calculation_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) SaveCalculation(ctx context.Context, rec *CalculationRecord) (int64, error) {
	rec.CreatedAt = stamp(rec.CreatedAt)

	var userID sql.NullInt64
	if rec.UserID != nil {
		userID = sql.NullInt64{Int64: *rec.UserID, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `INSERT INTO sip_calculations
		(user_id, session_id, calculation_type, monthly_investment, annual_return_rate,
		 time_period_years, total_invested, estimated_returns, total_value, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		userID, rec.SessionID, rec.CalculationType, rec.Amount, rec.AnnualReturnRate,
		rec.TimePeriodYears, rec.TotalInvested, rec.EstimatedReturns, rec.TotalValue,
		rec.CreatedAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert calculation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	rec.ID = id
	return id, nil
}

func (r *SQLiteRecorder) SaveHistory(ctx context.Context, h *HistoryRecord) error {
	h.CreatedAt = stamp(h.CreatedAt)

	breakdown, err := json.Marshal(h.YearlyBreakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `INSERT INTO calculation_history
		(calculation_id, yearly_breakdown, inflation_rate, tax_rate, created_at)
		VALUES (?,?,?,?,?)`,
		h.CalculationID, string(breakdown), nullFloat(h.InflationRate), nullFloat(h.TaxRate),
		h.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	if h.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) FindCalculation(ctx context.Context, id int64) (*CalculationRecord, error) {
	var (
		rec       CalculationRecord
		userID    sql.NullInt64
		sessionID sql.NullString
		createdAt int64
	)

	err := r.db.QueryRowContext(ctx, `SELECT id, user_id, session_id, calculation_type,
		monthly_investment, annual_return_rate, time_period_years,
		total_invested, estimated_returns, total_value, created_at
		FROM sip_calculations WHERE id = ?`, id,
	).Scan(&rec.ID, &userID, &sessionID, &rec.CalculationType,
		&rec.Amount, &rec.AnnualReturnRate, &rec.TimePeriodYears,
		&rec.TotalInvested, &rec.EstimatedReturns, &rec.TotalValue, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select calculation: %w", err)
	}

	if userID.Valid {
		rec.UserID = &userID.Int64
	}
	rec.SessionID = sessionID.String
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &rec, nil
}

// FindHistory возвращает записи разбивки для расчета
func (r *SQLiteRecorder) FindHistory(ctx context.Context, calculationID int64) ([]HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, calculation_id, yearly_breakdown,
		inflation_rate, tax_rate, created_at
		FROM calculation_history WHERE calculation_id = ? ORDER BY id`, calculationID)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer rows.Close()

	var out []HistoryRecord
	for rows.Next() {
		var (
			h         HistoryRecord
			breakdown string
			inflation sql.NullFloat64
			tax       sql.NullFloat64
			createdAt int64
		)
		if err := rows.Scan(&h.ID, &h.CalculationID, &breakdown, &inflation, &tax, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if err := json.Unmarshal([]byte(breakdown), &h.YearlyBreakdown); err != nil {
			return nil, fmt.Errorf("unmarshal breakdown: %w", err)
		}
		if inflation.Valid {
			h.InflationRate = &inflation.Float64
		}
		if tax.Valid {
			h.TaxRate = &tax.Float64
		}
		h.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin prune: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM calculation_history WHERE calculation_id IN
		(SELECT id FROM sip_calculations WHERE created_at < ?)`, cutoff.Unix()); err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sip_calculations WHERE created_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune calculations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	slog.Info("closing sqlite recorder")
	return r.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
