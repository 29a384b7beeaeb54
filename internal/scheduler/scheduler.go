package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/srivastav-asutosh/SIP-Calculator/internal/metrics"
)

// Pruner удаляет записи истории старше cutoff
type Pruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Retention периодически удаляет устаревшую историю расчетов
type Retention struct {
	cron      *cron.Cron
	pruner    Pruner
	retention time.Duration
	ctx       context.Context
	now       func() time.Time
}

// NewRetention создает планировщик очистки; retentionDays должно быть > 0
func NewRetention(ctx context.Context, pruner Pruner, retentionDays int) *Retention {
	return &Retention{
		cron:      cron.New(cron.WithSeconds()),
		pruner:    pruner,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		ctx:       ctx,
		now:       time.Now,
	}
}

// Register регистрирует задачу очистки по cron-выражению (с секундами)
func (r *Retention) Register(expr string) error {
	if _, err := r.cron.AddFunc(expr, func() { r.RunOnce() }); err != nil {
		return fmt.Errorf("register retention cron %q: %w", expr, err)
	}
	slog.Info("retention task registered", "cron", expr, "retention", r.retention)
	return nil
}

// RunOnce удаляет записи старше срока хранения
func (r *Retention) RunOnce() int64 {
	cutoff := r.now().Add(-r.retention)

	ctx, cancel := context.WithTimeout(r.ctx, 30*time.Second)
	defer cancel()

	n, err := r.pruner.PruneBefore(ctx, cutoff)
	if err != nil {
		metrics.PersistenceFailures.WithLabelValues("prune").Inc()
		slog.Warn("history retention failed", "error", err)
		return 0
	}

	metrics.RetentionPruned.Add(float64(n))
	slog.Info("history retention done", "pruned", n, "cutoff", cutoff.Format(time.RFC3339))
	return n
}

// Start запускает планировщик
func (r *Retention) Start() {
	r.cron.Start()
}

// Stop останавливает планировщик и ждет завершения текущей задачи
func (r *Retention) Stop() {
	<-r.cron.Stop().Done()
}
