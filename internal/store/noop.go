package store

import (
	"context"
	"time"
)

// NoopRecorder используется, когда база данных не настроена
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) SaveCalculation(_ context.Context, _ *CalculationRecord) (int64, error) {
	return 0, nil
}
func (n *NoopRecorder) SaveHistory(_ context.Context, _ *HistoryRecord) error { return nil }
func (n *NoopRecorder) FindCalculation(_ context.Context, _ int64) (*CalculationRecord, error) {
	return nil, ErrNotFound
}
func (n *NoopRecorder) FindHistory(_ context.Context, _ int64) ([]HistoryRecord, error) {
	return nil, nil
}
func (n *NoopRecorder) PruneBefore(_ context.Context, _ time.Time) (int64, error) { return 0, nil }
func (n *NoopRecorder) Close() error                                              { return nil }
