package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/srivastav-asutosh/SIP-Calculator/internal/calculations"
	"github.com/srivastav-asutosh/SIP-Calculator/internal/formatter"
	"github.com/srivastav-asutosh/SIP-Calculator/internal/metrics"
	"github.com/srivastav-asutosh/SIP-Calculator/internal/store"
	"github.com/srivastav-asutosh/SIP-Calculator/internal/validators"
)

const (
	headerSessionID = "X-Session-ID"
	headerUserID    = "X-User-ID"
)

// sessionInfo идентификаторы сессии и пользователя текущего запроса
type sessionInfo struct {
	ID     string
	UserID *int64
}

// endpointFunc обработчик эндпоинта: возвращает тело успешного ответа или ошибку
type endpointFunc func(ctx context.Context, r *http.Request, sess sessionInfo) (interface{}, error)

type calculateResponse struct {
	Success bool `json:"success"`
	*calculations.CalculationResult
	Formatted     formatter.Formatted     `json:"formatted"`
	Growth        formatter.GrowthMetrics `json:"growth"`
	Adjusted      *formatter.Adjusted     `json:"adjusted,omitempty"`
	CalculationID *int64                  `json:"calculation_id,omitempty"`
}

type breakdownResponse struct {
	Success   bool                                `json:"success"`
	Breakdown []calculations.YearlyBreakdownEntry `json:"breakdown"`
}

type goalResponse struct {
	Success bool `json:"success"`
	*calculations.GoalPlanResult
	FormattedRequiredSIP string `json:"formatted_required_sip"`
}

type comparisonResponse struct {
	Success bool `json:"success"`
	*calculations.ComparisonResult
}

type calculationResponse struct {
	Success     bool                     `json:"success"`
	Calculation *store.CalculationRecord `json:"calculation"`
	History     []store.HistoryRecord    `json:"history"`
}

// handle оборачивает эндпоинт: проверка метода, спан, метрики и
// преобразование ошибок в JSON-ответ
func (s *Server) handle(name, method string, fn endpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			writeError(w, http.StatusMethodNotAllowed, errTypeMethodNotAllowed, "Method not allowed")
			return
		}

		sess := session(w, r)

		ctx, span := s.tracer.Start(r.Context(), name)
		defer span.End()
		span.SetAttributes(attribute.String("session_id", sess.ID))

		body, err := fn(ctx, r, sess)
		if err != nil {
			status, errType, message := classify(err)

			span.SetAttributes(attribute.String("error", errType))
			span.RecordError(err)
			span.SetStatus(codes.Error, errType)
			metrics.Calculations.WithLabelValues(name, "error").Inc()
			metrics.CalculationErrors.WithLabelValues(name, errType).Inc()

			if status >= http.StatusInternalServerError {
				slog.Error("unexpected error", "endpoint", name, "error", err)
			} else {
				slog.Debug("request rejected", "endpoint", name, "error_type", errType, "error", err)
			}
			writeError(w, status, errType, message)
			return
		}

		span.SetAttributes(attribute.Bool("success", true))
		metrics.Calculations.WithLabelValues(name, "success").Inc()
		writeJSON(w, http.StatusOK, body)
	}
}

// calculate обрабатывает POST /api/calculate
func (s *Server) calculate(ctx context.Context, r *http.Request, sess sessionInfo) (interface{}, error) {
	params, err := decodeParams(r)
	if err != nil {
		return nil, err
	}

	// Валидация
	req, err := s.validator.Validate(params, true)
	if err != nil {
		return nil, fmt.Errorf("calculate: %w", err)
	}
	adj, err := s.validator.ValidateAdjustments(params)
	if err != nil {
		return nil, fmt.Errorf("calculate: %w", err)
	}

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("mode", string(req.Mode)),
		attribute.Float64("amount", req.Amount),
		attribute.Float64("expected_return", req.ExpectedReturn),
		attribute.Int("time_period", req.TimePeriod),
	)

	// Расчет
	result, err := s.engine.Calculate(req.Mode, req.Amount, req.ExpectedReturn, req.TimePeriod)
	if err != nil {
		return nil, fmt.Errorf("calculate: %w", err)
	}
	span.SetAttributes(attribute.Float64("total_value", result.TotalValue))

	resp := &calculateResponse{
		Success:           true,
		CalculationResult: result,
		Formatted:         formatter.Display(result, s.cfg.CurrencySymbol),
		Growth:            formatter.Growth(result),
		Adjusted:          formatter.Adjust(result, adj),
	}
	resp.CalculationID = s.persist(ctx, result, adj, sess)
	return resp, nil
}

// breakdown обрабатывает POST /api/breakdown
func (s *Server) breakdown(ctx context.Context, r *http.Request, _ sessionInfo) (interface{}, error) {
	params, err := decodeParams(r)
	if err != nil {
		return nil, err
	}

	req, err := s.validator.ValidateBreakdown(params)
	if err != nil {
		return nil, fmt.Errorf("breakdown: %w", err)
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Float64("monthly_investment", req.Amount),
		attribute.Float64("expected_return", req.ExpectedReturn),
		attribute.Int("time_period", req.TimePeriod),
	)

	entries, err := s.engine.Breakdown(req.Amount, req.ExpectedReturn, req.TimePeriod)
	if err != nil {
		return nil, fmt.Errorf("breakdown: %w", err)
	}
	return &breakdownResponse{Success: true, Breakdown: entries}, nil
}

// goalPlanning обрабатывает POST /api/goal-planning
func (s *Server) goalPlanning(ctx context.Context, r *http.Request, _ sessionInfo) (interface{}, error) {
	params, err := decodeParams(r)
	if err != nil {
		return nil, err
	}

	req, err := s.validator.ValidateGoal(params)
	if err != nil {
		return nil, fmt.Errorf("goal planning: %w", err)
	}

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Float64("target_amount", req.TargetAmount),
		attribute.Float64("expected_return", req.ExpectedReturn),
		attribute.Int("time_period", req.TimePeriod),
	)

	plan, err := s.engine.PlanGoal(req.TargetAmount, req.ExpectedReturn, req.TimePeriod)
	if err != nil {
		return nil, fmt.Errorf("goal planning: %w", err)
	}
	span.SetAttributes(attribute.Float64("required_sip", plan.RequiredSIP))

	return &goalResponse{
		Success:              true,
		GoalPlanResult:       plan,
		FormattedRequiredSIP: formatter.FormatCurrency(plan.RequiredSIP, s.cfg.CurrencySymbol),
	}, nil
}

// comparison обрабатывает POST /api/comparison
func (s *Server) comparison(ctx context.Context, r *http.Request, _ sessionInfo) (interface{}, error) {
	params, err := decodeParams(r)
	if err != nil {
		return nil, err
	}

	req, err := s.validator.ValidateComparison(params)
	if err != nil {
		return nil, fmt.Errorf("comparison: %w", err)
	}

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Float64("amount", req.Amount),
		attribute.Float64("expected_return", req.ExpectedReturn),
		attribute.Int("time_period", req.TimePeriod),
	)

	result, err := s.engine.Compare(req.Amount, req.ExpectedReturn, req.TimePeriod)
	if err != nil {
		return nil, fmt.Errorf("comparison: %w", err)
	}
	span.SetAttributes(
		attribute.Float64("sip_advantage", result.Comparison.SIPAdvantage),
		attribute.String("better_option", result.Comparison.BetterOption),
	)

	return &comparisonResponse{Success: true, ComparisonResult: result}, nil
}

// findCalculation обрабатывает GET /api/calculations/{id}
func (s *Server) findCalculation(ctx context.Context, r *http.Request, _ sessionInfo) (interface{}, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, &validators.ValidationError{Field: "id", Message: "Invalid calculation id"}
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("calculation_id", id))

	rec, err := s.recorder.FindCalculation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find calculation %d: %w", id, err)
	}
	history, err := s.recorder.FindHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find history %d: %w", id, err)
	}
	if history == nil {
		history = []store.HistoryRecord{}
	}
	return &calculationResponse{Success: true, Calculation: rec, History: history}, nil
}

// persist сохраняет расчет и его историю. Ошибки хранилища только логируются
// и учитываются в метриках, на ответ они не влияют.
func (s *Server) persist(ctx context.Context, result *calculations.CalculationResult, adj formatter.Adjustments, sess sessionInfo) *int64 {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	id, err := s.recorder.SaveCalculation(ctx, store.NewCalculationRecord(result, sess.UserID, sess.ID))
	if err != nil {
		metrics.PersistenceFailures.WithLabelValues("save_calculation").Inc()
		slog.Warn("failed to save calculation", "session_id", sess.ID, "error", err)
		return nil
	}
	if id == 0 {
		// Хранилище не настроено
		return nil
	}

	history := &store.HistoryRecord{
		CalculationID: id,
		InflationRate: adj.InflationRate,
		TaxRate:       adj.TaxRate,
	}
	if result.Mode == calculations.ModeSIP {
		if entries, err := s.engine.Breakdown(result.MonthlyInvestment, result.AnnualReturnRate, result.TimePeriodYears); err == nil {
			history.YearlyBreakdown = entries
		}
	}
	if err := s.recorder.SaveHistory(ctx, history); err != nil {
		metrics.PersistenceFailures.WithLabelValues("save_history").Inc()
		slog.Warn("failed to save calculation history", "calculation_id", id, "error", err)
	}
	return &id
}

// decodeParams читает JSON-объект запроса. Числа сохраняются как json.Number.
func decodeParams(r *http.Request) (map[string]interface{}, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var params map[string]interface{}
	if err := dec.Decode(&params); err != nil {
		return nil, decodeError(err)
	}
	if params == nil {
		return nil, errMalformedJSON
	}

	// После объекта допускаются только пробелы
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); err != io.EOF {
		if err != nil {
			return nil, decodeError(err)
		}
		return nil, errMalformedJSON
	}
	return params, nil
}

func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errBodyTooLarge
	}
	return errMalformedJSON
}

// session возвращает идентификатор сессии из заголовка или новый UUID и
// необязательный идентификатор пользователя. Идентификатор сессии
// возвращается клиенту в заголовке ответа.
func session(w http.ResponseWriter, r *http.Request) sessionInfo {
	sessionID := strings.TrimSpace(r.Header.Get(headerSessionID))
	if sessionID == "" || len(sessionID) > 64 {
		sessionID = uuid.NewString()
	}
	w.Header().Set(headerSessionID, sessionID)

	var userID *int64
	if v := r.Header.Get(headerUserID); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			userID = &id
		}
	}
	return sessionInfo{ID: sessionID, UserID: userID}
}
