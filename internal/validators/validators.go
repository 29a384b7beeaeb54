package validators

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/srivastav-asutosh/SIP-Calculator/internal/calculations"
	"github.com/srivastav-asutosh/SIP-Calculator/internal/config"
	"github.com/srivastav-asutosh/SIP-Calculator/internal/formatter"
	"github.com/srivastav-asutosh/SIP-Calculator/pkg/utils"
)

// Имена полей запроса
const (
	FieldMonthlyInvestment = "monthlyInvestment"
	FieldExpectedReturn    = "expectedReturn"
	FieldTimePeriod        = "timePeriod"
	FieldMode              = "mode"
	FieldTargetAmount      = "targetAmount"
	FieldAmount            = "amount"
	FieldInflationRate     = "inflationRate"
	FieldTaxRate           = "taxRate"
)

// ValidationError ошибка валидации с именем поля
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// CalculationRequest нормализованный запрос на расчет
type CalculationRequest struct {
	Amount         float64
	ExpectedReturn float64
	TimePeriod     int
	Mode           calculations.Mode
}

// GoalRequest нормализованный запрос на обратный расчет
type GoalRequest struct {
	TargetAmount   float64
	ExpectedReturn float64
	TimePeriod     int
}

// ComparisonRequest нормализованный запрос на сравнение
type ComparisonRequest struct {
	Amount         float64
	ExpectedReturn float64
	TimePeriod     int
}

// Validator проверяет сырые параметры по границам из конфигурации
type Validator struct {
	cfg *config.Config
}

// New создает валидатор
func New(cfg *config.Config) *Validator {
	return &Validator{cfg: cfg}
}

// Validate проверяет параметры расчета. Порядок проверок: наличие полей,
// разбор чисел, диапазоны (сумма, ставка, срок), режим. Если requireMode
// выключен, отсутствующий режим считается "sip".
func (v *Validator) Validate(raw map[string]interface{}, requireMode bool) (*CalculationRequest, error) {
	required := []string{FieldMonthlyInvestment, FieldExpectedReturn, FieldTimePeriod}
	if requireMode {
		required = append(required, FieldMode)
	}

	amount, rate, period, err := parseCore(raw, FieldMonthlyInvestment, required)
	if err != nil {
		return nil, err
	}
	if err := v.checkRanges(amount, rate, period); err != nil {
		return nil, err
	}

	mode := calculations.ModeSIP
	if value, ok := raw[FieldMode]; ok {
		s, isString := value.(string)
		parsed, valid := calculations.ParseMode(s)
		if !isString || !valid {
			return nil, invalid(FieldMode, `Mode must be either "sip" or "lumpsum"`)
		}
		mode = parsed
	}

	return &CalculationRequest{
		Amount:         amount,
		ExpectedReturn: rate,
		TimePeriod:     period,
		Mode:           mode,
	}, nil
}

// ValidateBreakdown проверяет параметры годовой разбивки (режим не используется)
func (v *Validator) ValidateBreakdown(raw map[string]interface{}) (*CalculationRequest, error) {
	required := []string{FieldMonthlyInvestment, FieldExpectedReturn, FieldTimePeriod}

	amount, rate, period, err := parseCore(raw, FieldMonthlyInvestment, required)
	if err != nil {
		return nil, err
	}
	if err := v.checkRanges(amount, rate, period); err != nil {
		return nil, err
	}

	return &CalculationRequest{
		Amount:         amount,
		ExpectedReturn: rate,
		TimePeriod:     period,
		Mode:           calculations.ModeSIP,
	}, nil
}

// ValidateGoal проверяет параметры обратного расчета. Целевая сумма не
// ограничивается границами взноса, только должна быть положительной.
func (v *Validator) ValidateGoal(raw map[string]interface{}) (*GoalRequest, error) {
	required := []string{FieldTargetAmount, FieldExpectedReturn, FieldTimePeriod}

	target, rate, period, err := parseCore(raw, FieldTargetAmount, required)
	if err != nil {
		return nil, err
	}
	if target <= 0 {
		return nil, invalid(FieldTargetAmount, "Target amount must be greater than 0")
	}
	if err := CheckRate(v.cfg, rate); err != nil {
		return nil, err
	}
	if err := CheckTimePeriod(v.cfg, period); err != nil {
		return nil, err
	}

	return &GoalRequest{TargetAmount: target, ExpectedReturn: rate, TimePeriod: period}, nil
}

// ValidateComparison проверяет параметры сравнения SIP и единовременного вложения
func (v *Validator) ValidateComparison(raw map[string]interface{}) (*ComparisonRequest, error) {
	required := []string{FieldAmount, FieldExpectedReturn, FieldTimePeriod}

	amount, rate, period, err := parseCore(raw, FieldAmount, required)
	if err != nil {
		return nil, err
	}
	if err := checkInvestment(v.cfg, FieldAmount, "Amount", amount); err != nil {
		return nil, err
	}
	if err := CheckRate(v.cfg, rate); err != nil {
		return nil, err
	}
	if err := CheckTimePeriod(v.cfg, period); err != nil {
		return nil, err
	}

	return &ComparisonRequest{Amount: amount, ExpectedReturn: rate, TimePeriod: period}, nil
}

// ValidateAdjustments разбирает необязательные ставки инфляции и налога (0..100%)
func (v *Validator) ValidateAdjustments(raw map[string]interface{}) (formatter.Adjustments, error) {
	var adj formatter.Adjustments

	parse := func(field, label string) (*float64, error) {
		value, ok := raw[field]
		if !ok || value == nil {
			return nil, nil
		}
		f, ok := parseNumber(value)
		if !ok {
			return nil, invalid(field, "Invalid numeric values provided")
		}
		if err := ValidateRange(field, label, f, 0, 100, "%"); err != nil {
			return nil, err
		}
		return &f, nil
	}

	var err error
	if adj.InflationRate, err = parse(FieldInflationRate, "Inflation rate"); err != nil {
		return formatter.Adjustments{}, err
	}
	if adj.TaxRate, err = parse(FieldTaxRate, "Tax rate"); err != nil {
		return formatter.Adjustments{}, err
	}
	return adj, nil
}

func (v *Validator) checkRanges(amount, rate float64, period int) error {
	if err := CheckInvestment(v.cfg, amount); err != nil {
		return err
	}
	if err := CheckRate(v.cfg, rate); err != nil {
		return err
	}
	return CheckTimePeriod(v.cfg, period)
}

// parseCore проверяет наличие полей required, затем разбирает сумму, ставку и срок
func parseCore(raw map[string]interface{}, amountField string, required []string) (amount, rate float64, period int, err error) {
	for _, field := range required {
		if _, ok := raw[field]; !ok {
			return 0, 0, 0, invalid(field, "Missing required field: %s", field)
		}
	}

	var ok bool
	if amount, ok = parseNumber(raw[amountField]); !ok {
		return 0, 0, 0, invalid(amountField, "Invalid numeric values provided")
	}
	if rate, ok = parseNumber(raw[FieldExpectedReturn]); !ok {
		return 0, 0, 0, invalid(FieldExpectedReturn, "Invalid numeric values provided")
	}
	if period, ok = parseInt(raw[FieldTimePeriod]); !ok {
		return 0, 0, 0, invalid(FieldTimePeriod, "Invalid numeric values provided")
	}
	return amount, rate, period, nil
}

// parseNumber принимает JSON-число или числовую строку; результат конечен
func parseNumber(value interface{}) (float64, bool) {
	var f float64
	switch x := value.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return 0, false
		}
		f = d.InexactFloat64()
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		f = d.InexactFloat64()
	default:
		return 0, false
	}
	return f, utils.IsFinite(f)
}

// parseInt принимает целое JSON-число (в том числе 10.0 или 1e1) или строку с
// целым числом. Значения за пределами int32 прижимаются к границе, чтобы их
// отклонила проверка диапазона, а не разбор.
func parseInt(value interface{}) (int, bool) {
	switch x := value.(type) {
	case int:
		return x, true
	case int64:
		return clampInt(float64(x)), true
	case float64:
		return integral(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return clampInt(float64(n)), true
		}
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return integral(f)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		return integral(d.InexactFloat64())
	}
	return 0, false
}

func integral(f float64) (int, bool) {
	if !utils.IsFinite(f) || f != math.Trunc(f) {
		return 0, false
	}
	return clampInt(f), true
}

func clampInt(f float64) int {
	return int(math.Max(math.MinInt32, math.Min(math.MaxInt32, f)))
}

// ValidateRange проверяет, что число конечно и лежит в [minInclusive; maxInclusive].
// suffix добавляется к границе в сообщении (например, "%").
func ValidateRange(field, label string, value, minInclusive, maxInclusive float64, suffix string) error {
	return validateRange(field, label, value, minInclusive, maxInclusive, "", suffix)
}

func validateRange(field, label string, value, minInclusive, maxInclusive float64, prefix, suffix string) error {
	if !utils.IsFinite(value) {
		return invalid(field, "Invalid numeric values provided")
	}
	if value < minInclusive {
		return invalid(field, "%s must be at least %s%s%s", label, prefix, formatBound(minInclusive), suffix)
	}
	if value > maxInclusive {
		return invalid(field, "%s cannot exceed %s%s%s", label, prefix, formatBound(maxInclusive), suffix)
	}
	return nil
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(field, label string, value, minInclusive, maxInclusive int, unit string) error {
	if value < minInclusive {
		return invalid(field, "%s must be at least %d %s", label, minInclusive, plural(unit, minInclusive))
	}
	if value > maxInclusive {
		return invalid(field, "%s cannot exceed %d %s", label, maxInclusive, plural(unit, maxInclusive))
	}
	return nil
}

// CheckInvestment проверяет ежемесячный взнос
func CheckInvestment(cfg *config.Config, amount float64) error {
	return checkInvestment(cfg, FieldMonthlyInvestment, "Monthly investment", amount)
}

func checkInvestment(cfg *config.Config, field, label string, amount float64) error {
	return validateRange(field, label, amount, cfg.MinInvestment, cfg.MaxInvestment, cfg.CurrencySymbol, "")
}

// CheckRate проверяет ожидаемую годовую доходность
func CheckRate(cfg *config.Config, rate float64) error {
	return validateRange(FieldExpectedReturn, "Expected return", rate, cfg.MinReturnRate, cfg.MaxReturnRate, "", "%")
}

// CheckTimePeriod проверяет срок в годах
func CheckTimePeriod(cfg *config.Config, years int) error {
	return ValidateIntRange(FieldTimePeriod, "Time period", years, cfg.MinTimePeriod, cfg.MaxTimePeriod, "year")
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func plural(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
