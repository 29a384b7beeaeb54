// Package formatter готовит результаты расчета к выдаче: суммы в Cr/L/K,
// поправки на инфляцию и налог, метрики роста. Сам результат не изменяется.
package formatter

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/srivastav-asutosh/SIP-Calculator/internal/calculations"
	"github.com/srivastav-asutosh/SIP-Calculator/pkg/utils"
)

const (
	crore    = 10000000.0
	lakh     = 100000.0
	thousand = 1000.0
)

// FormatCurrency форматирует сумму в индийской системе: Cr, L, K или без суффикса
func FormatCurrency(amount float64, symbol string) string {
	switch {
	case amount >= crore:
		return symbol + fixed2(amount/crore) + " Cr"
	case amount >= lakh:
		return symbol + fixed2(amount/lakh) + " L"
	case amount >= thousand:
		return symbol + fixed2(amount/thousand) + " K"
	default:
		return symbol + groupThousands(fixed2(amount))
	}
}

// InflationAdjust приводит сумму к сегодняшним деньгам
func InflationAdjust(amount, inflationRatePercent float64, years int) float64 {
	return amount / math.Pow(1.0+inflationRatePercent/100.0, float64(years))
}

// TaxAdjust возвращает доход после налога
func TaxAdjust(returns, taxRatePercent float64) float64 {
	return returns * (1.0 - taxRatePercent/100.0)
}

// Formatted денежные поля результата в виде строк
type Formatted struct {
	TotalInvested    string `json:"total_invested"`
	EstimatedReturns string `json:"estimated_returns"`
	TotalValue       string `json:"total_value"`
}

// Display форматирует денежные поля результата
func Display(result *calculations.CalculationResult, symbol string) Formatted {
	return Formatted{
		TotalInvested:    FormatCurrency(result.TotalInvested, symbol),
		EstimatedReturns: FormatCurrency(result.EstimatedReturns, symbol),
		TotalValue:       FormatCurrency(result.TotalValue, symbol),
	}
}

// Adjustments необязательные поправки; nil означает "не применять"
type Adjustments struct {
	InflationRate *float64
	TaxRate       *float64
}

// Empty сообщает, что ни одна поправка не задана
func (a Adjustments) Empty() bool {
	return a.InflationRate == nil && a.TaxRate == nil
}

// Adjusted результат применения поправок
type Adjusted struct {
	InflationRate     *float64 `json:"inflation_rate,omitempty"`
	RealTotalValue    *float64 `json:"real_total_value,omitempty"`
	TaxRate           *float64 `json:"tax_rate,omitempty"`
	PostTaxReturns    *float64 `json:"post_tax_returns,omitempty"`
	PostTaxTotalValue *float64 `json:"post_tax_total_value,omitempty"`
}

// Adjust применяет поправки к результату. Возвращает nil, если поправок нет.
func Adjust(result *calculations.CalculationResult, opts Adjustments) *Adjusted {
	if opts.Empty() {
		return nil
	}

	adjusted := &Adjusted{}
	if opts.InflationRate != nil {
		realValue := utils.Round2(InflationAdjust(result.TotalValue, *opts.InflationRate, result.TimePeriodYears))
		adjusted.InflationRate = opts.InflationRate
		adjusted.RealTotalValue = &realValue
	}
	if opts.TaxRate != nil {
		returns := result.EstimatedReturns
		// Налог берется только с положительного дохода
		if returns > 0 {
			returns = TaxAdjust(returns, *opts.TaxRate)
		}
		postTax := utils.Round2(returns)
		total := utils.Round2(result.TotalInvested + returns)
		adjusted.TaxRate = opts.TaxRate
		adjusted.PostTaxReturns = &postTax
		adjusted.PostTaxTotalValue = &total
	}
	return adjusted
}

func fixed2(v float64) string {
	if !utils.IsFinite(v) {
		return "NaN"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// groupThousands расставляет запятые в целой части "1234567.89" -> "1,234,567.89"
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String() + frac
}
