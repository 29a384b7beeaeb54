package calculations

import (
	"math"

	"github.com/srivastav-asutosh/SIP-Calculator/pkg/utils"
)

// monthlyRate переводит годовую ставку в процентах в месячную долю
func monthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 12.0 / 100.0
}

// annuityDueFactor множитель будущей стоимости аннуитета пренумерандо:
// ((1+r)^n - 1) / r * (1+r), при r == 0 вырождается в n
func annuityDueFactor(r float64, n int) float64 {
	if r == 0.0 {
		return float64(n)
	}
	return (math.Pow(1.0+r, float64(n)) - 1.0) / r * (1.0 + r)
}

// checkInputs общие проверки для всех операций движка
func checkInputs(op string, amount, annualRatePercent float64, years int) (months int, err error) {
	if !utils.AllFinite(amount, annualRatePercent) {
		return 0, badInput(op, "inputs must be finite numbers")
	}
	if amount < 0 {
		return 0, badInput(op, "amount must not be negative")
	}
	if annualRatePercent <= -100.0 {
		return 0, badInput(op, "annual return rate must be greater than -100%%")
	}
	if years <= 0 {
		return 0, badInput(op, "time period must be at least 1 year")
	}
	months = years * 12
	if months <= 0 || months/12 != years {
		return 0, badInput(op, "time period is too large")
	}
	return months, nil
}

// sipValues возвращает неокругленные вложения и будущую стоимость за months месяцев
func sipValues(monthlyInvestment, r float64, months int) (invested, futureValue float64) {
	invested = monthlyInvestment * float64(months)
	futureValue = monthlyInvestment * annuityDueFactor(r, months)
	return invested, futureValue
}

// ComputeSIP рассчитывает будущую стоимость ежемесячных взносов
func ComputeSIP(monthlyInvestment, annualRatePercent float64, years int) (*CalculationResult, error) {
	const op = "sip"

	n, err := checkInputs(op, monthlyInvestment, annualRatePercent, years)
	if err != nil {
		return nil, err
	}

	invested, fv := sipValues(monthlyInvestment, monthlyRate(annualRatePercent), n)
	returns := fv - invested
	if !utils.AllFinite(invested, fv, returns) {
		return nil, nonFinite(op)
	}

	return &CalculationResult{
		Mode:              ModeSIP,
		TotalInvested:     utils.Round2(invested),
		EstimatedReturns:  utils.Round2(returns),
		TotalValue:        utils.Round2(fv),
		MonthlyInvestment: monthlyInvestment,
		AnnualReturnRate:  annualRatePercent,
		TimePeriodYears:   years,
		TotalMonths:       n,
	}, nil
}

// YearlyBreakdown строит разбивку SIP по годам: по одной записи на каждый год 1..years
func YearlyBreakdown(monthlyInvestment, annualRatePercent float64, years int) ([]YearlyBreakdownEntry, error) {
	const op = "breakdown"

	if _, err := checkInputs(op, monthlyInvestment, annualRatePercent, years); err != nil {
		return nil, err
	}

	r := monthlyRate(annualRatePercent)
	breakdown := make([]YearlyBreakdownEntry, 0, years)

	for year := 1; year <= years; year++ {
		invested, fv := sipValues(monthlyInvestment, r, year*12)
		returns := fv - invested
		if !utils.AllFinite(invested, fv, returns) {
			return nil, nonFinite(op)
		}

		breakdown = append(breakdown, YearlyBreakdownEntry{
			Year:             year,
			TotalInvested:    utils.Round2(invested),
			EstimatedReturns: utils.Round2(returns),
			TotalValue:       utils.Round2(fv),
		})
	}

	return breakdown, nil
}
