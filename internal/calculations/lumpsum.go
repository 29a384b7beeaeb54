package calculations

import (
	"math"

	"github.com/srivastav-asutosh/SIP-Calculator/pkg/utils"
)

// ComputeLumpsum рассчитывает рост единовременного вложения с ежегодной капитализацией
func ComputeLumpsum(principal, annualRatePercent float64, years int) (*CalculationResult, error) {
	const op = "lumpsum"

	if _, err := checkInputs(op, principal, annualRatePercent, years); err != nil {
		return nil, err
	}

	fv := principal * math.Pow(1.0+annualRatePercent/100.0, float64(years))
	returns := fv - principal
	if !utils.AllFinite(fv, returns) {
		return nil, nonFinite(op)
	}

	return &CalculationResult{
		Mode:             ModeLumpsum,
		TotalInvested:    utils.Round2(principal),
		EstimatedReturns: utils.Round2(returns),
		TotalValue:       utils.Round2(fv),
		LumpsumAmount:    principal,
		AnnualReturnRate: annualRatePercent,
		TimePeriodYears:  years,
	}, nil
}
