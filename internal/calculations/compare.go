package calculations

import (
	"github.com/srivastav-asutosh/SIP-Calculator/pkg/utils"
)

// Compare сравнивает SIP на сумму amount с единовременным вложением той же
// общей суммы (amount * 12 * years)
func Compare(amount, annualRatePercent float64, years int) (*ComparisonResult, error) {
	// Рассчитываем оба варианта
	sipResult, err := ComputeSIP(amount, annualRatePercent, years)
	if err != nil {
		return nil, err
	}

	lumpsumResult, err := ComputeLumpsum(amount*float64(years)*12.0, annualRatePercent, years)
	if err != nil {
		return nil, err
	}

	advantage := utils.Round2(sipResult.TotalValue - lumpsumResult.TotalValue)

	// Определяем, какой вариант выгоднее
	var betterOption, recommendation string
	switch {
	case advantage > 0:
		betterOption = string(ModeSIP)
		recommendation = "SIP ends with a higher value. Spreading contributions pays off when returns are low or negative early on."
	case advantage < 0:
		betterOption = string(ModeLumpsum)
		recommendation = "Lumpsum ends with a higher value: the whole amount compounds from day one. SIP still limits timing risk when the capital is not available upfront."
	default:
		betterOption = "equal"
		recommendation = "Both options end with the same value."
	}

	return &ComparisonResult{
		SIP:     *sipResult,
		Lumpsum: *lumpsumResult,
		Comparison: ComparisonSummary{
			SIPAdvantage:   advantage,
			BetterOption:   betterOption,
			Recommendation: recommendation,
		},
	}, nil
}
