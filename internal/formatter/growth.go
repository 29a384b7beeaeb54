package formatter

import (
	"math"

	"github.com/srivastav-asutosh/SIP-Calculator/internal/calculations"
	"github.com/srivastav-asutosh/SIP-Calculator/pkg/utils"
)

// GrowthMetrics представляет метрики роста инвестиций
type GrowthMetrics struct {
	ROIPercent              float64 `json:"roi_percent"`
	AnnualizedReturnPercent float64 `json:"annualized_return_percent"`
	WealthMultiple          float64 `json:"wealth_multiple"`
	ProfitPercent           float64 `json:"profit_percent"`
	Years                   int     `json:"years"`
}

// Growth вычисляет метрики роста по итогам расчета
func Growth(result *calculations.CalculationResult) GrowthMetrics {
	invested := result.TotalInvested
	final := result.TotalValue
	years := result.TimePeriodYears

	metrics := GrowthMetrics{Years: years}

	// ROI (Return on Investment) в процентах
	if invested > 0 {
		metrics.ROIPercent = utils.Round2(((final - invested) / invested) * 100)
		metrics.WealthMultiple = utils.Round2(final / invested)
	}

	// Средняя годовая доходность на весь вложенный капитал
	if years > 0 && invested > 0 && final > 0 {
		metrics.AnnualizedReturnPercent = utils.Round2((math.Pow(final/invested, 1.0/float64(years)) - 1.0) * 100)
	}

	// Доля дохода в итоговой сумме
	if final > 0 {
		metrics.ProfitPercent = utils.Round2((result.EstimatedReturns / final) * 100)
	}

	return metrics
}
