package calculations

// Mode режим расчета
type Mode string

const (
	// ModeSIP ежемесячные взносы
	ModeSIP Mode = "sip"
	// ModeLumpsum единовременное вложение
	ModeLumpsum Mode = "lumpsum"
)

// ParseMode разбирает строковое значение режима
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeSIP, ModeLumpsum:
		return Mode(s), true
	}
	return "", false
}

// CalculationResult представляет итог расчета SIP или единовременного вложения
type CalculationResult struct {
	Mode              Mode    `json:"mode"`
	TotalInvested     float64 `json:"total_invested"`
	EstimatedReturns  float64 `json:"estimated_returns"`
	TotalValue        float64 `json:"total_value"`
	MonthlyInvestment float64 `json:"monthly_investment,omitempty"`
	LumpsumAmount     float64 `json:"lumpsum_amount,omitempty"`
	AnnualReturnRate  float64 `json:"annual_return_rate"`
	TimePeriodYears   int     `json:"time_period_years"`
	TotalMonths       int     `json:"total_months,omitempty"`
}

// Amount возвращает введенную сумму независимо от режима
func (r *CalculationResult) Amount() float64 {
	if r.Mode == ModeLumpsum {
		return r.LumpsumAmount
	}
	return r.MonthlyInvestment
}

// YearlyBreakdownEntry представляет одну строку годовой разбивки
type YearlyBreakdownEntry struct {
	Year             int     `json:"year"`
	TotalInvested    float64 `json:"total_invested"`
	EstimatedReturns float64 `json:"estimated_returns"`
	TotalValue       float64 `json:"total_value"`
}

// GoalPlanResult представляет результат обратного расчета SIP
type GoalPlanResult struct {
	RequiredSIP      float64 `json:"required_sip"`
	TargetAmount     float64 `json:"target_amount"`
	AnnualReturnRate float64 `json:"annual_return_rate"`
	TimePeriodYears  int     `json:"time_period_years"`
}

// ComparisonSummary итог сравнения SIP и единовременного вложения
type ComparisonSummary struct {
	SIPAdvantage   float64 `json:"sip_advantage"`
	BetterOption   string  `json:"better_option"`
	Recommendation string  `json:"recommendation"`
}

// ComparisonResult представляет результат сравнения
type ComparisonResult struct {
	SIP        CalculationResult `json:"sip"`
	Lumpsum    CalculationResult `json:"lumpsum"`
	Comparison ComparisonSummary `json:"comparison"`
}
