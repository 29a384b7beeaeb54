package calculations

// ConfigInterface определяет интерфейс для получения конфигурации
type ConfigInterface interface {
	BalanceCap() float64
}

// Engine оборачивает чистые функции расчета проверкой верхней границы баланса.
// Состояния не хранит, безопасен для конкурентного использования.
type Engine struct {
	cfg ConfigInterface
}

// NewEngine создает движок расчетов
func NewEngine(cfg ConfigInterface) *Engine {
	return &Engine{cfg: cfg}
}

// Calculate выполняет расчет в выбранном режиме
func (e *Engine) Calculate(mode Mode, amount, annualRatePercent float64, years int) (*CalculationResult, error) {
	var (
		result *CalculationResult
		err    error
	)
	switch mode {
	case ModeSIP:
		result, err = ComputeSIP(amount, annualRatePercent, years)
	case ModeLumpsum:
		result, err = ComputeLumpsum(amount, annualRatePercent, years)
	default:
		return nil, badInput("calculate", "unknown mode %q", mode)
	}
	if err != nil {
		return nil, err
	}
	if err := e.checkCap(string(mode), result.TotalValue); err != nil {
		return nil, err
	}
	return result, nil
}

// Breakdown строит годовую разбивку SIP
func (e *Engine) Breakdown(monthlyInvestment, annualRatePercent float64, years int) ([]YearlyBreakdownEntry, error) {
	breakdown, err := YearlyBreakdown(monthlyInvestment, annualRatePercent, years)
	if err != nil {
		return nil, err
	}
	for _, entry := range breakdown {
		if err := e.checkCap("breakdown", entry.TotalValue); err != nil {
			return nil, err
		}
	}
	return breakdown, nil
}

// PlanGoal рассчитывает необходимый ежемесячный взнос
func (e *Engine) PlanGoal(targetAmount, annualRatePercent float64, years int) (*GoalPlanResult, error) {
	if err := e.checkCap("goal-planning", targetAmount); err != nil {
		return nil, err
	}
	return PlanGoal(targetAmount, annualRatePercent, years)
}

// Compare сравнивает SIP и единовременное вложение
func (e *Engine) Compare(amount, annualRatePercent float64, years int) (*ComparisonResult, error) {
	result, err := Compare(amount, annualRatePercent, years)
	if err != nil {
		return nil, err
	}
	if err := e.checkCap("comparison", result.SIP.TotalValue); err != nil {
		return nil, err
	}
	if err := e.checkCap("comparison", result.Lumpsum.TotalValue); err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) checkCap(op string, value float64) error {
	if e.cfg == nil {
		return nil
	}
	if limit := e.cfg.BalanceCap(); limit > 0 && value > limit {
		return badInput(op, "projected balance exceeds the upper limit (check rate/period/amount)")
	}
	return nil
}
