package calculations

import (
	"github.com/srivastav-asutosh/SIP-Calculator/pkg/utils"
)

// ReverseSIP возвращает ежемесячный взнос, необходимый для накопления targetAmount.
// Результат не округляется и не ограничивается границами взноса.
func ReverseSIP(targetAmount, annualRatePercent float64, years int) (float64, error) {
	const op = "goal-planning"

	n, err := checkInputs(op, targetAmount, annualRatePercent, years)
	if err != nil {
		return 0, err
	}

	factor := annuityDueFactor(monthlyRate(annualRatePercent), n)
	if !utils.IsFinite(factor) || factor <= 0 {
		return 0, nonFinite(op)
	}

	required := targetAmount / factor
	if !utils.IsFinite(required) {
		return 0, nonFinite(op)
	}
	return required, nil
}

// PlanGoal упаковывает результат ReverseSIP
func PlanGoal(targetAmount, annualRatePercent float64, years int) (*GoalPlanResult, error) {
	required, err := ReverseSIP(targetAmount, annualRatePercent, years)
	if err != nil {
		return nil, err
	}

	return &GoalPlanResult{
		RequiredSIP:      utils.Round2(required),
		TargetAmount:     targetAmount,
		AnnualReturnRate: annualRatePercent,
		TimePeriodYears:  years,
	}, nil
}
