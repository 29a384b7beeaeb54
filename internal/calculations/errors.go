package calculations

import "fmt"

// ComputationError ошибка расчета. BadInput отмечает ошибки, вызванные
// входными данными; остальные считаются внутренними.
type ComputationError struct {
	Op       string
	Reason   string
	BadInput bool
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func badInput(op, format string, args ...interface{}) error {
	return &ComputationError{Op: op, Reason: fmt.Sprintf(format, args...), BadInput: true}
}

func nonFinite(op string) error {
	return &ComputationError{Op: op, Reason: "result is not a finite number"}
}
