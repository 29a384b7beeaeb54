package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 округляет число до 2 знаков после запятой (half-up)
func Round2(value float64) float64 {
	return RoundPlaces(value, 2)
}

// RoundPlaces округляет число до places знаков по правилу half-up.
// Округление идет через десятичное представление, поэтому 1.005 дает 1.01.
func RoundPlaces(value float64, places int32) float64 {
	if !IsFinite(value) {
		return value
	}
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}

// IsFinite проверяет, является ли число конечным
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

// AllFinite проверяет набор чисел на конечность
func AllFinite(values ...float64) bool {
	for _, v := range values {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}
