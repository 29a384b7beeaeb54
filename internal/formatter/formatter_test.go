package formatter

import (
	"math"
	"testing"

	"github.com/srivastav-asutosh/SIP-Calculator/internal/calculations"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{name: "crore", amount: 12500000, want: "₹1.25 Cr"},
		{name: "exact crore", amount: 10000000, want: "₹1.00 Cr"},
		{name: "lakh", amount: 1161695.38, want: "₹11.62 L"},
		{name: "exact lakh", amount: 100000, want: "₹1.00 L"},
		{name: "thousand", amount: 2500, want: "₹2.50 K"},
		{name: "plain", amount: 999.5, want: "₹999.50"},
		{name: "zero", amount: 0, want: "₹0.00"},
		{name: "negative keeps separators", amount: -5000, want: "₹-5,000.00"},
		{name: "negative large", amount: -1234567.891, want: "₹-1,234,567.89"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCurrency(tt.amount, "₹"); got != tt.want {
				t.Errorf("FormatCurrency(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}

	if got := FormatCurrency(2500, "$"); got != "$2.50 K" {
		t.Errorf("custom symbol: got %q", got)
	}
}

func TestInflationAndTax(t *testing.T) {
	if got := InflationAdjust(1161695.38, 6, 10); math.Abs(got-648684.63) > 0.01 {
		t.Errorf("InflationAdjust() = %.2f, want 648684.63", got)
	}
	if got := InflationAdjust(1000, 0, 10); got != 1000 {
		t.Errorf("zero inflation should keep amount, got %f", got)
	}
	if got := TaxAdjust(561695.38, 10); math.Abs(got-505525.842) > 1e-6 {
		t.Errorf("TaxAdjust() = %f, want 505525.842", got)
	}
	if got := TaxAdjust(1000, 0); got != 1000 {
		t.Errorf("zero tax should keep returns, got %f", got)
	}
}

func sipResult(t *testing.T) *calculations.CalculationResult {
	t.Helper()
	result, err := calculations.ComputeSIP(5000, 12, 10)
	if err != nil {
		t.Fatalf("ComputeSIP() error = %v", err)
	}
	return result
}

func TestDisplay(t *testing.T) {
	got := Display(sipResult(t), "₹")
	want := Formatted{
		TotalInvested:    "₹6.00 L",
		EstimatedReturns: "₹5.62 L",
		TotalValue:       "₹11.62 L",
	}
	if got != want {
		t.Errorf("Display() = %+v, want %+v", got, want)
	}
}

func TestAdjust(t *testing.T) {
	result := sipResult(t)
	before := *result

	if Adjust(result, Adjustments{}) != nil {
		t.Error("expected nil without adjustments")
	}

	inflation, tax := 6.0, 10.0
	adjusted := Adjust(result, Adjustments{InflationRate: &inflation, TaxRate: &tax})
	if adjusted == nil {
		t.Fatal("expected adjustments")
	}
	if math.Abs(*adjusted.RealTotalValue-648684.63) > 0.01 {
		t.Errorf("real total value = %.2f", *adjusted.RealTotalValue)
	}
	if math.Abs(*adjusted.PostTaxReturns-505525.84) > 0.01 {
		t.Errorf("post tax returns = %.2f", *adjusted.PostTaxReturns)
	}
	if math.Abs(*adjusted.PostTaxTotalValue-1105525.84) > 0.01 {
		t.Errorf("post tax total = %.2f", *adjusted.PostTaxTotalValue)
	}
	if *result != before {
		t.Error("Adjust must not modify the result")
	}

	loss, err := calculations.ComputeSIP(1000, -10, 3)
	if err != nil {
		t.Fatalf("ComputeSIP() error = %v", err)
	}
	lossAdjusted := Adjust(loss, Adjustments{TaxRate: &tax})
	if *lossAdjusted.PostTaxReturns != loss.EstimatedReturns {
		t.Errorf("losses should not be taxed: %f vs %f", *lossAdjusted.PostTaxReturns, loss.EstimatedReturns)
	}
	if lossAdjusted.RealTotalValue != nil {
		t.Error("inflation block should be absent")
	}
}

func TestGrowth(t *testing.T) {
	lumpsum, err := calculations.ComputeLumpsum(100000, 12, 10)
	if err != nil {
		t.Fatalf("ComputeLumpsum() error = %v", err)
	}
	metrics := Growth(lumpsum)
	if metrics.AnnualizedReturnPercent != 12 {
		t.Errorf("expected 12%% annualized, got %v", metrics.AnnualizedReturnPercent)
	}
	if metrics.ROIPercent != 210.58 {
		t.Errorf("expected ROI 210.58, got %v", metrics.ROIPercent)
	}
	if metrics.WealthMultiple != 3.11 {
		t.Errorf("expected multiple 3.11, got %v", metrics.WealthMultiple)
	}
	if metrics.Years != 10 {
		t.Errorf("expected 10 years, got %d", metrics.Years)
	}

	empty := Growth(&calculations.CalculationResult{TimePeriodYears: 5})
	if empty.ROIPercent != 0 || empty.AnnualizedReturnPercent != 0 || empty.ProfitPercent != 0 {
		t.Errorf("zero inputs should yield zero metrics: %+v", empty)
	}
}
