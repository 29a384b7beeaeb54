package utils

import (
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{
			name:  "round to 2 decimals",
			input: 123.456789,
			want:  123.46,
		},
		{
			name:  "already 2 decimals",
			input: 123.45,
			want:  123.45,
		},
		{
			name:  "integer",
			input: 123.0,
			want:  123.0,
		},
		{
			name:  "half up on binary edge",
			input: 1.005,
			want:  1.01,
		},
		{
			name:  "half up on large value",
			input: 1161695.375,
			want:  1161695.38,
		},
		{
			name:  "negative rounds away from zero",
			input: -2.345,
			want:  -2.35,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Round2(tt.input)
			if got != tt.want {
				t.Errorf("Round2() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRound2NonFinite(t *testing.T) {
	if got := Round2(math.Inf(1)); !math.IsInf(got, 1) {
		t.Errorf("Round2(+Inf) = %v, want +Inf", got)
	}
	if got := Round2(math.NaN()); !math.IsNaN(got) {
		t.Errorf("Round2(NaN) = %v, want NaN", got)
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  bool
	}{
		{
			name:  "finite number",
			input: 123.45,
			want:  true,
		},
		{
			name:  "infinity",
			input: math.Inf(1),
			want:  false,
		},
		{
			name:  "negative infinity",
			input: math.Inf(-1),
			want:  false,
		},
		{
			name:  "NaN",
			input: math.NaN(),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsFinite(tt.input)
			if got != tt.want {
				t.Errorf("IsFinite() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllFinite(t *testing.T) {
	if !AllFinite(1, 2, 3) {
		t.Error("expected finite values to pass")
	}
	if AllFinite(1, math.NaN(), 3) {
		t.Error("expected NaN to fail")
	}
	if !AllFinite() {
		t.Error("expected empty set to pass")
	}
}
