package validators

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/srivastav-asutosh/SIP-Calculator/internal/calculations"
	"github.com/srivastav-asutosh/SIP-Calculator/internal/config"
)

func validRaw() map[string]interface{} {
	return map[string]interface{}{
		"monthlyInvestment": 5000.0,
		"expectedReturn":    12.0,
		"timePeriod":        10.0,
		"mode":              "sip",
	}
}

func with(raw map[string]interface{}, key string, value interface{}) map[string]interface{} {
	raw[key] = value
	return raw
}

func without(raw map[string]interface{}, key string) map[string]interface{} {
	delete(raw, key)
	return raw
}

func TestValidate(t *testing.T) {
	v := New(config.Default())

	tests := []struct {
		name        string
		raw         map[string]interface{}
		requireMode bool
		wantField   string
		wantMessage string
		check       func(*testing.T, *CalculationRequest)
	}{
		{
			name:        "valid request",
			raw:         validRaw(),
			requireMode: true,
			check: func(t *testing.T, req *CalculationRequest) {
				if req.Amount != 5000 || req.ExpectedReturn != 12 || req.TimePeriod != 10 || req.Mode != calculations.ModeSIP {
					t.Errorf("unexpected request %+v", req)
				}
			},
		},
		{
			name:        "numeric strings",
			raw:         map[string]interface{}{"monthlyInvestment": " 2500.50 ", "expectedReturn": "8", "timePeriod": "15", "mode": "lumpsum"},
			requireMode: true,
			check: func(t *testing.T, req *CalculationRequest) {
				if req.Amount != 2500.5 || req.ExpectedReturn != 8 || req.TimePeriod != 15 || req.Mode != calculations.ModeLumpsum {
					t.Errorf("unexpected request %+v", req)
				}
			},
		},
		{
			name:        "json numbers",
			raw:         map[string]interface{}{"monthlyInvestment": json.Number("1000"), "expectedReturn": json.Number("12.5"), "timePeriod": json.Number("20")},
			requireMode: false,
			check: func(t *testing.T, req *CalculationRequest) {
				if req.Amount != 1000 || req.ExpectedReturn != 12.5 || req.TimePeriod != 20 {
					t.Errorf("unexpected request %+v", req)
				}
			},
		},
		{
			name:        "mode defaults to sip",
			raw:         without(validRaw(), "mode"),
			requireMode: false,
			check: func(t *testing.T, req *CalculationRequest) {
				if req.Mode != calculations.ModeSIP {
					t.Errorf("expected sip, got %s", req.Mode)
				}
			},
		},
		{
			name:        "mode required",
			raw:         without(validRaw(), "mode"),
			requireMode: true,
			wantField:   "mode",
			wantMessage: "Missing required field: mode",
		},
		{
			name:        "missing beats invalid numbers",
			raw:         without(with(validRaw(), "monthlyInvestment", "abc"), "expectedReturn"),
			requireMode: true,
			wantField:   "expectedReturn",
			wantMessage: "Missing required field: expectedReturn",
		},
		{
			name:        "non numeric amount",
			raw:         with(validRaw(), "monthlyInvestment", "abc"),
			requireMode: true,
			wantField:   "monthlyInvestment",
			wantMessage: "Invalid numeric values provided",
		},
		{
			name:        "null rate",
			raw:         with(validRaw(), "expectedReturn", nil),
			requireMode: true,
			wantField:   "expectedReturn",
			wantMessage: "Invalid numeric values provided",
		},
		{
			name:        "fractional period",
			raw:         with(validRaw(), "timePeriod", 10.5),
			requireMode: true,
			wantField:   "timePeriod",
			wantMessage: "Invalid numeric values provided",
		},
		{
			name:        "boolean period",
			raw:         with(validRaw(), "timePeriod", true),
			requireMode: true,
			wantField:   "timePeriod",
			wantMessage: "Invalid numeric values provided",
		},
		{
			name:        "amount below minimum",
			raw:         with(validRaw(), "monthlyInvestment", 499.0),
			requireMode: true,
			wantField:   "monthlyInvestment",
			wantMessage: "Monthly investment must be at least ₹500",
		},
		{
			name:        "amount above maximum",
			raw:         with(validRaw(), "monthlyInvestment", 100001.0),
			requireMode: true,
			wantField:   "monthlyInvestment",
			wantMessage: "Monthly investment cannot exceed ₹100000",
		},
		{
			name:        "rate below minimum",
			raw:         with(validRaw(), "expectedReturn", 0.5),
			requireMode: true,
			wantField:   "expectedReturn",
			wantMessage: "Expected return must be at least 1%",
		},
		{
			name:        "rate above maximum",
			raw:         with(validRaw(), "expectedReturn", 30.0),
			requireMode: true,
			wantField:   "expectedReturn",
			wantMessage: "Expected return cannot exceed 25%",
		},
		{
			name:        "period at maximum",
			raw:         with(validRaw(), "timePeriod", 50.0),
			requireMode: true,
		},
		{
			name:        "period above maximum",
			raw:         with(validRaw(), "timePeriod", 51.0),
			requireMode: true,
			wantField:   "timePeriod",
			wantMessage: "Time period cannot exceed 50 years",
		},
		{
			name:        "period below minimum",
			raw:         with(validRaw(), "timePeriod", 0.0),
			requireMode: true,
			wantField:   "timePeriod",
			wantMessage: "Time period must be at least 1 year",
		},
		{
			name:        "amount range checked before rate range",
			raw:         with(with(validRaw(), "monthlyInvestment", 10.0), "expectedReturn", 99.0),
			requireMode: true,
			wantField:   "monthlyInvestment",
		},
		{
			name:        "range checked before mode",
			raw:         with(with(validRaw(), "timePeriod", 60.0), "mode", "weekly"),
			requireMode: true,
			wantField:   "timePeriod",
		},
		{
			name:        "invalid mode",
			raw:         with(validRaw(), "mode", "weekly"),
			requireMode: true,
			wantField:   "mode",
			wantMessage: `Mode must be either "sip" or "lumpsum"`,
		},
		{
			name:        "non string mode",
			raw:         with(validRaw(), "mode", 1.0),
			requireMode: false,
			wantField:   "mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := v.Validate(tt.raw, tt.requireMode)
			wantError := tt.wantField != ""
			if (err != nil) != wantError {
				t.Fatalf("Validate() error = %v, wantError %v", err, wantError)
			}
			if !wantError {
				if tt.check != nil {
					tt.check(t, req)
				}
				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, ve.Field)
			}
			if tt.wantMessage != "" && ve.Message != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, ve.Message)
			}
		})
	}
}

func TestValidateIntegralPeriod(t *testing.T) {
	v := New(config.Default())

	tests := []struct {
		name        string
		period      interface{}
		wantPeriod  int
		wantMessage string
	}{
		{name: "json integer", period: json.Number("10"), wantPeriod: 10},
		{name: "json integral decimal", period: json.Number("10.0"), wantPeriod: 10},
		{name: "json exponent", period: json.Number("1e1"), wantPeriod: 10},
		{name: "string integral decimal", period: "20.0", wantPeriod: 20},
		{name: "json huge integral", period: json.Number("1e10"), wantMessage: "Time period cannot exceed 50 years"},
		{name: "json huge integer", period: json.Number("99999999999"), wantMessage: "Time period cannot exceed 50 years"},
		{name: "float huge integral", period: 1e10, wantMessage: "Time period cannot exceed 50 years"},
		{name: "json negative huge", period: json.Number("-1e10"), wantMessage: "Time period must be at least 1 year"},
		{name: "json fractional", period: json.Number("10.5"), wantMessage: "Invalid numeric values provided"},
		{name: "json overflow", period: json.Number("1e400"), wantMessage: "Invalid numeric values provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := v.Validate(with(validRaw(), "timePeriod", tt.period), true)
			if tt.wantMessage == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				if req.TimePeriod != tt.wantPeriod {
					t.Errorf("expected period %d, got %d", tt.wantPeriod, req.TimePeriod)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Message != tt.wantMessage {
				t.Errorf("expected %q, got %v", tt.wantMessage, err)
			}
		})
	}
}

func TestValidateBreakdownIgnoresMode(t *testing.T) {
	v := New(config.Default())

	req, err := v.ValidateBreakdown(with(validRaw(), "mode", "weekly"))
	if err != nil {
		t.Fatalf("ValidateBreakdown() error = %v", err)
	}
	if req.Mode != calculations.ModeSIP {
		t.Errorf("expected sip mode, got %s", req.Mode)
	}

	if _, err := v.ValidateBreakdown(without(validRaw(), "timePeriod")); err == nil {
		t.Error("expected missing field error")
	}
}

func TestValidateGoal(t *testing.T) {
	v := New(config.Default())

	tests := []struct {
		name      string
		raw       map[string]interface{}
		wantField string
	}{
		{name: "valid", raw: map[string]interface{}{"targetAmount": 1e7, "expectedReturn": 12.0, "timePeriod": 10.0}},
		{name: "target above investment bounds is allowed", raw: map[string]interface{}{"targetAmount": "50000000", "expectedReturn": 12.0, "timePeriod": 10.0}},
		{name: "missing target", raw: map[string]interface{}{"expectedReturn": 12.0, "timePeriod": 10.0}, wantField: "targetAmount"},
		{name: "zero target", raw: map[string]interface{}{"targetAmount": 0.0, "expectedReturn": 12.0, "timePeriod": 10.0}, wantField: "targetAmount"},
		{name: "bad rate", raw: map[string]interface{}{"targetAmount": 1e6, "expectedReturn": 40.0, "timePeriod": 10.0}, wantField: "expectedReturn"},
		{name: "bad period", raw: map[string]interface{}{"targetAmount": 1e6, "expectedReturn": 12.0, "timePeriod": "x"}, wantField: "timePeriod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ValidateGoal(tt.raw)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("ValidateGoal() error = %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.wantField {
				t.Errorf("expected ValidationError on %q, got %v", tt.wantField, err)
			}
		})
	}
}

func TestValidateComparison(t *testing.T) {
	v := New(config.Default())

	req, err := v.ValidateComparison(map[string]interface{}{"amount": 5000.0, "expectedReturn": 12.0, "timePeriod": 10.0})
	if err != nil {
		t.Fatalf("ValidateComparison() error = %v", err)
	}
	if req.Amount != 5000 || req.TimePeriod != 10 {
		t.Errorf("unexpected request %+v", req)
	}

	_, err = v.ValidateComparison(map[string]interface{}{"amount": 100.0, "expectedReturn": 12.0, "timePeriod": 10.0})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "amount" || ve.Message != "Amount must be at least ₹500" {
		t.Errorf("unexpected error %v", err)
	}
}

func TestValidateAdjustments(t *testing.T) {
	v := New(config.Default())

	adj, err := v.ValidateAdjustments(map[string]interface{}{})
	if err != nil || !adj.Empty() {
		t.Errorf("expected empty adjustments, got %+v, %v", adj, err)
	}

	adj, err = v.ValidateAdjustments(map[string]interface{}{"inflationRate": 6.0, "taxRate": "10"})
	if err != nil {
		t.Fatalf("ValidateAdjustments() error = %v", err)
	}
	if adj.InflationRate == nil || *adj.InflationRate != 6 || adj.TaxRate == nil || *adj.TaxRate != 10 {
		t.Errorf("unexpected adjustments %+v", adj)
	}

	for _, raw := range []map[string]interface{}{
		{"inflationRate": -1.0},
		{"taxRate": 101.0},
		{"taxRate": "high"},
	} {
		if _, err := v.ValidateAdjustments(raw); err == nil {
			t.Errorf("expected error for %v", raw)
		}
	}
}

func TestRangeHelpers(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name      string
		validator func(*config.Config, interface{}) error
		value     interface{}
		wantError bool
	}{
		{
			name:      "valid investment",
			validator: func(cfg *config.Config, v interface{}) error { return CheckInvestment(cfg, v.(float64)) },
			value:     500.0,
			wantError: false,
		},
		{
			name:      "investment one below minimum",
			validator: func(cfg *config.Config, v interface{}) error { return CheckInvestment(cfg, v.(float64)) },
			value:     499.0,
			wantError: true,
		},
		{
			name:      "valid rate",
			validator: func(cfg *config.Config, v interface{}) error { return CheckRate(cfg, v.(float64)) },
			value:     25.0,
			wantError: false,
		},
		{
			name:      "invalid rate negative",
			validator: func(cfg *config.Config, v interface{}) error { return CheckRate(cfg, v.(float64)) },
			value:     -1.0,
			wantError: true,
		},
		{
			name:      "valid period",
			validator: func(cfg *config.Config, v interface{}) error { return CheckTimePeriod(cfg, v.(int)) },
			value:     50,
			wantError: false,
		},
		{
			name:      "invalid period",
			validator: func(cfg *config.Config, v interface{}) error { return CheckTimePeriod(cfg, v.(int)) },
			value:     51,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validator(cfg, tt.value)
			if (err != nil) != tt.wantError {
				t.Errorf("validator error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}
