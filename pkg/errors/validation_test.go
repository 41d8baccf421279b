package errors

import (
	"math"
	"testing"
)

func TestValidateLength(t *testing.T) {
	tests := []struct {
		name      string
		inches    float64
		allowZero bool
		wantErr   bool
	}{
		{"positive", 8.5, false, false},
		{"zero margin", 0, true, false},
		{"zero page", 0, false, true},
		{"negative", -0.5, true, true},
		{"NaN", math.NaN(), true, true},
		{"infinite", math.Inf(1), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLength("margin", tt.inches, tt.allowZero)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateLength(%v) error = %v, wantErr %v", tt.inches, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", GetCode(err))
			}
		})
	}
}

func TestValidateScale(t *testing.T) {
	tests := []struct {
		scale   float64
		wantErr bool
	}{
		{0.98, false},
		{2, false},
		{0, true},
		{-1, true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		if err := ValidateScale(tt.scale); (err != nil) != tt.wantErr {
			t.Errorf("ValidateScale(%v) error = %v, wantErr %v", tt.scale, err, tt.wantErr)
		}
	}
}

func TestValidateDPI(t *testing.T) {
	if err := ValidateDPI(300); err != nil {
		t.Errorf("ValidateDPI(300) = %v", err)
	}
	if err := ValidateDPI(0); err == nil {
		t.Error("ValidateDPI(0) should fail")
	}
}

func TestValidateGridCount(t *testing.T) {
	for _, n := range []int{0, 1, 10} {
		if err := ValidateGridCount("rows", n); err != nil {
			t.Errorf("ValidateGridCount(%d) = %v", n, err)
		}
	}
	for _, n := range []int{-1, MaxGridCount + 1} {
		if err := ValidateGridCount("cols", n); !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidateGridCount(%d) = %v, want INVALID_INPUT", n, err)
		}
	}
}

func TestValidatePixels(t *testing.T) {
	tests := []struct {
		name    string
		inches  float64
		dpi     int
		wantErr bool
	}{
		{"letter height", 11, 300, false},
		{"exactly at limit", 10, 1000, false},
		{"just over", 10.01, 1000, true},
		{"huge", 1e12, 300, true},
		{"max float", math.MaxFloat64, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePixels("page height", tt.inches, tt.dpi, 10000)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePixels(%g, %d) error = %v, wantErr %v", tt.inches, tt.dpi, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", GetCode(err))
			}
		})
	}
}

func TestValidateWorkers(t *testing.T) {
	if err := ValidateWorkers(4); err != nil {
		t.Errorf("ValidateWorkers(4) = %v", err)
	}
	if err := ValidateWorkers(0); err == nil {
		t.Error("ValidateWorkers(0) should fail")
	}
}
