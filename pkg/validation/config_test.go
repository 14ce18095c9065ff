package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigValidator_Rules(t *testing.T) {
	tests := []struct {
		name    string
		rule    func(*ConfigValidator)
		wantErr string
	}{
		{"required set", func(cv *ConfigValidator) { cv.Required("log_level", "info") }, ""},
		{"required empty", func(cv *ConfigValidator) { cv.Required("log_level", "") }, "Config.log_level: must be set"},
		{"range at min", func(cv *ConfigValidator) { cv.RangeInt("workers", 0, 0, 64) }, ""},
		{"range at max", func(cv *ConfigValidator) { cv.RangeInt("workers", 64, 0, 64) }, ""},
		{"range below", func(cv *ConfigValidator) { cv.RangeInt("workers", -1, 0, 64) }, "-1 is outside [0, 64]"},
		{"range above", func(cv *ConfigValidator) { cv.RangeInt("workers", 65, 0, 64) }, "65 is outside [0, 64]"},
		{"one of allowed", func(cv *ConfigValidator) { cv.OneOf("log_level", "warn", "info", "warn") }, ""},
		{"one of empty defers to required", func(cv *ConfigValidator) { cv.OneOf("log_level", "", "info") }, ""},
		{"one of rejected", func(cv *ConfigValidator) { cv.OneOf("log_level", "loud", "info", "warn") }, `"loud" is not one of info, warn`},
		{"custom", func(cv *ConfigValidator) {
			cv.Custom("delay_selector", func() error { return errors.New("unknown selector") })
		}, "Config.delay_selector: unknown selector"},
		{"when false skips", func(cv *ConfigValidator) {
			cv.When(false, func(v *ConfigValidator) { v.Required("metrics_textfile", "") })
		}, ""},
		{"when true runs", func(cv *ConfigValidator) {
			cv.When(true, func(v *ConfigValidator) { v.Required("metrics_textfile", "") })
		}, "metrics_textfile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewConfigValidator("Config")
			tt.rule(cv)
			err := cv.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidator_JoinsFailures(t *testing.T) {
	sentinel := errors.New("bad selector")
	err := NewConfigValidator("Config").
		Required("log_level", "").
		RangeInt("workers", 5000, 0, 1024).
		Custom("delay_selector", func() error { return sentinel }).
		Validate()

	if err == nil || !strings.Contains(err.Error(), "3 problems") {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("joined error should wrap the custom failure")
	}
}

type stubConfig struct{ err error }

func (s *stubConfig) Validate() error { return s.err }

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if err := ValidateConfig(&stubConfig{}); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	want := errors.New("boom")
	if err := ValidateConfig(&stubConfig{err: want}); !errors.Is(err, want) {
		t.Errorf("expected %v, got %v", want, err)
	}
}

func TestFallbacks(t *testing.T) {
	if got := DefaultOr("", "/"); got != "/" {
		t.Errorf("DefaultOr(\"\", \"/\") = %q", got)
	}
	if got := DefaultOr(".", "/"); got != "." {
		t.Errorf("DefaultOr(\".\", \"/\") = %q", got)
	}

	for _, tt := range []struct{ in, want int }{{0, 4}, {-2, 4}, {2, 2}} {
		if got := DefaultOrInt(tt.in, 4); got != tt.want {
			t.Errorf("DefaultOrInt(%d, 4) = %d, want %d", tt.in, got, tt.want)
		}
	}
	for _, tt := range []struct{ in, want int }{{0, 1}, {9, 8}, {5, 5}} {
		if got := ClampInt(tt.in, 1, 8); got != tt.want {
			t.Errorf("ClampInt(%d, 1, 8) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
