package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigValidator checks hand-written rules on a settings section. Every
// failed rule is kept so one run reports all of them.
type ConfigValidator struct {
	section string
	errs    []error
}

// NewConfigValidator starts a validator whose messages are prefixed with
// section.
func NewConfigValidator(section string) *ConfigValidator {
	return &ConfigValidator{section: section}
}

func (cv *ConfigValidator) fail(field string, err error) {
	cv.errs = append(cv.errs, fmt.Errorf("%s.%s: %w", cv.section, field, err))
}

// Required fails when value is empty.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		cv.fail(field, errors.New("must be set"))
	}
	return cv
}

// RangeInt fails unless lo <= value <= hi.
func (cv *ConfigValidator) RangeInt(field string, value, lo, hi int) *ConfigValidator {
	if value < lo || value > hi {
		cv.fail(field, fmt.Errorf("%d is outside [%d, %d]", value, lo, hi))
	}
	return cv
}

// OneOf fails unless value is one of allowed. Empty values are left to
// Required.
func (cv *ConfigValidator) OneOf(field, value string, allowed ...string) *ConfigValidator {
	if value == "" {
		return cv
	}
	for _, a := range allowed {
		if value == a {
			return cv
		}
	}
	cv.fail(field, fmt.Errorf("%q is not one of %s", value, strings.Join(allowed, ", ")))
	return cv
}

// Custom records the error returned by check, if any.
func (cv *ConfigValidator) Custom(field string, check func() error) *ConfigValidator {
	if err := check(); err != nil {
		cv.fail(field, err)
	}
	return cv
}

// When runs rules only if cond holds.
func (cv *ConfigValidator) When(cond bool, rules func(*ConfigValidator)) *ConfigValidator {
	if cond {
		rules(cv)
	}
	return cv
}

// Validate returns nil, the single failure, or all failures joined.
func (cv *ConfigValidator) Validate() error {
	switch len(cv.errs) {
	case 0:
		return nil
	case 1:
		return cv.errs[0]
	}
	return fmt.Errorf("%s: %d problems: %w", cv.section, len(cv.errs), errors.Join(cv.errs...))
}

// Validatable is a settings type that checks itself.
type Validatable interface {
	Validate() error
}

// ValidateConfig runs c.Validate, rejecting a nil value.
func ValidateConfig(c Validatable) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// DefaultOr returns fallback when value is the zero value.
func DefaultOr[T comparable](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}
	return value
}

// DefaultOrInt returns fallback unless value is positive.
func DefaultOrInt(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

// ClampInt bounds value to [lo, hi].
func ClampInt(value, lo, hi int) int {
	return max(lo, min(value, hi))
}
