package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/cluso-timing/pkg/timing"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxSources      = 256
	MaxBatchQueries = 10000
	MaxDividerLen   = 4
	MaxPinLength    = 1024

	// Pin paths are printable and never contain whitespace.
	pinPattern = regexp.MustCompile(`^\S+$`)
)

func init() {
	validate = validator.New()

	// Report yaml field names so messages match what users wrote.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// ConvergenceRequest is one earliest-common-node query as read from a batch
// file.
type ConvergenceRequest struct {
	Name          string   `yaml:"name" validate:"omitempty,max=128"`
	Sources       []string `yaml:"sources" validate:"required,min=1,max=256,dive,required"`
	Mode          string   `yaml:"mode" validate:"omitempty,oneof=max sum"`
	ConsiderDelay *bool    `yaml:"consider_delay"`
	Cutoff        *float64 `yaml:"cutoff" validate:"omitempty,gte=0"`
}

// ConvergenceBatch is a list of convergence requests.
type ConvergenceBatch struct {
	Queries []ConvergenceRequest `yaml:"queries" validate:"required,min=1,max=10000,dive"`
}

// DeclarationDocument is the YAML form of a delay annotation.
type DeclarationDocument struct {
	Divider       string        `yaml:"divider" validate:"omitempty,max=4"`
	DelaySelector string        `yaml:"delay_selector" validate:"omitempty,oneof=min_all max_all avg_all avg_fast avg_slow max_fast max_slow min_fast min_slow"`
	Nodes         []string      `yaml:"nodes" validate:"dive,required,max=1024"`
	Arcs          []ArcDocument `yaml:"arcs" validate:"dive"`
}

// ArcDocument is one arc of a DeclarationDocument. Exactly one of Delay and
// DelayPaths is set.
type ArcDocument struct {
	From       string             `yaml:"from" validate:"required,max=1024"`
	To         string             `yaml:"to" validate:"required,max=1024"`
	Delay      *float64           `yaml:"delay" validate:"omitempty,gte=0"`
	DelayPaths *timing.DelayPaths `yaml:"delay_paths"`
	Kind       string             `yaml:"kind" validate:"omitempty,oneof=interconnect iopath INTERCONNECT IOPATH"`
	Cell       string             `yaml:"cell" validate:"omitempty,max=256"`
}

// ValidateConvergenceRequest validates a convergence query request
func ValidateConvergenceRequest(req *ConvergenceRequest) error {
	if req == nil {
		return errors.New("convergence request cannot be nil")
	}

	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	for i, src := range req.Sources {
		if err := ValidatePinName(src); err != nil {
			return fmt.Errorf("sources[%d]: %w", i, err)
		}
	}
	if req.Cutoff != nil && math.IsNaN(*req.Cutoff) {
		return errors.New("cutoff: must be a number")
	}

	return nil
}

// ValidateConvergenceBatch validates every request of a batch.
func ValidateConvergenceBatch(batch *ConvergenceBatch) error {
	if batch == nil {
		return errors.New("convergence batch cannot be nil")
	}
	if err := validate.Struct(batch); err != nil {
		return formatValidationError(err)
	}
	for i := range batch.Queries {
		if err := ValidateConvergenceRequest(&batch.Queries[i]); err != nil {
			return fmt.Errorf("queries[%d]: %w", i, err)
		}
	}
	return nil
}

// ValidateDeclarationDocument validates a YAML delay annotation before it is
// replayed into a graph.
func ValidateDeclarationDocument(doc *DeclarationDocument) error {
	if doc == nil {
		return errors.New("declaration document cannot be nil")
	}

	if err := validate.Struct(doc); err != nil {
		return formatValidationError(err)
	}

	for i, n := range doc.Nodes {
		if err := ValidatePinName(n); err != nil {
			return fmt.Errorf("nodes[%d]: %w", i, err)
		}
	}

	for i, a := range doc.Arcs {
		if err := validateArc(&a); err != nil {
			return fmt.Errorf("arcs[%d]: %w", i, err)
		}
	}

	return nil
}

func validateArc(a *ArcDocument) error {
	switch {
	case a.Delay == nil && a.DelayPaths == nil:
		return errors.New("one of delay or delay_paths is required")
	case a.Delay != nil && a.DelayPaths != nil:
		return errors.New("delay and delay_paths are mutually exclusive")
	}
	if a.Delay != nil && (math.IsNaN(*a.Delay) || math.IsInf(*a.Delay, 0)) {
		return errors.New("delay: must be a finite number")
	}
	if err := ValidatePinName(a.From); err != nil {
		return fmt.Errorf("from: %w", err)
	}
	if err := ValidatePinName(a.To); err != nil {
		return fmt.Errorf("to: %w", err)
	}
	return nil
}

// ValidatePinName validates a hierarchical pin path
func ValidatePinName(name string) error {
	if name == "" {
		return errors.New("pin name cannot be empty")
	}
	if len(name) > MaxPinLength {
		return fmt.Errorf("pin name exceeds maximum length of %d characters", MaxPinLength)
	}
	if !pinPattern.MatchString(name) {
		return fmt.Errorf("pin name %q must not contain whitespace", name)
	}
	return nil
}

// ValidateStruct runs tag validation on any struct and formats the first
// failure.
func ValidateStruct(v any) error {
	return formatValidationError(validate.Struct(v))
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := fieldPath(e.Namespace())
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gte":
			return fmt.Errorf("%s: must be greater than or equal to %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
