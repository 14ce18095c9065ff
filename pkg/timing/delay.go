package timing

import "math"

// DelayTriple is one (min:avg:max) delay value from an annotation. Any part
// may be absent.
type DelayTriple struct {
	Min *float64 `yaml:"min" json:"min,omitempty"`
	Avg *float64 `yaml:"avg" json:"avg,omitempty"`
	Max *float64 `yaml:"max" json:"max,omitempty"`
}

// DelayPaths holds the corner delays of an arc. An annotation either gives a
// single nominal triple or separate fast and slow triples.
type DelayPaths struct {
	Fast    *DelayTriple `yaml:"fast" json:"fast,omitempty"`
	Slow    *DelayTriple `yaml:"slow" json:"slow,omitempty"`
	Nominal *DelayTriple `yaml:"nominal" json:"nominal,omitempty"`
}

// DelaySelector picks how corner delays collapse into a single arc weight.
type DelaySelector string

const (
	MinAll  DelaySelector = "min_all"
	MaxAll  DelaySelector = "max_all"
	AvgAll  DelaySelector = "avg_all"
	AvgFast DelaySelector = "avg_fast"
	AvgSlow DelaySelector = "avg_slow"
	MaxFast DelaySelector = "max_fast"
	MaxSlow DelaySelector = "max_slow"
	MinFast DelaySelector = "min_fast"
	MinSlow DelaySelector = "min_slow"
)

// DefaultDelaySelector is used when none is configured.
const DefaultDelaySelector = MaxAll

// ParseDelaySelector validates s. An empty string selects the default.
func ParseDelaySelector(s string) (DelaySelector, error) {
	if s == "" {
		return DefaultDelaySelector, nil
	}
	sel := DelaySelector(s)
	switch sel {
	case MinAll, MaxAll, AvgAll, AvgFast, AvgSlow, MaxFast, MaxSlow, MinFast, MinSlow:
		return sel, nil
	}
	return "", InvalidArgumentError("ParseDelaySelector", "selector", "unknown delay selector "+s)
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (t *DelayTriple) min() float64 {
	if t == nil {
		return 0
	}
	return valueOrZero(t.Min)
}

func (t *DelayTriple) max() float64 {
	if t == nil {
		return 0
	}
	return valueOrZero(t.Max)
}

// Reduce collapses the corner delays into one weight.
//
// A nominal triple always wins and yields max(min, max) of that triple; the
// selector only applies to fast/slow annotations. Absent values count as 0.
func (p DelayPaths) Reduce(sel DelaySelector) (float64, error) {
	if p.Nominal != nil {
		return math.Max(p.Nominal.min(), p.Nominal.max()), nil
	}

	fastMin, fastMax := p.Fast.min(), p.Fast.max()
	slowMin, slowMax := p.Slow.min(), p.Slow.max()

	switch sel {
	case MinAll:
		return math.Min(math.Min(fastMin, fastMax), math.Min(slowMin, slowMax)), nil
	case MaxAll, "":
		return math.Max(math.Max(fastMin, fastMax), math.Max(slowMin, slowMax)), nil
	case AvgAll:
		return (fastMin + fastMax + slowMin + slowMax) / 4.0, nil
	case AvgFast:
		return (fastMin + fastMax) / 2.0, nil
	case AvgSlow:
		return (slowMin + slowMax) / 2.0, nil
	case MaxFast:
		return math.Max(fastMin, fastMax), nil
	case MaxSlow:
		return math.Max(slowMin, slowMax), nil
	case MinFast:
		return math.Min(fastMin, fastMax), nil
	case MinSlow:
		return math.Min(slowMin, slowMax), nil
	}
	return 0, InvalidArgumentError("Reduce", "selector", "unknown delay selector "+string(sel))
}
