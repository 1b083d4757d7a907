// Package duration provides a config-friendly wrapper around time.Duration.
//
// Users write durations as "30s", "2m", or "500ms" in YAML config files.
// Plain time.Duration round-trips through yaml.v3 as nanosecond integers,
// which nobody wants to read or write by hand, so config and toolchain
// timeouts use this type instead.
package duration

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with human-readable serialisation.
type Duration time.Duration

// Std returns the standard library representation.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String formats the duration the way time.Duration does ("1m30s").
func (d Duration) String() string {
	return time.Duration(d).String()
}

// Parse accepts anything time.ParseDuration does.
func Parse(s string) (Duration, error) {
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (use forms like 30s, 2m, 500ms)", s)
	}
	return Duration(v), nil
}

// UnmarshalYAML accepts "30s" style strings, plus bare integers which are
// read as seconds since that is what a human writing "timeout: 30" means.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		v, err := Parse(s)
		if err != nil {
			return err
		}
		*d = v
		return nil
	}

	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}
	return fmt.Errorf("invalid duration value at line %d", value.Line)
}

// MarshalYAML writes the human-readable form.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// MarshalJSON writes the human-readable form, quoted.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", d.String())), nil
}

// UnmarshalJSON accepts quoted duration strings.
func (d *Duration) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid duration %s (expected a quoted string like \"30s\")", data)
	}
	v, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
