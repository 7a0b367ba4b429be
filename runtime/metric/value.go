package metric

import "fmt"

// stringifyValue renders a metric's value the way the default
// metric_value_formatter<T> in the source implementation does: the value's
// natural default stringification, with no type-specific formatting rules.
func stringifyValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
