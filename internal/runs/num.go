// internal/runs/num.go
package runs

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Num is an optional finite number. The zero value is unavailable.
type Num struct {
	value float64
	ok    bool
}

// Some returns a present Num for finite v and None otherwise.
func Some(v float64) Num {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Num{}
	}
	return Num{value: v, ok: true}
}

// None returns the unavailable Num.
func None() Num { return Num{} }

// NumFrom is the validated-numeric constructor used when ingesting decoded
// JSON. Only finite numbers are accepted; booleans, strings and containers
// are unavailable.
func NumFrom(v any) Num {
	switch n := v.(type) {
	case float64:
		return Some(n)
	case float32:
		return Some(float64(n))
	case int:
		return Some(float64(n))
	case int64:
		return Some(float64(n))
	case int32:
		return Some(float64(n))
	case uint:
		return Some(float64(n))
	case uint64:
		return Some(float64(n))
	case uint32:
		return Some(float64(n))
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return None()
		}
		return Some(f)
	case Num:
		return n
	default:
		return None()
	}
}

// CoerceNum is the lenient variant of NumFrom used for distribution values.
// It also accepts numeric strings.
func CoerceNum(v any) Num {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return None()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return None()
		}
		return Some(f)
	}
	return NumFrom(v)
}

// Value returns the number and whether it is present.
func (n Num) Value() (float64, bool) { return n.value, n.ok }

// Valid reports whether the number is present.
func (n Num) Valid() bool { return n.ok }

// Or returns the number, or def when unavailable.
func (n Num) Or(def float64) float64 {
	if !n.ok {
		return def
	}
	return n.value
}

// Add returns n+other, unavailable if either side is.
func (n Num) Add(other Num) Num {
	if !n.ok || !other.ok {
		return None()
	}
	return Some(n.value + other.value)
}

// Map applies fn to a present value.
func (n Num) Map(fn func(float64) float64) Num {
	if !n.ok {
		return None()
	}
	return Some(fn(n.value))
}

// String renders the number for debugging; presentation uses the dashboard formatters.
func (n Num) String() string {
	if !n.ok {
		return "n/a"
	}
	return strconv.FormatFloat(n.value, 'f', -1, 64)
}

// MarshalJSON writes null for unavailable values.
func (n Num) MarshalJSON() ([]byte, error) {
	if !n.ok {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}

// UnmarshalJSON never fails: anything other than a finite number becomes None.
func (n *Num) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*n = None()
		return nil
	}
	*n = NumFrom(raw)
	return nil
}
