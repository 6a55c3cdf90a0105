package types

import (
	"encoding/json"
	"strconv"
	"time"
)

// ValueType tags the runtime kind of a formula value.
type ValueType string

// Value type tags.
const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeDate    ValueType = "date"
	TypeArray   ValueType = "array"
	TypeObject  ValueType = "object"
	TypeNull    ValueType = "null"
)

// ISOMillis is the layout used to render timestamps: ISO-8601 with
// millisecond precision.
const ISOMillis = "2006-01-02T15:04:05.000Z07:00"

// TypeOf returns the ValueType tag for a runtime value.
func TypeOf(v any) ValueType {
	switch v.(type) {
	case nil:
		return TypeNull
	case string:
		return TypeString
	case float64, float32, int, int32, int64:
		return TypeNumber
	case bool:
		return TypeBoolean
	case time.Time:
		return TypeDate
	case []any:
		return TypeArray
	default:
		return TypeObject
	}
}

// ToFloat normalizes the numeric Go types a Context may carry into
// float64. The second return value is false for non-numeric values.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// FormatValue renders a value for display. Numbers render as decimal
// text without a trailing ".0", nil renders as the empty string, dates
// render in ISO-8601 with milliseconds, and arrays/objects render as JSON.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(ISOMillis)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
