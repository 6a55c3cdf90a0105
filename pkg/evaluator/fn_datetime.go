package evaluator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/strandhq/formula/pkg/types"
)

func fnNow(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	return fc.Now.Format(types.ISOMillis), nil
}

func fnToday(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	return fc.Now.Format("2006-01-02"), nil
}

// timestampLayouts are the accepted string layouts for date arguments,
// tried in order.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	types.ISOMillis,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// toTime coerces a value to a timestamp: time.Time values pass through,
// strings are parsed against the accepted layouts, and numbers are
// milliseconds since the Unix epoch.
func toTime(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, types.NewError(types.ErrInvalidArguments,
			fmt.Sprintf("Cannot parse %q as a date", val), -1)
	default:
		if ms, ok := types.ToFloat(v); ok {
			return time.UnixMilli(int64(ms)).UTC(), nil
		}
		return time.Time{}, types.NewError(types.ErrInvalidArguments,
			fmt.Sprintf("Cannot interpret %s as a date", types.TypeOf(v)), -1)
	}
}

func fnDuration(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	from, err := toTime(args[0])
	if err != nil {
		return nil, err
	}
	to, err := toTime(args[1])
	if err != nil {
		return nil, err
	}

	unit := "days"
	if len(args) == 3 {
		s, ok := args[2].(string)
		if !ok {
			return nil, types.NewError(types.ErrInvalidArguments,
				"Duration unit must be a string", -1)
		}
		unit = strings.ToLower(s)
	}

	// Signed: negative when the second timestamp precedes the first.
	diff := to.Sub(from)

	switch unit {
	case "milliseconds", "ms":
		return float64(diff.Milliseconds()), nil
	case "seconds":
		return diff.Seconds(), nil
	case "minutes":
		return diff.Minutes(), nil
	case "hours":
		return diff.Hours(), nil
	case "days":
		return diff.Hours() / 24, nil
	case "weeks":
		return diff.Hours() / (24 * 7), nil
	default:
		return nil, types.NewError(types.ErrInvalidArguments,
			fmt.Sprintf("Unsupported duration unit: %q", unit), -1)
	}
}
