package evaluator

import (
	"context"
	"math"

	"github.com/strandhq/formula/pkg/types"
)

// flattenNumbers collects the arguments of an aggregation call into one
// numeric list. Flat scalar arguments and array arguments combine:
// Sum(1, [2, 3], 4) aggregates over [1, 2, 3, 4]. Strings are coerced
// to numbers; null elements are skipped.
func flattenNumbers(args []any) ([]float64, error) {
	nums := make([]float64, 0, len(args))

	var add func(v any) error
	add = func(v any) error {
		switch val := v.(type) {
		case nil:
			return nil
		case []any:
			for _, item := range val {
				if err := add(item); err != nil {
					return err
				}
			}
			return nil
		default:
			n, err := toNumber(v, -1)
			if err != nil {
				return err
			}
			nums = append(nums, n)
			return nil
		}
	}

	for _, arg := range args {
		if err := add(arg); err != nil {
			return nil, err
		}
	}
	return nums, nil
}

func fnSum(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	nums, err := flattenNumbers(args)
	if err != nil {
		return nil, err
	}

	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return sum, nil
}

func fnAverage(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	nums, err := flattenNumbers(args)
	if err != nil {
		return nil, err
	}

	// Empty input yields 0, matching Sum/Min/Max.
	if len(nums) == 0 {
		return 0.0, nil
	}

	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return sum / float64(len(nums)), nil
}

func fnMin(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	nums, err := flattenNumbers(args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return 0.0, nil
	}

	min := nums[0]
	for _, n := range nums[1:] {
		if n < min {
			min = n
		}
	}
	return min, nil
}

func fnMax(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	nums, err := flattenNumbers(args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return 0.0, nil
	}

	max := nums[0]
	for _, n := range nums[1:] {
		if n > max {
			max = n
		}
	}
	return max, nil
}

// roundHalfAway rounds half away from zero to the given number of
// decimal places. The policy is symmetric for negatives:
// Round(2.5) = 3 and Round(-2.5) = -3.
func roundHalfAway(num float64, digits int) float64 {
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return num
	}
	shift := math.Pow(10, float64(digits))
	return math.Round(num*shift) / shift
}

func fnRound(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	num, err := toNumber(args[0], -1)
	if err != nil {
		return nil, err
	}

	digits := 0
	if len(args) == 2 {
		d, err := toNumber(args[1], -1)
		if err != nil {
			return nil, err
		}
		digits = int(d)
	}

	return roundHalfAway(num, digits), nil
}

func fnAbs(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	num, err := toNumber(args[0], -1)
	if err != nil {
		return nil, err
	}
	return math.Abs(num), nil
}
