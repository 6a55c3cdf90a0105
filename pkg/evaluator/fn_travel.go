package evaluator

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/strandhq/formula/pkg/types"
)

const earthRadiusKm = 6371.0

// placeCoords extracts latitude and longitude from a place-shaped
// value: a resolved mention object or any object carrying lat/lng
// (directly or under its "properties" sub-object).
func placeCoords(v any) (lat, lng float64, err error) {
	latVal := memberLookup(v, "lat")
	if latVal == nil {
		latVal = memberLookup(v, "latitude")
	}
	lngVal := memberLookup(v, "lng")
	if lngVal == nil {
		lngVal = memberLookup(v, "longitude")
	}

	latN, latOK := types.ToFloat(latVal)
	lngN, lngOK := types.ToFloat(lngVal)
	if !latOK || !lngOK {
		return 0, 0, types.NewError(types.ErrInvalidArguments,
			fmt.Sprintf("Expected a place with lat/lng coordinates, got %s", types.TypeOf(v)), -1)
	}
	return latN, lngN, nil
}

// haversineKm computes the great-circle distance between two
// coordinates in kilometers.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func fnDistance(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	lat1, lng1, err := placeCoords(args[0])
	if err != nil {
		return nil, err
	}
	lat2, lng2, err := placeCoords(args[1])
	if err != nil {
		return nil, err
	}

	km := haversineKm(lat1, lng1, lat2, lng2)

	unit := "km"
	if len(args) == 3 {
		s, ok := args[2].(string)
		if !ok {
			return nil, types.NewError(types.ErrInvalidArguments,
				"Distance unit must be a string", -1)
		}
		unit = strings.ToLower(s)
	}

	switch unit {
	case "km":
		return km, nil
	case "mi":
		return km / 1.609344, nil
	case "m":
		return km * 1000, nil
	default:
		return nil, types.NewError(types.ErrInvalidArguments,
			fmt.Sprintf("Unsupported distance unit: %q", unit), -1)
	}
}

// fnRoute sums the great-circle legs along a sequence of places, in km.
func fnRoute(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	total := 0.0

	prevLat, prevLng, err := placeCoords(args[0])
	if err != nil {
		return nil, err
	}
	for _, wp := range args[1:] {
		lat, lng, err := placeCoords(wp)
		if err != nil {
			return nil, err
		}
		total += haversineKm(prevLat, prevLng, lat, lng)
		prevLat, prevLng = lat, lng
	}
	return total, nil
}
