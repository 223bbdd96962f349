package geocode

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// extractResults normalizes the provider body into a result list. A body that
// is already a list is used as is; otherwise path is followed through nested
// objects. Anything that does not end at a list yields nil.
func extractResults(body any, path string) []any {
	if arr, ok := body.([]any); ok {
		return arr
	}

	node := body

	if path != "" {
		for _, key := range strings.Split(path, ".") {
			m, ok := node.(map[string]any)
			if !ok {
				return nil
			}

			node = m[key]
		}
	}

	arr, _ := node.([]any)
	return arr
}

// coordinatesFrom reads latitude/longitude, or lat/lon, from a single result.
func coordinatesFrom(item any) (Coordinates, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return Coordinates{}, fmt.Errorf("result is %T, not an object", item)
	}

	lat, err := numberField(m, "latitude", "lat")
	if err != nil {
		return Coordinates{}, err
	}

	lon, err := numberField(m, "longitude", "lon")
	if err != nil {
		return Coordinates{}, err
	}

	return Coordinates{Latitude: lat, Longitude: lon}, nil
}

func numberField(m map[string]any, keys ...string) (float64, error) {
	for _, key := range keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}

		switch t := v.(type) {
		case float64:
			return t, nil
		case json.Number:
			return t.Float64()
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
			if err != nil {
				return 0, fmt.Errorf("field %q is not a number: %q", key, t)
			}

			return f, nil
		default:
			return 0, fmt.Errorf("field %q has unexpected type %T", key, v)
		}
	}

	return 0, fmt.Errorf("result has none of the fields %s", strings.Join(keys, ", "))
}
