package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/mousetrap/internal/types"
)

// ParseOffsets parses the offsets value from various shorthand formats.
// Edges that are not mentioned keep the values from base.
// Supported formats:
//   - 10 (number) or "10px" (string) -> all edges
//   - [34, 12] (array) -> vertical=34, horizontal=12
//   - [34, 12, 12, 12] (array) -> top, right, bottom, left (CSS order)
//   - {top: 34, bottom: 12} (object) -> explicit per-edge
func ParseOffsets(raw interface{}, base types.Offsets) (types.Offsets, error) {
	if raw == nil {
		return base, nil
	}

	switch v := raw.(type) {
	case int, float64, string:
		px, err := parseOffsetValue(v)
		if err != nil {
			return base, err
		}
		return types.Offsets{Top: px, Bottom: px, Left: px, Right: px}, nil

	case []interface{}:
		return parseOffsetsArray(v)

	case map[string]interface{}:
		return parseOffsetsObject(v, base)
	}

	return base, fmt.Errorf("invalid offsets format: %T", raw)
}

// parseOffsetValue handles int, float64 (JSON numbers) or a "Npx" string
func parseOffsetValue(v interface{}) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case float64:
		if val != float64(int(val)) {
			return 0, fmt.Errorf("offset must be a whole number of pixels: %v", val)
		}
		return int(val), nil
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(val), "px")
		px, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("invalid offset value: %s", val)
		}
		return px, nil
	default:
		return 0, fmt.Errorf("invalid offset value type: %T", v)
	}
}

// parseOffsetsArray handles [vert, horiz] or [top, right, bottom, left]
func parseOffsetsArray(arr []interface{}) (types.Offsets, error) {
	values := make([]int, len(arr))
	for i, v := range arr {
		px, err := parseOffsetValue(v)
		if err != nil {
			return types.Offsets{}, fmt.Errorf("offsets array index %d: %w", i, err)
		}
		values[i] = px
	}

	switch len(values) {
	case 2: // [vertical, horizontal]
		return types.Offsets{
			Top:    values[0],
			Bottom: values[0],
			Left:   values[1],
			Right:  values[1],
		}, nil
	case 4: // [top, right, bottom, left] (CSS order)
		return types.Offsets{
			Top:    values[0],
			Right:  values[1],
			Bottom: values[2],
			Left:   values[3],
		}, nil
	default:
		return types.Offsets{}, fmt.Errorf("offsets array must have 2 or 4 values, got %d", len(values))
	}
}

// parseOffsetsObject handles {top: N, right: N, bottom: N, left: N}
func parseOffsetsObject(obj map[string]interface{}, base types.Offsets) (types.Offsets, error) {
	offsets := base

	for key, val := range obj {
		px, err := parseOffsetValue(val)
		if err != nil {
			return base, fmt.Errorf("offsets.%s: %w", key, err)
		}

		switch key {
		case "top":
			offsets.Top = px
		case "right":
			offsets.Right = px
		case "bottom":
			offsets.Bottom = px
		case "left":
			offsets.Left = px
		default:
			return base, fmt.Errorf("unknown offsets key: %s", key)
		}
	}

	return offsets, nil
}
