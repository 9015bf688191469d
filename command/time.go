package command

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// timeCutset is trimmed from both ends of a textual time, so editor
// copies like "00:13:281 - " or "[00:13:281]" are accepted.
const timeCutset = "[- ]"

// Millis converts a time to integer milliseconds. Integers are already
// milliseconds, floats are rounded half to even. Anything else is read as
// text: "mm:ss:ms" or a plain number of milliseconds. Malformed input
// yields 0.
func Millis(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int32:
		return int(t)
	case int64:
		return int(t)
	case float32:
		return roundMillis(float64(t))
	case float64:
		return roundMillis(t)
	case string:
		return parseMillis(t)
	case nil:
		return 0
	default:
		return parseMillis(fmt.Sprint(t))
	}
}

func parseMillis(s string) int {
	parts := strings.Split(strings.Trim(s, timeCutset), ":")
	switch len(parts) {
	case 3:
		var total int
		for i, unit := range [3]int{60000, 1000, 1} {
			n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil {
				return 0
			}
			total += n * unit
		}
		return total
	case 1:
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return 0
		}
		return roundMillis(f)
	}
	return 0
}

func roundMillis(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	r := math.RoundToEven(f)
	switch {
	case r >= math.MaxInt:
		return math.MaxInt
	case r <= math.MinInt:
		return math.MinInt
	}
	return int(r)
}
