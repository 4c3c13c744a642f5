package utils

// Percent returns part/total scaled to [0,100]; 0 when total is 0.
func Percent(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * part / total
}

// ClampInt bounds v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
