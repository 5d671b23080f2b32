package analytics

import "math"

// round1 rounds to one decimal place, halves away from zero (10.25 -> 10.3).
// This differs from banker's rounding, which would give 10.2.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// percent returns part/total as a percentage rounded to one decimal
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) * 100 / float64(total))
}

// Average returns sum/n rounded to one decimal, or 0 when n is 0
func Average(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return round1(float64(sum) / float64(n))
}
