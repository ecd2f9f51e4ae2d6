// Package points holds the point accounting rules for matchings.
// All computations are pure; callers persist the results.
package points

import "math"

// Compute converts a duration and an hourly rate into points,
// rounding half-up to the nearest whole point.
func Compute(durationMinutes, hourlyRate int) int {
	return int(math.Round(float64(durationMinutes) / 60.0 * float64(hourlyRate)))
}

// GroupTotal is the upfront budget for a group offer: the per-cast figure at
// the platform base rate, multiplied by the requested head count. The budget
// is fixed at creation time regardless of how many casts ultimately accept.
func GroupTotal(durationMinutes, baseHourlyRate, requestedCastCount int) int {
	return Compute(durationMinutes, baseHourlyRate) * requestedCastCount
}
