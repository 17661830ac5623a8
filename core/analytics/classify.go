package analytics

import "math"

// DefaultTarget is the rating a category must reach to count as a strength.
const DefaultTarget = 8.0

// Classify splits categories into strengths (average >= target) and
// weaknesses (average < max(0, target-1)). Categories in between are in neither.
func Classify(categories []CategoryAverage, target float64) (strengths, weaknesses []string) {
	strengths, weaknesses = make([]string, 0), make([]string, 0)
	floor := math.Max(0, target-1)
	for _, c := range categories {
		if c.Average < floor {
			weaknesses = append(weaknesses, c.Name)
		}
		if c.Average >= target {
			strengths = append(strengths, c.Name)
		}
	}
	return strengths, weaknesses
}
