package retrieval

import "math"

// Confidence maps an average distance to [0, 1]: 1 / (1 + avg), clamped.
func Confidence(avgDistance float64) float64 {
	c := 1 / (1 + avgDistance)
	switch {
	case math.IsNaN(c):
		return 0
	case c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

// Round2 rounds to two decimals for presentation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Floor2 truncates to two decimals. Rejections report the floored value so
// the reported number never reaches the threshold it failed.
func Floor2(v float64) float64 {
	return math.Floor(v*100) / 100
}

func averageDistance(distances []float64) float64 {
	var sum float64
	for _, d := range distances {
		sum += d
	}
	return sum / float64(len(distances))
}
