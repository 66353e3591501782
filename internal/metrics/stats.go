package metrics

import "math"

// Correlation strength and direction buckets.
const (
	CorrelationStrong   = "Strong"
	CorrelationModerate = "Moderate"
	CorrelationWeak     = "Weak"

	DirectionPositive = "Positive"
	DirectionNegative = "Negative"
	DirectionNone     = "None"
)

// Point is one (x, y) observation pair.
type Point struct {
	X float64
	Y float64
}

// PearsonCorrelation computes the product-moment correlation coefficient of
// the supplied pairs. Fewer than two pairs, or a degenerate series with zero
// variance, yields 0.
func PearsonCorrelation(points []Point) float64 {
	n := float64(len(points))
	if len(points) < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumX2 += p.X * p.X
		sumY2 += p.Y * p.Y
	}

	numerator := n*sumXY - sumX*sumY
	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// MovingAverage computes a trailing average over the given window, inclusive
// of the current point. The window is clipped at the start of the series, so
// early values average over fewer points.
func MovingAverage(series []float64, windowSize int) []float64 {
	if windowSize < 1 {
		windowSize = 1
	}
	out := make([]float64, len(series))
	var sum float64
	for i, v := range series {
		sum += v
		if i >= windowSize {
			sum -= series[i-windowSize]
		}
		width := windowSize
		if i+1 < windowSize {
			width = i + 1
		}
		out[i] = sum / float64(width)
	}
	return out
}

// CorrelationStrength buckets a coefficient by absolute value: Strong above
// 0.7, Moderate above 0.3, Weak otherwise.
func CorrelationStrength(r float64) string {
	switch {
	case math.Abs(r) > 0.7:
		return CorrelationStrong
	case math.Abs(r) > 0.3:
		return CorrelationModerate
	default:
		return CorrelationWeak
	}
}

// CorrelationDirection reports the sign of a coefficient.
func CorrelationDirection(r float64) string {
	switch {
	case r > 0:
		return DirectionPositive
	case r < 0:
		return DirectionNegative
	default:
		return DirectionNone
	}
}

// PercentOf returns part as a share of total in percent, or 0 when total is
// not positive.
func PercentOf(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}
