// Package stream holds append-only series of market values with rolling
// statistics over a suffix of the data. Streams grow monotonically for the
// session; nothing is ever removed.
package stream

import "math"

// All selects every stored value when passed as the window size n.
const All = -1

// Stream is an append-only numeric series plus its derived log-return series.
type Stream struct {
	data       []float64
	logReturns []float64
}

// New creates an empty stream.
func New() *Stream {
	return &Stream{
		data:       make([]float64, 0, 4096),
		logReturns: make([]float64, 0, 4096),
	}
}

// Push appends a value. The derived log return is zero when either neighbor
// is non-positive, so negative balances don't poison the series.
func (s *Stream) Push(value float64) {
	if len(s.data) > 0 && s.data[len(s.data)-1] > 0 && value > 0 {
		s.logReturns = append(s.logReturns, math.Log(value/s.data[len(s.data)-1]))
	} else {
		s.logReturns = append(s.logReturns, 0)
	}
	s.data = append(s.data, value)
}

// Len returns the number of stored values.
func (s *Stream) Len() int {
	return len(s.data)
}

// Back returns the most recent value.
func (s *Stream) Back() (float64, bool) {
	if len(s.data) == 0 {
		return 0, false
	}
	return s.data[len(s.data)-1], true
}

// BackNth returns the value n positions from the back (n=0 is the last).
func (s *Stream) BackNth(n int) (float64, bool) {
	if n < 0 || n > len(s.data)-1 {
		return 0, false
	}
	return s.data[len(s.data)-1-n], true
}

// Data returns the underlying series. Callers must not mutate it.
func (s *Stream) Data() []float64 {
	return s.data
}

// Mean returns the mean of the last n values (n=All for the full series).
func (s *Stream) Mean(n int) (float64, bool) {
	return mean(n, s.data)
}

// StdDev returns the sample standard deviation of the last n values.
func (s *Stream) StdDev(n int) (float64, bool) {
	return stdDev(n, s.data)
}

// MeanReturn returns the mean of the last n log returns.
func (s *Stream) MeanReturn(n int) (float64, bool) {
	return mean(n, s.logReturns)
}

// Volatility returns the sample standard deviation of the last n log returns.
func (s *Stream) Volatility(n int) (float64, bool) {
	return stdDev(n, s.logReturns)
}

// RegressionBeta returns the least-squares slope of the last n values against
// their index.
func (s *Stream) RegressionBeta(n int) (float64, bool) {
	return regressionBeta(n, s.data)
}

// RegressNext extrapolates the next value from a regression over the last n.
func (s *Stream) RegressNext(n int) (float64, bool) {
	if n == All {
		n = len(s.data)
	}
	beta, ok := regressionBeta(n, s.data)
	if !ok {
		return 0, false
	}
	suffix := s.data[len(s.data)-n:]
	var sumY float64
	for _, y := range suffix {
		sumY += y
	}
	xBar := float64(n-1) / 2
	yBar := sumY / float64(n)
	alpha := yBar - beta*xBar
	return alpha + beta*float64(n), true
}

func clampWindow(n, size int) int {
	if n == All || n > size {
		return size
	}
	return n
}

func mean(n int, v []float64) (float64, bool) {
	n = clampWindow(n, len(v))
	if n <= 1 {
		return 0, false
	}
	var total float64
	for _, x := range v[len(v)-n:] {
		total += x
	}
	return total / float64(n), true
}

func stdDev(n int, v []float64) (float64, bool) {
	n = clampWindow(n, len(v))
	m, ok := mean(n, v)
	if !ok {
		return 0, false
	}
	var total float64
	for _, x := range v[len(v)-n:] {
		total += (m - x) * (m - x)
	}
	return math.Sqrt(total / float64(n-1)), true
}

// Unlike the mean, a regression needs its full window: too little history
// yields no estimate rather than a shorter fit.
func regressionBeta(n int, v []float64) (float64, bool) {
	if n == All {
		n = len(v)
	}
	if n < 2 || len(v) < n {
		return 0, false
	}
	suffix := v[len(v)-n:]
	var xDotY, sumX, sumY, sumXSquare float64
	for i, y := range suffix {
		x := float64(i)
		xDotY += x * y
		sumX += x
		sumY += y
		sumXSquare += x * x
	}
	nf := float64(n)
	return (xDotY - sumX*sumY/nf) / (sumXSquare - sumX*sumX/nf), true
}
