package stream

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackAndBackNth(t *testing.T) {
	s := New()
	_, ok := s.Back()
	assert.False(t, ok)

	s.Push(1)
	s.Push(2)
	s.Push(3)

	v, ok := s.Back()
	require.True(t, ok)
	assert.Equal(t, 3.0, v)

	v, ok = s.BackNth(2)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	_, ok = s.BackNth(3)
	assert.False(t, ok)
}

func TestMeanWindows(t *testing.T) {
	s := New()
	for _, v := range []float64{2, 4, 6, 8} {
		s.Push(v)
	}

	m, ok := s.Mean(2)
	require.True(t, ok)
	assert.Equal(t, 7.0, m)

	m, ok = s.Mean(All)
	require.True(t, ok)
	assert.Equal(t, 5.0, m)

	// A window larger than the data falls back to the full series.
	m, ok = s.Mean(100)
	require.True(t, ok)
	assert.Equal(t, 5.0, m)
}

func TestMeanNeedsTwoValues(t *testing.T) {
	s := New()
	s.Push(10)
	_, ok := s.Mean(All)
	assert.False(t, ok)
	_, ok = s.Mean(1)
	assert.False(t, ok)
}

func TestStdDevSample(t *testing.T) {
	s := New()
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Push(v)
	}
	sd, ok := s.StdDev(All)
	require.True(t, ok)
	assert.InDelta(t, 2.138, sd, 0.001)
}

func TestLogReturns(t *testing.T) {
	s := New()
	s.Push(100)
	s.Push(110)
	s.Push(-5) // non-positive values produce a zero return
	s.Push(120)

	mr, ok := s.MeanReturn(All)
	require.True(t, ok)
	assert.InDelta(t, math.Log(1.1)/4, mr, 1e-12)
}

func TestRegression(t *testing.T) {
	s := New()
	// Perfect line y = 3x + 1.
	for i := 0; i < 5; i++ {
		s.Push(float64(3*i + 1))
	}

	beta, ok := s.RegressionBeta(All)
	require.True(t, ok)
	assert.InDelta(t, 3.0, beta, 1e-9)

	next, ok := s.RegressNext(All)
	require.True(t, ok)
	assert.InDelta(t, 16.0, next, 1e-9)
}

func TestRegressionNeedsFullWindow(t *testing.T) {
	s := New()
	s.Push(1)
	s.Push(2)
	_, ok := s.RegressionBeta(10)
	assert.False(t, ok)
}
