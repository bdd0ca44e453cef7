package costfunction

import (
	"testing"

	"github.com/salcc/iGo/pkg"
	"github.com/stretchr/testify/assert"
)

type edge struct {
	length float64
	speed  float64
}

func (e edge) GetLength() float64 { return e.length }
func (e edge) GetSpeed() float64  { return e.speed }

func TestGetWeight(t *testing.T) {
	testCases := []struct {
		name string
		cf   *TimeFunction
		e    edge
		want float64
	}{
		{name: "default speed", cf: NewTimeCostFunction(), e: edge{length: 300}, want: 36.0},
		{name: "explicit speed", cf: NewTimeCostFunction(), e: edge{length: 1000, speed: 50}, want: 72.0},
		{name: "custom default", cf: NewTimeCostFunctionWithDefaultSpeed(60), e: edge{length: 100}, want: 6.0},
		{name: "non positive default falls back", cf: NewTimeCostFunctionWithDefaultSpeed(0), e: edge{length: 100}, want: 12.0},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.cf.GetWeight(tt.e), 1e-9)
		})
	}
}

func TestCongestionFactor(t *testing.T) {
	want := map[float64]float64{1: 1.0, 2: 1.14, 3: 1.70, 4: 3.32, 5: 8.44}
	for state, factor := range want {
		assert.InDelta(t, factor, CongestionFactor(state), 1e-2, "state %v", state)
	}
}

func TestEffectiveState(t *testing.T) {
	assert.Equal(t, pkg.VERY_FLUID, EffectiveState(pkg.NO_DATA))
	assert.Equal(t, pkg.DENSE, EffectiveState(pkg.DENSE))
	assert.Equal(t, pkg.CLOSED, EffectiveState(pkg.CLOSED))
}
