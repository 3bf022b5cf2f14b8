package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerPortion(t *testing.T) {
	assert.Equal(t, 5.5, PerPortion(10.0, 55))    // 10g/100g protein at 55g
	assert.Equal(t, 12.3, PerPortion(24.68, 50))  // rounds to one decimal
	assert.Equal(t, 0.0, PerPortion(0, 55))
	assert.Equal(t, 0.0, PerPortion(10.0, 0))
	assert.Equal(t, 0.0, PerPortion(-3, 55))
}

func TestPerPortionKcal(t *testing.T) {
	assert.Equal(t, 210.0, PerPortionKcal(382.0, 55)) // 382*0.55 = 210.1 → 210
	assert.Equal(t, 120.0, PerPortionKcal(400.0, 30))
	assert.Equal(t, 0.0, PerPortionKcal(0, 30))
	assert.Equal(t, 0.0, PerPortionKcal(500.0, 0))
}
