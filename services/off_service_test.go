package services

import (
	"testing"

	"backend/models"

	"github.com/stretchr/testify/assert"
)

func TestParseServingGrams(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"30 g (2 biscuits)", 30},
		{"55g", 55},
		{"1 portion (42.5 g)", 42.5},
		{"240 ml", 0},
		{"varies", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseServingGrams(tt.raw), tt.raw)
	}
}

func TestProductDataFromRecord(t *testing.T) {
	rec := &models.ProductRecord{
		Barcode:      "0123456789012",
		Name:         "Corn Flakes",
		ServingSizeG: 55,
		Calories100g: 382,
		CaloriesServ: 210,
	}

	p := ProductDataFromRecord(rec)

	assert.Equal(t, "0123456789012", p.Barcode)
	assert.Equal(t, "Corn Flakes", p.Name)
	assert.Equal(t, 55.0, p.ServingSizeG)
	assert.Equal(t, 382.0, p.Nutrition.Calories100g)
	assert.Equal(t, 210.0, p.Nutrition.Calories)
}
