package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCategoryPortion(t *testing.T) {
	tests := []struct {
		product  string
		category string
		grams    int
	}{
		{"Mixed Nuts Premium", "nuts", 40},
		{"Crunchy Granola Clusters", "granola", 60},
		{"Whole Grain Cereal", "cereal", 55},
		{"Sea Salt Chips", "chips", 28},
		{"Greek Yogurt Vanilla", "yogurt", 170},
		{"Protein Powder Vanilla", "powder", 30},
		{"Energy Bar Original", "bar", 40},
	}
	for _, tt := range tests {
		t.Run(tt.product, func(t *testing.T) {
			got := GetCategoryPortion(tt.product)
			require.NotNil(t, got)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.grams, got.Grams)
		})
	}
}

func TestGetCategoryPortion_DeclarationOrderWins(t *testing.T) {
	// "granola bar" contains both keywords; granola is declared first
	got := GetCategoryPortion("Chewy Granola Bar")
	require.NotNil(t, got)
	assert.Equal(t, "granola", got.Category)
}

func TestGetCategoryPortion_NoMatch(t *testing.T) {
	assert.Nil(t, GetCategoryPortion("Unknown Food Product"))
	assert.Nil(t, GetCategoryPortion(""))
	assert.Nil(t, GetCategoryPortion("   "))
}

func TestIsBrandOnly(t *testing.T) {
	assert.True(t, IsBrandOnly("Trader Joe's"))
	assert.True(t, IsBrandOnly("trader joes"))
	assert.True(t, IsBrandOnly("Kirkland"))
	assert.True(t, IsBrandOnly("GREAT VALUE"))
	assert.True(t, IsBrandOnly("365"))

	// brand plus a food word carries signal again
	assert.False(t, IsBrandOnly("Kirkland Mixed Nuts"))
	assert.False(t, IsBrandOnly("Granola"))
	assert.False(t, IsBrandOnly(""))
}
