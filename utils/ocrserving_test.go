package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOCRServing_InlineServingSize(t *testing.T) {
	got := ParseOCRServing("Serving Size 55g\nCalories 210", "")

	require.NotNil(t, got)
	assert.Equal(t, 55, got.Grams)
	assert.Equal(t, 0.9, got.Confidence)
	assert.Equal(t, OCRSourceServingSize, got.Source)
}

func TestParseOCRServing_ParenthesizedServingSize(t *testing.T) {
	got := ParseOCRServing("Serving Size 1 cup (55 g)\nCalories 210", "")

	require.NotNil(t, got)
	assert.Equal(t, 55, got.Grams)
	assert.Equal(t, 0.9, got.Confidence)
	assert.Equal(t, "serving_size_paren", got.Rule)
}

func TestParseOCRServing_StitchesWrappedQuantity(t *testing.T) {
	// OCR splits the parenthesized amount onto its own line
	got := ParseOCRServing("Serving Size 1 cup\n(55 g)\nCalories 210", "")

	require.NotNil(t, got)
	assert.Equal(t, 55, got.Grams)
	assert.Equal(t, "serving_size_paren", got.Rule)
}

func TestParseOCRServing_NormalizesNBSPAndCommas(t *testing.T) {
	got := ParseOCRServing("Serving Size 1,5 servings 55g", "")

	require.NotNil(t, got)
	assert.Equal(t, OCRSourceServingSize, got.Source)
}

func TestParseOCRServing_RejectsNutrientLines(t *testing.T) {
	got := ParseOCRServing("Total Fat 6g\nSugar 12g\nProtein 8g", "")
	assert.Nil(t, got)
}

func TestParseOCRServing_RejectsNetWeight(t *testing.T) {
	got := ParseOCRServing("NET WT 240g\nServing Size varies", "")
	assert.Nil(t, got)
}

func TestParseOCRServing_ContextKeywordRequired(t *testing.T) {
	got := ParseOCRServing("Per serving 40g\nCalories 180", "")
	require.NotNil(t, got)
	assert.Equal(t, 40, got.Grams)
	assert.Equal(t, OCRSourceServingContext, got.Source)

	// a bare gram amount with no serving/portion keyword is not a serving
	assert.Nil(t, ParseOCRServing("Contains 40g\nTotal weight", ""))
}

func TestParseOCRServing_MilliliterMatchYieldsNothing(t *testing.T) {
	// volume declared but no density table; fall through to category
	got := ParseOCRServing("Serving Size 240ml\nCalories 120", "Plain Yogurt")

	require.NotNil(t, got)
	assert.Equal(t, OCRSourceCategoryFallback, got.Source)
	assert.Equal(t, 170, got.Grams)
}

func TestParseOCRServing_EmptyText(t *testing.T) {
	assert.Nil(t, ParseOCRServing("", "Granola Crunch"))
	assert.Nil(t, ParseOCRServing("   \n ", "Granola Crunch"))
}

func TestParseOCRServing_CategoryFallback(t *testing.T) {
	tests := []struct {
		name     string
		product  string
		grams    int
		category string
	}{
		{"granola outranks cereal", "Honey Granola Cereal", 60, "category_cereal_granola"},
		{"cereal", "Corn Flakes", 55, "category_cereal"},
		{"chips", "Potato Crisps", 28, "category_chips"},
		{"nuts", "Roasted Almond Mix", 28, "category_nuts"},
		{"candy", "Dark Chocolate", 40, "category_candy"},
		{"yogurt", "Greek Yoghurt", 170, "category_yogurt"},
		{"unknown", "Mystery Snack", 30, "category_unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOCRServing("no serving info here", tt.product)
			require.NotNil(t, got)
			assert.Equal(t, tt.grams, got.Grams)
			assert.Equal(t, 0.3, got.Confidence)
			assert.Equal(t, OCRSourceCategoryFallback, got.Source)
			assert.Equal(t, tt.category, got.Rule)
		})
	}
}

func TestParseOCRServing_BrandOnlyNameSkipsFallback(t *testing.T) {
	for _, brand := range []string{"Trader Joe's", "Trader Joes", "KIRKLAND", "Great Value", "365"} {
		assert.Nil(t, ParseOCRServing("no serving info here", brand), brand)
	}
}
