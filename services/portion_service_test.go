package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPortionService() *PortionService {
	return NewPortionService(NoopPortionCache{})
}

func TestResolve_Deterministic(t *testing.T) {
	svc := newTestPortionService()
	product := ProductData{
		Name:         "Corn Flakes",
		ServingSizeG: 55,
		Nutrition:    Nutrition{Calories: 210, Calories100g: 382},
	}

	first := svc.Resolve(product, "Serving Size 55g", 1)
	second := svc.Resolve(product, "Serving Size 55g", 1)

	assert.Equal(t, first, second)
}

func TestResolve_FallbackGuarantee(t *testing.T) {
	svc := newTestPortionService()

	result := svc.Resolve(ProductData{}, "", 0)

	require.NotEmpty(t, result.Candidates)
	assert.Greater(t, result.Grams, 0)
	assert.Equal(t, SourceFallback, result.Source)
	assert.Equal(t, "30g · est.", result.Label)
}

func TestResolve_DatabaseWinsWhenAllPresent(t *testing.T) {
	svc := newTestPortionService()
	product := ProductData{
		Name:         "Corn Flakes",
		ServingSizeG: 55,
		// ratio also implies 55g: 210 / 382 per 100g
		Nutrition: Nutrition{Calories: 210, Calories100g: 382},
	}

	result := svc.Resolve(product, "Serving Size 55g\nCalories 210", 0)

	assert.Equal(t, SourceDatabase, result.Source)
	assert.Equal(t, 55, result.Grams)
	assert.Equal(t, "55g · DB", result.Label)
}

func TestResolve_RatioOnly(t *testing.T) {
	svc := newTestPortionService()
	product := ProductData{
		Nutrition: Nutrition{Calories: 160, Calories100g: 400},
	}

	result := svc.Resolve(product, "", 0)

	assert.Equal(t, SourceRatio, result.Source)
	assert.Equal(t, 40, result.Grams)
	assert.Equal(t, "40g · calc", result.Label)
	assert.InDelta(t, 0.8, result.Confidence, 1e-9)
}

func TestResolve_OCRBeatsCategory(t *testing.T) {
	svc := newTestPortionService()
	product := ProductData{Name: "Cereal"}

	result := svc.Resolve(product, "Serving Size 30g\nCalories 110", 0)

	assert.Equal(t, SourceOCR, result.Source)
	assert.Equal(t, 30, result.Grams)
	assert.Equal(t, "30g · OCR", result.Label)
	assert.InDelta(t, 0.95, result.Confidence, 1e-9)
}

func TestResolve_CategoryFallback(t *testing.T) {
	svc := newTestPortionService()
	product := ProductData{Name: "Mixed Nuts Premium"}

	result := svc.Resolve(product, "", 0)

	assert.Equal(t, SourceCategory, result.Source)
	assert.Equal(t, 40, result.Grams)
	assert.Equal(t, "40g · nuts", result.Label)
}

func TestResolve_UnknownFoodFallsBack(t *testing.T) {
	svc := newTestPortionService()
	product := ProductData{Name: "Unknown Food Product"}

	result := svc.Resolve(product, "", 0)

	assert.Equal(t, SourceFallback, result.Source)
	assert.Equal(t, 30, result.Grams)
	assert.Equal(t, "30g · est.", result.Label)
}

func TestResolve_DatabaseBoundsRejection(t *testing.T) {
	svc := newTestPortionService()
	product := ProductData{ServingSizeG: 600}

	result := svc.Resolve(product, "", 0)

	for _, c := range result.Candidates {
		assert.NotEqual(t, SourceDatabase, c.Source)
		assert.LessOrEqual(t, c.Grams, 500)
	}
	assert.Equal(t, SourceFallback, result.Source)
}

func TestScoreCandidate_CommonSizeBonus(t *testing.T) {
	in := PortionCandidate{Grams: 40, Confidence: 0.7, Source: SourceRatio}
	out := PortionCandidate{Grams: 43, Confidence: 0.7, Source: SourceRatio}

	assert.GreaterOrEqual(t, scoreCandidate(in), scoreCandidate(out))
	assert.InDelta(t, 0.05, scoreCandidate(in)-scoreCandidate(out), 1e-9)
}

func TestScoreCandidate_ClampsToUnitInterval(t *testing.T) {
	high := PortionCandidate{Grams: 55, Confidence: 0.95, Source: SourceDatabase}
	low := PortionCandidate{Grams: 300, Confidence: 0.1, Source: SourceFallback}

	assert.Equal(t, 1.0, scoreCandidate(high))
	assert.Equal(t, 0.0, scoreCandidate(low))
}

func TestSanitizeCandidate_SourceBounds(t *testing.T) {
	tests := []struct {
		name string
		c    PortionCandidate
		ok   bool
	}{
		{"global low", PortionCandidate{Grams: 0, Source: SourceDatabase}, false},
		{"global high", PortionCandidate{Grams: 501, Source: SourceDatabase}, false},
		{"database within global", PortionCandidate{Grams: 450, Source: SourceDatabase}, true},
		{"ocr below five", PortionCandidate{Grams: 4, Source: SourceOCR}, false},
		{"ocr above 250", PortionCandidate{Grams: 251, Source: SourceOCR}, false},
		{"ocr in range", PortionCandidate{Grams: 250, Source: SourceOCR}, true},
		{"ratio below ten", PortionCandidate{Grams: 9, Source: SourceRatio}, false},
		{"ratio above 300", PortionCandidate{Grams: 301, Source: SourceRatio}, false},
		{"fallback", PortionCandidate{Grams: 30, Source: SourceFallback}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, sanitizeCandidate(tt.c))
		})
	}
}

func TestResolve_CandidatesSortedByScore(t *testing.T) {
	svc := newTestPortionService()
	product := ProductData{
		Name:         "Granola Clusters",
		ServingSizeG: 60,
		Nutrition:    Nutrition{Calories: 240, Calories100g: 480},
	}

	result := svc.Resolve(product, "", 0)

	require.GreaterOrEqual(t, len(result.Candidates), 3)
	prev := 2.0
	for _, c := range result.Candidates {
		s := scoreCandidate(c)
		assert.LessOrEqual(t, s, prev)
		prev = s
	}
	assert.Equal(t, SourceDatabase, result.Source)
}

func TestNormalizeProduct_FieldAliases(t *testing.T) {
	p := NormalizeProduct(map[string]any{
		"productName": "Corn Flakes",
		"servingSize": float64(55),
		"nutrition": map[string]any{
			"calories":        float64(210),
			"energy_per_100g": float64(382),
		},
	})

	assert.Equal(t, "Corn Flakes", p.Name)
	assert.Equal(t, 55.0, p.ServingSizeG)
	assert.Equal(t, 210.0, p.Nutrition.Calories)
	assert.Equal(t, 382.0, p.Nutrition.Calories100g)
}

func TestNormalizeProduct_FirstPresentWins(t *testing.T) {
	p := NormalizeProduct(map[string]any{
		"serving_size_g": float64(55),
		"servingSize":    float64(40),
	})
	assert.Equal(t, 55.0, p.ServingSizeG)
}

func TestNormalizeProduct_NilAndEmpty(t *testing.T) {
	assert.Equal(t, ProductData{}, NormalizeProduct(nil))
	assert.Equal(t, ProductData{}, NormalizeProduct(map[string]any{}))
}
