package services

import (
	"fmt"
	"math"
	"sort"

	"backend/utils"
)

// Provenance tags for portion candidates, also used as scoring modifiers.
const (
	SourceDatabase = "database"
	SourceRatio    = "ratio"
	SourceOCR      = "ocr"
	SourceCategory = "category"
	SourceFallback = "fallback"
)

// Nutrition carries the calorie figures the ratio strategy needs, plus the
// per-100g macros used to scale a snapshot for the resolved portion.
type Nutrition struct {
	Calories     float64 `json:"calories,omitempty"`          // kcal per declared serving
	Calories100g float64 `json:"calories_per_100g,omitempty"` // kcal per 100g
	Protein100g  float64 `json:"protein_100g,omitempty"`
	Carbs100g    float64 `json:"carbs_100g,omitempty"`
	Fat100g      float64 `json:"fat_100g,omitempty"`
}

// ProductData is the normalized, read-only input to portion resolution.
// Build it with NormalizeProduct so the field-name zoo of upstream feeds
// (OFF dumps, vision results, client payloads) is resolved once, here,
// and never inside the generators.
type ProductData struct {
	Barcode      string    `json:"barcode,omitempty"`
	Name         string    `json:"name,omitempty"`
	ServingSizeG float64   `json:"serving_size_g,omitempty"`
	Nutrition    Nutrition `json:"nutrition"`
}

// PortionCandidate is one proposed serving weight from a single strategy.
// Confidence is the strategy's base trust, before scoring adjustments.
type PortionCandidate struct {
	Grams      int     `json:"grams"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
	Label      string  `json:"label"`
	Details    string  `json:"details,omitempty"`
}

// PortionResult is the final decision for one resolution call. Confidence
// here is the winner's adjusted score, not its raw base confidence.
// Candidates is never empty: the fallback estimate always survives.
type PortionResult struct {
	Grams      int                `json:"grams"`
	Label      string             `json:"label"`
	Source     string             `json:"source"`
	Confidence float64            `json:"confidence"`
	Candidates []PortionCandidate `json:"candidates"`
}

// ---------- input normalization ----------

func pickNumber(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			switch n := v.(type) {
			case float64:
				return n
			case int:
				return float64(n)
			case int64:
				return float64(n)
			}
		}
	}
	return 0
}

func pickString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
			// barcodes sometimes arrive as JSON numbers
			if n, ok := v.(float64); ok && n > 0 {
				return fmt.Sprintf("%.0f", n)
			}
		}
	}
	return ""
}

// NormalizeProduct maps an arbitrary product payload onto ProductData.
// All accepted field aliases live here and nowhere else.
func NormalizeProduct(raw map[string]any) ProductData {
	if raw == nil {
		return ProductData{}
	}

	p := ProductData{
		Barcode:      pickString(raw, "barcode", "id"),
		Name:         pickString(raw, "name", "productName", "product_name"),
		ServingSizeG: pickNumber(raw, "serving_size_g", "servingSize", "serving_grams", "portion_grams"),
	}

	if nut, ok := raw["nutrition"].(map[string]any); ok {
		p.Nutrition = Nutrition{
			Calories:     pickNumber(nut, "calories", "energy_kcal", "calories_serving"),
			Calories100g: pickNumber(nut, "calories_per_100g", "energy_per_100g", "energy_kcal_100g"),
			Protein100g:  pickNumber(nut, "protein_100g", "proteins_100g"),
			Carbs100g:    pickNumber(nut, "carbs_100g", "carbohydrates_100g"),
			Fat100g:      pickNumber(nut, "fat_100g"),
		}
	}
	return p
}

// ---------- candidate generators ----------

func databaseCandidate(p ProductData) *PortionCandidate {
	grams := int(p.ServingSizeG + 0.5)
	if grams < 5 || grams > 500 {
		return nil
	}
	return &PortionCandidate{
		Grams:      grams,
		Confidence: 0.85,
		Source:     SourceDatabase,
		Label:      fmt.Sprintf("%dg · DB", grams),
		Details:    "declared serving size from product database",
	}
}

func ratioCandidate(p ProductData) *PortionCandidate {
	per100 := p.Nutrition.Calories100g
	perServing := p.Nutrition.Calories
	if per100 <= 0 || perServing <= 0 {
		return nil
	}
	grams := int(math.Round(100 * perServing / per100))
	if grams < 5 || grams > 300 {
		return nil
	}
	return &PortionCandidate{
		Grams:      grams,
		Confidence: 0.7,
		Source:     SourceRatio,
		Label:      fmt.Sprintf("%dg · calc", grams),
		Details:    fmt.Sprintf("%.0f kcal serving vs %.0f kcal/100g", perServing, per100),
	}
}

func ocrCandidate(ocrText, productName string) *PortionCandidate {
	parsed := utils.ParseOCRServing(ocrText, productName)
	if parsed == nil {
		return nil
	}
	return &PortionCandidate{
		Grams:      parsed.Grams,
		Confidence: parsed.Confidence,
		Source:     SourceOCR,
		Label:      fmt.Sprintf("%dg · OCR", parsed.Grams),
		Details:    fmt.Sprintf("extracted %q (%s)", parsed.ExtractedText, parsed.Rule),
	}
}

func categoryCandidate(p ProductData) *PortionCandidate {
	if utils.IsBrandOnly(p.Name) {
		return nil
	}
	match := utils.GetCategoryPortion(p.Name)
	if match == nil {
		return nil
	}
	return &PortionCandidate{
		Grams:      match.Grams,
		Confidence: 0.4,
		Source:     SourceCategory,
		Label:      fmt.Sprintf("%dg · %s", match.Grams, match.Category),
		Details:    fmt.Sprintf("estimated from %s category", match.Category),
	}
}

func fallbackCandidate() PortionCandidate {
	return PortionCandidate{
		Grams:      30,
		Confidence: 0.1,
		Source:     SourceFallback,
		Label:      "30g · est.",
		Details:    "default estimate",
	}
}

// ---------- sanitize / score / rank ----------

// sanitizeCandidate applies the physical-plausibility bounds. OCR and ratio
// values get tighter windows because parse errors and bad per-100g figures
// produce confidently wrong numbers.
func sanitizeCandidate(c PortionCandidate) bool {
	if c.Grams < 1 || c.Grams > 500 {
		return false
	}
	switch c.Source {
	case SourceOCR:
		if c.Grams < 5 || c.Grams > 250 {
			return false
		}
	case SourceRatio:
		if c.Grams < 10 || c.Grams > 300 {
			return false
		}
	}
	return true
}

var sourceBonus = map[string]float64{
	SourceDatabase: 0.10,
	SourceRatio:    0.05,
	SourceOCR:      0.00,
	SourceCategory: -0.10,
	SourceFallback: -0.20,
}

var commonPortionSizes = map[int]bool{
	15: true, 20: true, 25: true, 30: true, 40: true,
	50: true, 55: true, 80: true, 100: true,
}

func scoreCandidate(c PortionCandidate) float64 {
	score := c.Confidence
	score += sourceBonus[c.Source]
	if c.Grams < 10 || c.Grams > 200 {
		score -= 0.10
	}
	if commonPortionSizes[c.Grams] {
		score += 0.05
	}
	return math.Max(0, math.Min(1, score))
}

// ---------- service ----------

// PortionService picks a best-guess serving weight in grams from noisy,
// multi-source signals, with ranked fallback and explainable provenance.
type PortionService struct {
	cache PortionCache
}

func NewPortionService(cache PortionCache) *PortionService {
	if cache == nil {
		cache = NewPortionCache()
	}
	return &PortionService{cache: cache}
}

// Resolve runs every strategy against the same inputs and ranks the
// surviving candidates. Incomplete input is normal, not an error: strategies
// that find no usable signal simply contribute nothing, and the fallback
// estimate guarantees the result. userID is accepted for the call contract
// but takes no part in resolution yet; it is reserved for personalization.
func (s *PortionService) Resolve(product ProductData, ocrText string, userID uint) PortionResult {
	_ = userID

	key := PortionCacheKey(product, ocrText)
	if cached, ok := s.cache.Get(key); ok {
		return *cached
	}

	// fixed order; ties between equal scores resolve to the earlier source
	candidates := make([]PortionCandidate, 0, 5)
	if c := databaseCandidate(product); c != nil {
		candidates = append(candidates, *c)
	}
	if c := ratioCandidate(product); c != nil {
		candidates = append(candidates, *c)
	}
	if ocrText != "" {
		if c := ocrCandidate(ocrText, product.Name); c != nil {
			candidates = append(candidates, *c)
		}
	}
	if c := categoryCandidate(product); c != nil {
		candidates = append(candidates, *c)
	}
	candidates = append(candidates, fallbackCandidate())

	type scored struct {
		cand  PortionCandidate
		score float64
	}
	surviving := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if !sanitizeCandidate(c) {
			continue
		}
		surviving = append(surviving, scored{cand: c, score: scoreCandidate(c)})
	}

	sort.SliceStable(surviving, func(a, b int) bool {
		return surviving[a].score > surviving[b].score
	})

	ranked := make([]PortionCandidate, len(surviving))
	for i, s := range surviving {
		ranked[i] = s.cand
	}

	winner := surviving[0]
	result := PortionResult{
		Grams:      winner.cand.Grams,
		Label:      winner.cand.Label,
		Source:     winner.cand.Source,
		Confidence: winner.score,
		Candidates: ranked,
	}

	s.cache.Put(key, result)
	return result
}
