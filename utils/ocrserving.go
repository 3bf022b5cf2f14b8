package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// Where an OCR serving parse came from.
const (
	OCRSourceServingSize      = "serving_size"
	OCRSourceVolumeConversion = "volume_conversion"
	OCRSourceServingContext   = "serving_context"
	OCRSourceCategoryFallback = "category_fallback"
)

// OCRServingResult is one parsed serving quantity from nutrition-panel text.
type OCRServingResult struct {
	Grams         int
	Confidence    float64
	Source        string
	ExtractedText string
	Rule          string
}

// An ordered parse rule. Order encodes real-world label reliability:
// parenthesized serving-size declarations are printed by the FDA template
// and almost never lie; loose "per portion" lines are EU-panel style and
// false-positive more easily, so they run last.
type servingRule struct {
	name       string
	re         *regexp.Regexp
	confidence float64
	source     string
}

var servingRules = []servingRule{
	{
		name:       "serving_size_paren",
		re:         regexp.MustCompile(`serving\s+size[^\n]*?\(\s*(\d+(?:\.\d+)?)\s*(g|ml)\s*\)`),
		confidence: 0.9,
		source:     OCRSourceServingSize,
	},
	{
		name:       "per_serving",
		re:         regexp.MustCompile(`per\s+(?:serving|portion)\s+(\d+(?:\.\d+)?)\s*(g|ml)\b`),
		confidence: 0.85,
		source:     OCRSourceServingContext,
	},
	{
		name:       "serving_size_inline",
		re:         regexp.MustCompile(`serving\s+size[^\n()]*?(\d+(?:\.\d+)?)\s*(g|ml)\b`),
		confidence: 0.9,
		source:     OCRSourceServingSize,
	},
	{
		name:       "per_portion_loose",
		re:         regexp.MustCompile(`per\s+portion[^\n]*?(\d+(?:\.\d+)?)\s*(g|ml)\b`),
		confidence: 0.75,
		source:     OCRSourceServingContext,
	},
}

// Lines that carry a gram amount but are NOT a serving declaration.
// Nutrient rows ("Total Fat 6g") and pack-content statements ("NET WT 240g")
// share the NNg shape and must be rejected outright, not just left unmatched.
var (
	nutrientLineRe = regexp.MustCompile(`^\s*(?:total\s+fat|saturated\s+fat|trans\s+fat|added\s+sugars?|sugars?|protein|total\s+carbohydrates?|carbohydrates?|dietary\s+fib(?:er|re)|fib(?:er|re)|sodium|salt|cholesterol|potassium)\b.*?\d`)
	netWeightRe    = regexp.MustCompile(`net\s*(?:wt\.?|weight)`)
)

// stitchRe merges a parenthesized quantity that OCR wrapped onto its own
// line back onto the line it belongs to: "Serving Size 1 cup\n(55 g)".
var stitchRe = regexp.MustCompile(`\n\s*(\(\s*\d+(?:\.\d+)?\s*(?:g|ml)\s*\))`)

func normalizeOCRText(text string) string {
	text = strings.ReplaceAll(text, " ", " ") // OCR loves NBSP
	text = strings.ReplaceAll(text, ",", "")
	text = strings.ToLower(text)
	return stitchRe.ReplaceAllString(text, " $1")
}

func isExcludedLine(line string) bool {
	return nutrientLineRe.MatchString(line) || netWeightRe.MatchString(line)
}

// ParseOCRServing extracts a serving weight in grams from raw nutrition-label
// OCR text. Rules run in priority order and the first acceptable match wins.
// "ml" matches are recognized but intentionally yield nothing: converting
// volumes needs a density table, and guessing 1ml=1g misprices oils and
// syrups, so volume servings fall through to the category estimate instead.
// When no rule matches, the product name classifies into a coarse category
// with a low-trust default weight.
func ParseOCRServing(ocrText, productName string) *OCRServingResult {
	if strings.TrimSpace(ocrText) == "" {
		return nil
	}

	normalized := normalizeOCRText(ocrText)
	lines := strings.Split(normalized, "\n")

	for _, rule := range servingRules {
		for _, line := range lines {
			m := rule.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if isExcludedLine(line) {
				continue
			}
			if m[2] == "ml" {
				// volume declaration; no density conversion here
				continue
			}
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil || value <= 0 {
				continue
			}
			return &OCRServingResult{
				Grams:         int(value + 0.5),
				Confidence:    rule.confidence,
				Source:        rule.source,
				ExtractedText: strings.TrimSpace(m[0]),
				Rule:          rule.name,
			}
		}
	}

	return fallbackFromCategory(productName)
}

// OCR-path category defaults. This table is keyed by coarse category and is
// deliberately separate from the resolver's name-keyed table in
// categories.go: the two feed different callers at different trust levels.
type ocrCategoryDefault struct {
	category string
	grams    int
}

var ocrCategoryDefaults = []ocrCategoryDefault{
	{"cereal_granola", 60},
	{"cereal", 55},
	{"chips", 28},
	{"nuts", 28},
	{"candy", 40},
	{"yogurt", 170},
	{"unknown", 30},
}

func classifyFoodText(text string) string {
	switch {
	case strings.Contains(text, "granola"):
		return "cereal_granola"
	case strings.Contains(text, "cereal"), strings.Contains(text, "flakes"), strings.Contains(text, "muesli"):
		return "cereal"
	case strings.Contains(text, "chips"), strings.Contains(text, "crisps"):
		return "chips"
	case strings.Contains(text, "nuts"), strings.Contains(text, "almond"), strings.Contains(text, "peanut"), strings.Contains(text, "cashew"):
		return "nuts"
	case strings.Contains(text, "candy"), strings.Contains(text, "chocolate"):
		return "candy"
	case strings.Contains(text, "yogurt"), strings.Contains(text, "yoghurt"):
		return "yogurt"
	default:
		return "unknown"
	}
}

func fallbackFromCategory(productName string) *OCRServingResult {
	name := strings.TrimSpace(productName)
	if name == "" {
		return nil
	}
	// retailer house-brand titles carry no food information
	if IsBrandOnly(name) {
		return nil
	}

	category := classifyFoodText(strings.ToLower(name))
	for _, d := range ocrCategoryDefaults {
		if d.category == category {
			return &OCRServingResult{
				Grams:         d.grams,
				Confidence:    0.3,
				Source:        OCRSourceCategoryFallback,
				ExtractedText: name,
				Rule:          "category_" + category,
			}
		}
	}
	return nil
}
