package utils

import (
	"regexp"
	"strings"
)

// CategoryPortion is a typical single-serving weight for a food category.
type CategoryPortion struct {
	Category string
	Grams    int
}

// Name-substring keyed serving defaults used by the portion resolver.
// First match in declaration order wins, so the order is load-bearing:
// grains before snacks, snacks before spreads, "bar" dead last because
// it appears inside too many product names.
var categoryPortions = []CategoryPortion{
	{"cereal", 55},
	{"granola", 60},
	{"oatmeal", 40},
	{"muesli", 55},
	{"rice", 45},
	{"pasta", 85},
	{"nuts", 40},
	{"almonds", 40},
	{"peanuts", 40},
	{"seeds", 30},
	{"trail mix", 40},
	{"chips", 28},
	{"crackers", 30},
	{"cookies", 30},
	{"candy", 40},
	{"chocolate", 40},
	{"peanut butter", 32},
	{"jam", 20},
	{"honey", 21},
	{"sauce", 30},
	{"yogurt", 170},
	{"cheese", 28},
	{"milk", 244},
	{"supplement", 5},
	{"vitamin", 2},
	{"powder", 30},
	{"bar", 40},
}

// Retailer house brands whose name alone says nothing about the food.
var brandOnlyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^trader joe'?s?$`),
	regexp.MustCompile(`(?i)^kirkland$`),
	regexp.MustCompile(`(?i)^great value$`),
	regexp.MustCompile(`(?i)^365$`),
}

// IsBrandOnly reports whether a product title is just a store brand name.
func IsBrandOnly(title string) bool {
	t := strings.TrimSpace(title)
	if t == "" {
		return false
	}
	for _, p := range brandOnlyPatterns {
		if p.MatchString(t) {
			return true
		}
	}
	return false
}

// GetCategoryPortion returns the first category whose keyword appears in the
// product name, or nil when nothing matches.
func GetCategoryPortion(productName string) *CategoryPortion {
	name := strings.ToLower(strings.TrimSpace(productName))
	if name == "" {
		return nil
	}
	for i := range categoryPortions {
		if strings.Contains(name, categoryPortions[i].Category) {
			return &categoryPortions[i]
		}
	}
	return nil
}
