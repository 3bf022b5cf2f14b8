package utils

import "math"

// PerPortion scales a per-100g nutrient value to a portion weight.
// Rounded to one decimal, matching what label math produces.
func PerPortion(per100g float64, portionGrams int) float64 {
	if per100g <= 0 || portionGrams <= 0 {
		return 0
	}
	return math.Round(per100g*float64(portionGrams)/100*10) / 10
}

// PerPortionKcal scales per-100g calories to a portion, rounded to whole kcal.
func PerPortionKcal(kcalPer100g float64, portionGrams int) float64 {
	if kcalPer100g <= 0 || portionGrams <= 0 {
		return 0
	}
	return math.Round(kcalPer100g * float64(portionGrams) / 100)
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// RoundKcal rounds calories to the nearest whole kcal.
func RoundKcal(v float64) float64 {
	return math.Round(v)
}
