package models

import (
    "time"

    "gorm.io/gorm"
)

// A memoized product record from the Open Food Facts barcode lookup.
// FetchedAt drives the 24h re-fetch window; stale rows are refreshed,
// not trusted.
type ProductRecord struct {
    gorm.Model
    Barcode        string `gorm:"type:varchar(64);uniqueIndex;not null"`
    Name           string
    Brand          string
    ServingSizeRaw string  // as printed, e.g. "1 cup (55 g)"
    ServingSizeG   float64 // parsed grams, 0 when unknown
    Calories100g   float64 // kcal per 100g, 0 when unknown
    CaloriesServ   float64 // kcal per declared serving, 0 when unknown
    FetchedAt      time.Time
}
