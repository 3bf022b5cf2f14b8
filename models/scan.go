package models

import (
    "time"

    "gorm.io/gorm"
)

// One logged label scan with its resolved portion.
type ScanLog struct {
    gorm.Model
    UserID      uint   `gorm:"index"`
    RequestID   string `gorm:"type:varchar(64);index"`
    Barcode     string `gorm:"type:varchar(64)"`
    ProductName string
    ImageURL    string
    OCRText     string `gorm:"type:text"`

    // Winning portion decision
    Grams      int
    Source     string `gorm:"size:16"` // database|ratio|ocr|category|fallback
    Confidence float64
    Label      string

    // Full candidate list as returned to the client, for audit/drill-down
    CandidatesJSON string `gorm:"type:text"`

    // Per-portion macro snapshot (scaled from per-100g when available)
    Calories float64
    Protein  float64
    Carbs    float64
    Fat      float64

    // User confirmation loop
    RequiresConfirmation bool
    ConfirmedGrams       int
    ConfirmedAt          *time.Time
}
