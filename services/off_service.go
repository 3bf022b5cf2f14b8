package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"time"

	"gorm.io/gorm"

	"backend/models"
)

// How long a fetched barcode record stays fresh before we hit OFF again.
const offMemoTTL = 24 * time.Hour

type OFFService struct {
	db      *gorm.DB
	client  *http.Client
	baseURL string
}

// NewOFFService initializes the Open Food Facts client with its HTTP client
// and the local products table used for memoization.
func NewOFFService(db *gorm.DB) *OFFService {
	base := os.Getenv("OFF_BASE_URL")
	if base == "" {
		base = "https://world.openfoodfacts.org"
	}
	return &OFFService{
		db:      db,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: base,
	}
}

type offProductResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName string `json:"product_name"`
		Brands      string `json:"brands"`
		ServingSize string `json:"serving_size"`
		Nutriments  struct {
			EnergyKcal100g   float64 `json:"energy-kcal_100g"`
			EnergyKcalServng float64 `json:"energy-kcal_serving"`
		} `json:"nutriments"`
	} `json:"product"`
}

var servingGramsRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*g`)

// parseServingGrams pulls the gram figure out of an OFF serving_size string
// like "30 g (2 biscuits)". Returns 0 when no gram quantity is present.
func parseServingGrams(raw string) float64 {
	m := servingGramsRe.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	g, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return g
}

// LookupBarcode returns the product record for a barcode, serving from the
// local table when the cached row is newer than offMemoTTL and refreshing
// from Open Food Facts otherwise.
func (s *OFFService) LookupBarcode(barcode string) (*models.ProductRecord, error) {
	if barcode == "" {
		return nil, fmt.Errorf("empty barcode")
	}

	var rec models.ProductRecord
	err := s.db.Where("barcode = ?", barcode).First(&rec).Error
	if err == nil && time.Since(rec.FetchedAt) < offMemoTTL {
		return &rec, nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to query product cache: %w", err)
	}

	u := fmt.Sprintf("%s/api/v2/product/%s.json", s.baseURL, barcode)
	resp, err := s.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to call Open Food Facts: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Open Food Facts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open food facts API error %d: %s", resp.StatusCode, string(body))
	}

	var pr offProductResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse Open Food Facts JSON: %w", err)
	}
	if pr.Status != 1 {
		return nil, fmt.Errorf("barcode %s not found on Open Food Facts", barcode)
	}

	rec.Barcode = barcode
	rec.Name = pr.Product.ProductName
	rec.Brand = pr.Product.Brands
	rec.ServingSizeRaw = pr.Product.ServingSize
	rec.ServingSizeG = parseServingGrams(pr.Product.ServingSize)
	rec.Calories100g = pr.Product.Nutriments.EnergyKcal100g
	rec.CaloriesServ = pr.Product.Nutriments.EnergyKcalServng
	rec.FetchedAt = time.Now()

	if rec.ID == 0 {
		if err := s.db.Create(&rec).Error; err != nil {
			return nil, fmt.Errorf("failed to store product record: %w", err)
		}
	} else {
		if err := s.db.Save(&rec).Error; err != nil {
			return nil, fmt.Errorf("failed to refresh product record: %w", err)
		}
	}
	return &rec, nil
}

// ProductDataFromRecord converts a stored product record into resolver input.
func ProductDataFromRecord(r *models.ProductRecord) ProductData {
	return ProductData{
		Barcode:      r.Barcode,
		Name:         r.Name,
		ServingSizeG: r.ServingSizeG,
		Nutrition: Nutrition{
			Calories:     r.CaloriesServ,
			Calories100g: r.Calories100g,
		},
	}
}
