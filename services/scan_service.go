package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"backend/config"
	"backend/models"
	"backend/utils"
)

// A resolved portion below this confidence gets a confirmation nudge.
const confirmThreshold = 0.3

type ScanService struct {
	portions *PortionService
	off      *OFFService
	ocr      *OCRService
	hub      *RealtimeHub
}

// NewScanService wires the scan pipeline. ocr may be nil when AWS
// credentials are absent; image text extraction is then skipped.
func NewScanService(portions *PortionService, off *OFFService, ocr *OCRService, hub *RealtimeHub) *ScanService {
	return &ScanService{portions: portions, off: off, ocr: ocr, hub: hub}
}

type ScanRequest struct {
	Barcode     string         `json:"barcode"`
	ImageBase64 string         `json:"image_base64"`
	OCRText     string         `json:"ocr_text"`
	Product     map[string]any `json:"product"`
}

// CreateScan runs the full pipeline for one label scan: store the image,
// extract text, enrich from the barcode database, resolve the portion,
// scale the macro snapshot, persist, and notify the user's live sessions.
// Enrichment steps are all best effort; only persistence failures surface.
func (s *ScanService) CreateScan(userID uint, req ScanRequest) (*models.ScanLog, error) {
	product := NormalizeProduct(req.Product)
	if req.Barcode != "" {
		product.Barcode = req.Barcode
	}

	var imageURL string
	if req.ImageBase64 != "" {
		url, err := utils.UploadBase64ImageToS3(req.ImageBase64, "scans")
		if err != nil {
			log.Printf("scan image upload failed: %v", err)
		} else {
			imageURL = url
		}
	}

	ocrText := req.OCRText
	if ocrText == "" && req.ImageBase64 != "" && s.ocr != nil {
		text, err := s.ocr.DetectLabelText(req.ImageBase64)
		if err != nil {
			log.Printf("label text detection failed: %v", err)
		} else {
			ocrText = text
		}
	}

	if product.Barcode != "" && s.off != nil {
		rec, err := s.off.LookupBarcode(product.Barcode)
		if err != nil {
			log.Printf("barcode lookup failed for %s: %v", product.Barcode, err)
		} else {
			// fill only the gaps; client-supplied fields win
			if product.Name == "" {
				product.Name = rec.Name
			}
			if product.ServingSizeG == 0 {
				product.ServingSizeG = rec.ServingSizeG
			}
			if product.Nutrition.Calories100g == 0 {
				product.Nutrition.Calories100g = rec.Calories100g
			}
			if product.Nutrition.Calories == 0 {
				product.Nutrition.Calories = rec.CaloriesServ
			}
		}
	}

	result := s.portions.Resolve(product, ocrText, userID)

	candidatesJSON, _ := json.Marshal(result.Candidates)

	scan := &models.ScanLog{
		UserID:         userID,
		RequestID:      uuid.NewString(),
		Barcode:        product.Barcode,
		ProductName:    product.Name,
		ImageURL:       imageURL,
		OCRText:        ocrText,
		Grams:          result.Grams,
		Source:         result.Source,
		Confidence:     result.Confidence,
		Label:          result.Label,
		CandidatesJSON: string(candidatesJSON),

		Calories: utils.PerPortionKcal(product.Nutrition.Calories100g, result.Grams),
		Protein:  utils.PerPortion(product.Nutrition.Protein100g, result.Grams),
		Carbs:    utils.PerPortion(product.Nutrition.Carbs100g, result.Grams),
		Fat:      utils.PerPortion(product.Nutrition.Fat100g, result.Grams),

		RequiresConfirmation: result.Source == SourceFallback || result.Confidence < confirmThreshold,
	}

	if err := config.DB.Create(scan).Error; err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Broadcast(userID, "scan.resolved", scan)
	}
	if scan.RequiresConfirmation {
		EmitConfirmNudge(userID, scan.ID, scan.Label)
	}
	return scan, nil
}

func (s *ScanService) ListScans(userID uint, limit int) ([]models.ScanLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var scans []models.ScanLog
	err := config.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&scans).Error
	return scans, err
}

func (s *ScanService) GetScan(userID, scanID uint) (*models.ScanLog, error) {
	var scan models.ScanLog
	err := config.DB.
		Where("id = ? AND user_id = ?", scanID, userID).
		First(&scan).Error
	if err != nil {
		return nil, err // could be ErrRecordNotFound
	}
	return &scan, nil
}

func (s *ScanService) DeleteScan(userID, scanID uint) error {
	return config.DB.
		Where("id = ? AND user_id = ?", scanID, userID).
		Delete(&models.ScanLog{}).Error
}

// ConfirmScan records the user's corrected (or accepted) gram figure and
// rescales the macro snapshot to it when per-100g data is on file.
func (s *ScanService) ConfirmScan(userID, scanID uint, grams int) (*models.ScanLog, error) {
	scan, err := s.GetScan(userID, scanID)
	if err != nil {
		return nil, err
	}
	if grams <= 0 {
		grams = scan.Grams
	}

	now := time.Now()
	scan.ConfirmedGrams = grams
	scan.ConfirmedAt = &now
	scan.RequiresConfirmation = false

	// rescale the macro snapshot from the original per-gram rate
	if scan.Grams > 0 && grams != scan.Grams {
		factor := float64(grams) / float64(scan.Grams)
		scan.Calories = utils.RoundKcal(scan.Calories * factor)
		scan.Protein = utils.Round1(scan.Protein * factor)
		scan.Carbs = utils.Round1(scan.Carbs * factor)
		scan.Fat = utils.Round1(scan.Fat * factor)
	}

	if err := config.DB.Save(scan).Error; err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.Broadcast(userID, "scan.confirmed", scan)
	}
	return scan, nil
}
