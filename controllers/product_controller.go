package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	OFF *services.OFFService
}

// constructor
func NewProductController(off *services.OFFService) *ProductController {
	return &ProductController{OFF: off}
}

func (pc *ProductController) GetByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")

	rec, err := pc.OFF.LookupBarcode(barcode)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barcode":          rec.Barcode,
		"name":             rec.Name,
		"brand":            rec.Brand,
		"serving_size_raw": rec.ServingSizeRaw,
		"serving_size_g":   rec.ServingSizeG,
		"calories_100g":    rec.Calories100g,
		"calories_serving": rec.CaloriesServ,
		"fetched_at":       rec.FetchedAt,
	})
}
