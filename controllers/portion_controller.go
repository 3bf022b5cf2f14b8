package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type PortionController struct {
	Portions *services.PortionService
}

// constructor
func NewPortionController(ps *services.PortionService) *PortionController {
	return &PortionController{Portions: ps}
}

type ResolvePortionInput struct {
	Product map[string]any `json:"product"`
	OCRText string         `json:"ocr_text"`
}

// Resolve always answers 200 with a ranked result. Missing or partial
// product data is a normal case, not a client error; resolution degrades
// to the category and default estimates instead of failing.
func (pc *PortionController) Resolve(c *gin.Context) {
	uid := c.GetUint("userID")

	var input ResolvePortionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := services.NormalizeProduct(input.Product)
	result := pc.Portions.Resolve(product, input.OCRText, uid)

	c.JSON(http.StatusOK, result)
}
