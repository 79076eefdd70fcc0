package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxlens/ocr-tax-extraction/dto"
	"github.com/taxlens/ocr-tax-extraction/service"
)

type ReturnHandler struct {
	taxService *service.TaxService
}

func NewReturnHandler(taxService *service.TaxService) *ReturnHandler {
	return &ReturnHandler{taxService: taxService}
}

// CalculateReturn handles POST /returns/calculate.
func (h *ReturnHandler) CalculateReturn(c *gin.Context) {
	var req dto.CalculateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	result, err := h.taxService.CalculateTaxReturn(req)
	if err != nil {
		log.Printf("Return calculation rejected: %v", err)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "CALCULATION_FAILED",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
