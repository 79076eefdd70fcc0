package service

import (
	"log"

	"github.com/shopspring/decimal"
	"github.com/taxlens/ocr-tax-extraction/dto"
	"github.com/taxlens/ocr-tax-extraction/utils"
)

// TaxService is the mapping and calculation facade exposed to handlers.
type TaxService struct{}

func NewTaxService() *TaxService {
	return &TaxService{}
}

// MapExtractedDataToIncomeEntries aggregates all forms of one filing into
// income line items, the total withheld tax, and the resolved tax year.
func (s *TaxService) MapExtractedDataToIncomeEntries(forms []dto.ExtractedForm) dto.MappingResult {
	result := utils.MapToLineItems(forms)
	log.Printf("Mapped %d forms into %d line items, withheld %s, tax year %d",
		len(forms), len(result.LineItems), result.WithheldTax, result.TaxYear)
	return result
}

// CalculateTaxReturn computes the federal return summary from aggregate
// inputs.
func (s *TaxService) CalculateTaxReturn(req dto.CalculateReturnRequest) (dto.TaxComputationResult, error) {
	return utils.ComputeReturn(req.TotalIncome, req.WithheldTax, req.FilingStatus, req.ItemizedDeduction)
}

// TotalIncome sums the line items of a mapping result.
func (s *TaxService) TotalIncome(items []dto.IncomeLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}
