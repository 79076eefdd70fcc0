package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/taxlens/ocr-tax-extraction/client"
	"github.com/taxlens/ocr-tax-extraction/dto"
	"github.com/taxlens/ocr-tax-extraction/utils"
)

// DocumentService runs the per-document pipeline: text acquisition,
// classification, field extraction. Each invocation is self-contained; the
// mapper barrier across a whole filing lives in TaxService.
type DocumentService struct {
	tesseractClient *client.TesseractClient
	pdfProcessor    PDFProcessor
	vendorClient    *client.DocAIClient
}

func NewDocumentService(
	tesseractClient *client.TesseractClient,
	pdfProcessor PDFProcessor,
	vendorClient *client.DocAIClient,
) *DocumentService {
	return &DocumentService{
		tesseractClient: tesseractClient,
		pdfProcessor:    pdfProcessor,
		vendorClient:    vendorClient,
	}
}

// acquired is the output of the Text Acquisition stage.
type acquired struct {
	text     string
	entities []dto.Entity
	qrHint   string

	// highTrust marks text that came from a PDF's embedded text layer
	// rather than OCR.
	highTrust bool
}

// ExtractDataFromTaxForm processes one uploaded document into an
// ExtractedForm. Field absence is normal; the only fatal outcomes are an
// acquisition failure and a document with no recoverable text.
func (s *DocumentService) ExtractDataFromTaxForm(ctx context.Context, data []byte, meta dto.DocumentMeta) (dto.ExtractedForm, error) {
	acq, err := s.acquireText(ctx, data, meta)
	if err != nil {
		return dto.ExtractedForm{}, err
	}
	if strings.TrimSpace(acq.text) == "" && len(acq.entities) == 0 {
		return dto.ExtractedForm{}, dto.ErrEmptyDocument
	}

	formType := s.classify(acq, meta)

	form := utils.ExtractFields(formType, acq.text, acq.entities)
	form.DocumentID = uuid.New()
	if acq.highTrust && form.Confidence == utils.ConfidenceTextMining {
		form.Confidence = utils.ConfidenceEmbeddedText
	}

	log.Printf("Extracted %s from %s: %d amounts, confidence %.2f",
		form.FormType, meta.Filename, len(form.Amounts), form.Confidence)
	return form, nil
}

func (s *DocumentService) classify(acq acquired, meta dto.DocumentMeta) dto.FormType {
	hint := meta.FormTypeHint
	if hint == "" {
		hint = meta.Filename
	}
	formType := utils.ClassifyForm(acq.text, hint)

	// Some payroll providers stamp the form code into a QR on the page;
	// use it only when nothing else matched.
	if formType == dto.FormTypeUnknown && acq.qrHint != "" {
		formType = utils.ClassifyForm("", acq.qrHint)
	}
	return formType
}

// acquireText produces raw text (and, from the vendor capability, typed
// entities) for a document. With a vendor configured its failure is fatal;
// the local path tries the embedded PDF text layer first and falls back to
// OCR over extracted page images.
func (s *DocumentService) acquireText(ctx context.Context, data []byte, meta dto.DocumentMeta) (acquired, error) {
	if s.vendorClient != nil && s.vendorClient.Enabled() {
		result, err := s.vendorClient.ProcessDocument(ctx, data, mimeTypeFor(meta.Filename))
		if err != nil {
			return acquired{}, err
		}
		return acquired{text: result.Text, entities: result.Entities}, nil
	}

	if isPDF(meta.Filename) {
		return s.acquireFromPDF(data, meta)
	}
	return s.acquireFromImage(data, meta)
}

func (s *DocumentService) acquireFromPDF(data []byte, meta dto.DocumentMeta) (acquired, error) {
	var acq acquired

	text, err := s.pdfProcessor.ExtractText(data, meta.Password)
	if err != nil {
		log.Printf("PDF text extraction failed for %s: %v", meta.Filename, err)
	}

	// A weak text layer means a scanned form; OCR the page images instead.
	if evaluateTextQuality(text) >= 50 {
		acq.text = text
		acq.highTrust = true
		return acq, nil
	}

	images, imgErr := s.pdfProcessor.ExtractImages(data, meta.Password)
	if imgErr != nil || len(images) == 0 {
		if text != "" {
			// Keep whatever thin text layer we got.
			acq.text = text
			return acq, nil
		}
		return acquired{}, &dto.AcquisitionError{Capability: "pdf", Attempts: 1, Err: fmt.Errorf("no text layer and image extraction failed: %v", imgErr)}
	}

	var combined strings.Builder
	for _, img := range images {
		if acq.qrHint == "" {
			acq.qrHint = decodeQRHint(img)
		}

		tempImgFile, err := saveImageToTempFile(img)
		if err != nil {
			log.Printf("Failed to save temporary image for OCR: %v", err)
			continue
		}

		pageText, _, ocrErr := s.tesseractClient.ExtractTextAndQuality(tempImgFile)
		os.Remove(tempImgFile)
		if ocrErr != nil {
			log.Printf("OCR failed for a page in %s: %v", meta.Filename, ocrErr)
			continue
		}

		combined.WriteString(pageText)
		combined.WriteString("\n")
	}

	if combined.Len() > 0 {
		acq.text = combined.String()
	} else {
		acq.text = text
	}
	return acq, nil
}

func (s *DocumentService) acquireFromImage(data []byte, meta dto.DocumentMeta) (acquired, error) {
	var acq acquired

	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		acq.qrHint = decodeQRHint(img)
	}

	text, _, err := s.tesseractClient.ExtractTextFromBytes(data, meta.Filename)
	if err != nil {
		return acquired{}, &dto.AcquisitionError{Capability: "tesseract", Attempts: 1, Err: err}
	}
	acq.text = text
	return acq, nil
}

// ProcessFiling extracts every document of one filing. Documents are
// independent, so they run concurrently; the caller maps line items only
// after all of them have finished.
func (s *DocumentService) ProcessFiling(ctx context.Context, files map[string][]byte, metadata dto.UploadMetadata) ([]dto.ExtractedForm, error) {
	forms := make([]dto.ExtractedForm, len(metadata.Documents))
	errs := make([]error, len(metadata.Documents))

	var wg sync.WaitGroup
	for i, docMeta := range metadata.Documents {
		data, ok := files[docMeta.Filename]
		if !ok {
			log.Printf("Warning: file %s mentioned in metadata not found in upload", docMeta.Filename)
			errs[i] = fmt.Errorf("file %s mentioned in metadata not found in upload", docMeta.Filename)
			continue
		}

		wg.Add(1)
		go func(i int, meta dto.DocumentMeta, data []byte) {
			defer wg.Done()
			// A panic here would escape gin's recovery middleware and take
			// down the process; turn it into a per-document failure.
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("failed to process %s: %v", meta.Filename, r)
				}
			}()
			form, err := s.ExtractDataFromTaxForm(ctx, data, meta)
			if err != nil {
				errs[i] = fmt.Errorf("failed to process %s: %w", meta.Filename, err)
				return
			}
			forms[i] = form
		}(i, docMeta, data)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return forms, nil
}

// decodeQRHint tries to read a QR code off a page image. Absence is the
// normal case.
func decodeQRHint(img image.Image) string {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return ""
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return ""
	}
	return result.GetText()
}

// saveImageToTempFile saves an image.Image to a temporary PNG file.
func saveImageToTempFile(img image.Image) (string, error) {
	tempFile, err := os.CreateTemp("", "ocr-img-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp image file: %w", err)
	}
	defer tempFile.Close()

	if err := png.Encode(tempFile, img); err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("failed to encode image to PNG: %w", err)
	}

	return tempFile.Name(), nil
}

func isPDF(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

func mimeTypeFor(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".tif"), strings.HasSuffix(lower, ".tiff"):
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}

// evaluateTextQuality scores extracted text 0-100 on length and tax-form
// keyword presence, to decide whether the embedded PDF text layer is worth
// trusting over OCR.
func evaluateTextQuality(text string) float64 {
	if text == "" {
		return 0.0
	}

	score := 0.0

	textLen := len(strings.TrimSpace(text))
	if textLen > 500 {
		score += 40.0
	} else if textLen > 100 {
		score += 20.0
	} else if textLen > 20 {
		score += 10.0
	}

	keywords := []string{
		"wages", "tax", "federal", "employer", "employee",
		"compensation", "income", "withheld", "1099", "w-2",
	}

	textLower := strings.ToLower(text)
	keywordCount := 0
	for _, keyword := range keywords {
		if strings.Contains(textLower, keyword) {
			keywordCount++
		}
	}

	score += float64(keywordCount) * 6.67

	if score > 100.0 {
		score = 100.0
	}

	return score
}
