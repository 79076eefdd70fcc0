package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/taxlens/ocr-tax-extraction/client"
	"github.com/taxlens/ocr-tax-extraction/config"
	"github.com/taxlens/ocr-tax-extraction/handler"
	"github.com/taxlens/ocr-tax-extraction/service"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()

	// Initialize Tesseract client
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()

	// Vendor structured-extraction client; disabled unless an endpoint is
	// configured, in which case documents go through it instead of local OCR.
	vendorClient := client.NewDocAIClient(
		cfg.VendorEndpoint,
		cfg.VendorProcessorID,
		cfg.VendorAPIKey,
		cfg.VendorRetryAttempts,
		cfg.VendorRetryDelay,
		cfg.VendorTimeout,
	)
	if vendorClient.Enabled() {
		log.Printf("Vendor extraction enabled: %s (processor %s)", cfg.VendorEndpoint, cfg.VendorProcessorID)
	}

	// Initialize PDF processor
	pdfProcessor := service.NewPDFProcessor()

	// Initialize service layer
	documentService := service.NewDocumentService(tesseractClient, pdfProcessor, vendorClient)
	taxService := service.NewTaxService()

	// Initialize handler layer
	documentHandler := handler.NewDocumentHandler(documentService, taxService)
	returnHandler := handler.NewReturnHandler(taxService)

	// Setup Gin router
	router := gin.Default()

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Tax Document Extraction",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		documents := api.Group("/documents")
		{
			documents.POST("/extract", documentHandler.ExtractDocument)
		}
		filings := api.Group("/filings")
		{
			filings.POST("/process", documentHandler.ProcessFiling)
		}
		returns := api.Group("/returns")
		{
			returns.POST("/calculate", returnHandler.CalculateReturn)
		}
	}

	// Start server
	log.Printf("Starting Tax Document Extraction Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
