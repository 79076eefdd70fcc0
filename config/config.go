package config

import (
	"os"
	"time"
)

type Config struct {
	ServerPort        string
	TesseractDataPath string
	MaxFileSize       int64

	// Vendor structured-extraction service. Empty endpoint disables the
	// vendor capability and the service falls back to local OCR only.
	// Credentials and endpoints are read once here and passed by
	// constructor; clients never consult the environment at call time.
	VendorEndpoint    string
	VendorProcessorID string
	VendorAPIKey      string

	VendorRetryAttempts int
	VendorRetryDelay    time.Duration
	VendorTimeout       time.Duration
}

func LoadConfig() *Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	tesseractDataPath := os.Getenv("TESSDATA_PREFIX")
	if tesseractDataPath == "" {
		tesseractDataPath = "/usr/share/tesseract-ocr/5/tessdata/"
	}

	return &Config{
		ServerPort:        serverPort,
		TesseractDataPath: tesseractDataPath,
		MaxFileSize:       10 * 1024 * 1024, // 10 MB

		VendorEndpoint:    os.Getenv("DOC_EXTRACTION_ENDPOINT"),
		VendorProcessorID: os.Getenv("DOC_EXTRACTION_PROCESSOR_ID"),
		VendorAPIKey:      os.Getenv("DOC_EXTRACTION_API_KEY"),

		VendorRetryAttempts: 3,
		VendorRetryDelay:    5 * time.Second,
		VendorTimeout:       60 * time.Second,
	}
}
