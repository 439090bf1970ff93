package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ecocart/backend/internal/domain"
	"github.com/ecocart/backend/internal/usecase"
)

// uploadFields are the multipart field names accepted for image uploads
var uploadFields = []string{"file", "image"}

// errFileTooLarge is returned when an upload exceeds the configured limit
var errFileTooLarge = errors.New("uploaded file too large")

// errNoFileSelected is returned when the upload field is present but empty
var errNoFileSelected = errors.New("no file selected")

// Services bundles the use cases served over HTTP
type Services struct {
	Barcode         *usecase.BarcodeService
	OCR             *usecase.OCRService
	EcoScore        *usecase.EcoScoreService
	Recommendations *usecase.RecommendationService
	Catalog         *usecase.CatalogService
	Enrichment      *usecase.EnrichmentService
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	services       Services
	sourceNames    []string
	maxUploadBytes int64
}

// NewHandler creates a new HTTP handler. sourceNames lists the enrichment
// sources assembled at startup and is reported by the health check.
func NewHandler(services Services, sourceNames []string, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{
		services:       services,
		sourceNames:    sourceNames,
		maxUploadBytes: maxUploadBytes,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ecocart-backend",
		"version": "1.0.0",
		"sources": h.sourceNames,
		"features": gin.H{
			"ocr":        h.services.OCR != nil && h.services.OCR.Enabled(),
			"classifier": h.services.EcoScore != nil && h.services.EcoScore.Enabled(),
		},
	})
}

// ListProducts handles GET /api/products
func (h *Handler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Catalog.ListProducts(c.Request.Context()))
}

// ScanBarcode handles POST /api/barcode
func (h *Handler) ScanBarcode(c *gin.Context) {
	data, err := h.readUpload(c)
	if err != nil {
		switch {
		case errors.Is(err, errNoFileSelected):
			c.JSON(http.StatusBadRequest, barcodeMessage("No file selected."))
		case errors.Is(err, domain.ErrNoFileProvided):
			c.JSON(http.StatusBadRequest, barcodeMessage("No file uploaded."))
		case errors.Is(err, errFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, barcodeMessage("Uploaded file is too large."))
		default:
			c.JSON(http.StatusInternalServerError, barcodeMessage("Error processing image: "+err.Error()))
		}
		return
	}

	result, err := h.services.Barcode.Scan(c.Request.Context(), data)
	if err != nil {
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Barcode scan failed")
		c.JSON(http.StatusInternalServerError, barcodeMessage("Error processing image: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExtractText handles POST /api/ocr
func (h *Handler) ExtractText(c *gin.Context) {
	data, err := h.readUpload(c)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	text, err := h.services.OCR.ExtractText(c.Request.Context(), data)
	if err != nil {
		if errors.Is(err, domain.ErrOCRUnavailable) {
			respondError(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("OCR failed")
		respondError(c, http.StatusInternalServerError, "OCR processing failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

// PredictEcoScore handles POST /predict-eco-score/
func (h *Handler) PredictEcoScore(c *gin.Context) {
	data, err := h.readUpload(c)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	score, err := h.services.EcoScore.ScoreImage(c.Request.Context(), data)
	if err != nil {
		if errors.Is(err, domain.ErrClassifierUnavailable) {
			respondError(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Eco-score prediction failed")
		respondError(c, http.StatusInternalServerError, "Eco-score prediction failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"eco_score": score})
}

// RecommendRequest is the body of POST /recommend
type RecommendRequest struct {
	UserSequence []int `json:"user_sequence" binding:"required"`
}

// Recommend handles POST /recommend
func (h *Handler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	recs, err := h.services.Recommendations.Recommend(c.Request.Context(), req.UserSequence)
	if err != nil {
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Recommendation failed")
		respondError(c, statusFor(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// EnrichRequest is the body of POST /api/enrich
type EnrichRequest struct {
	Name        string   `json:"name" binding:"required"`
	Preferences []string `json:"preferences"`
}

// Enrich handles POST /api/enrich. A product rejected by the preference
// filter is returned as a null product.
func (h *Handler) Enrich(c *gin.Context) {
	var req EnrichRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	record, err := h.services.Enrichment.Enrich(c.Request.Context(), req.Name, req.Preferences)
	if err != nil {
		respondError(c, statusFor(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": record})
}

// readUpload returns the bytes of the first upload field present
func (h *Handler) readUpload(c *gin.Context) ([]byte, error) {
	var header *multipart.FileHeader
	for _, field := range uploadFields {
		fh, err := c.FormFile(field)
		if err == nil {
			header = fh
			break
		}
	}

	if header == nil {
		if form := c.Request.MultipartForm; form != nil {
			for _, field := range uploadFields {
				if _, ok := form.Value[field]; ok {
					return nil, errNoFileSelected
				}
			}
		}
		return nil, domain.ErrNoFileProvided
	}

	if header.Filename == "" {
		return nil, errNoFileSelected
	}
	if header.Size > h.maxUploadBytes {
		return nil, errFileTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > h.maxUploadBytes {
		return nil, errFileTooLarge
	}
	return data, nil
}
