package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wastewise/expense-service/internal/model"
	"github.com/wastewise/expense-service/internal/normalize"
	"github.com/wastewise/expense-service/internal/repository"
	"github.com/wastewise/expense-service/internal/service"
	"github.com/wastewise/expense-service/internal/veryfi"
)

// ReceiptHandler handles HTTP requests for receipt-related operations
type ReceiptHandler struct {
	receiptService service.ReceiptService
	log            *zap.Logger
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService service.ReceiptService, log *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		log:            log,
	}
}

// ScanReceipt handles the POST /receipts/scan endpoint
// @Summary Scan a receipt image
// @Description Upload a receipt image, extract its fields and store the normalized receipt
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Param receiptImage formData file true "Receipt image file"
// @Success 201 {object} model.ReceiptResponse "Receipt stored"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 409 {object} model.ErrorResponse "Upload already in flight"
// @Failure 502 {object} model.ErrorResponse "Extraction service failure"
// @Router /v1/receipts/scan [post]
func (h *ReceiptHandler) ScanReceipt(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	file, _, err := getFormFile(c, "receiptImage")
	if err != nil {
		respondBadRequest(c, err.Error(), model.ErrorDetail{Field: "receiptImage", Message: "Receipt image is required"})
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		h.log.Error("failed to read uploaded file", zap.Error(err))
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	stored, err := h.receiptService.ScanReceipt(c.Request.Context(), userID, imageData)
	if err != nil {
		h.respondScanError(c, err, len(imageData))
		return
	}

	respondCreated(c, formatReceiptResponse(stored))
}

// respondScanError maps pipeline failures onto status codes.
func (h *ReceiptHandler) respondScanError(c *gin.Context, err error, fileSize int) {
	h.log.Warn("failed to scan receipt",
		zap.Int("file_size", fileSize),
		zap.Error(err))

	var veryfiErr *veryfi.VeryfiError
	var persistErr *repository.PersistError
	switch {
	case errors.Is(err, service.ErrUploadInFlight):
		respondConflict(c, ErrUploadInFlight)
	case errors.Is(err, repository.ErrNotAuthenticated):
		respondUnauthorized(c, "User not authenticated")
	case errors.As(err, &veryfiErr):
		respondBadGateway(c, ErrDataExtraction)
	case errors.As(err, &persistErr):
		respondServiceUnavailable(c, ErrStoreUnavailable)
	default:
		respondInternalServerError(c, ErrInternalServer)
	}
}

// CreateReceipt handles the POST /receipts endpoint
// @Summary Create a receipt from manual entry
// @Description Validate the manual entry form and store the resulting receipt
// @Tags receipts
// @Accept json
// @Produce json
// @Param entry body normalize.ManualEntry true "Manual entry fields"
// @Success 201 {object} model.ReceiptResponse "Receipt stored"
// @Failure 400 {object} model.ErrorResponse "Validation failure"
// @Router /v1/receipts [post]
func (h *ReceiptHandler) CreateReceipt(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	var entry normalize.ManualEntry
	if err := bindJSON(c, &entry); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	stored, err := h.receiptService.CreateManualReceipt(c.Request.Context(), userID, entry)
	if err != nil {
		var validationErr *normalize.ValidationError
		var persistErr *repository.PersistError
		switch {
		case errors.As(err, &validationErr):
			details := make([]model.ErrorDetail, 0, len(validationErr.Fields))
			for _, f := range validationErr.Fields {
				details = append(details, model.ErrorDetail{Field: f.Field, Message: f.Message})
			}
			respondBadRequest(c, "Invalid manual entry", details...)
		case errors.Is(err, repository.ErrNotAuthenticated):
			respondUnauthorized(c, "User not authenticated")
		case errors.As(err, &persistErr):
			respondServiceUnavailable(c, ErrStoreUnavailable)
		default:
			h.log.Error("failed to create receipt", zap.Error(err))
			respondInternalServerError(c, ErrInternalServer)
		}
		return
	}

	respondCreated(c, formatReceiptResponse(stored))
}

// ListReceipts handles the GET /receipts endpoint
// @Summary List all receipts for the user
// @Description Fetch-all per-user collection, unordered and unpaginated
// @Tags receipts
// @Produce json
// @Success 200 {object} model.ReceiptsListResponse
// @Router /v1/receipts [get]
func (h *ReceiptHandler) ListReceipts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	receipts, err := h.receiptService.ListReceipts(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotAuthenticated) {
			respondUnauthorized(c, "User not authenticated")
			return
		}
		h.log.Error("failed to list receipts", zap.Error(err))
		respondServiceUnavailable(c, ErrStoreUnavailable)
		return
	}

	resp := model.ReceiptsListResponse{
		Data:  make([]model.ReceiptResponse, 0, len(receipts)),
		Count: len(receipts),
	}
	for i := range receipts {
		resp.Data = append(resp.Data, formatReceiptResponse(&receipts[i]))
	}
	respondOK(c, resp)
}

// UploadState handles the GET /receipts/scan/state endpoint
// @Summary Report the scan pipeline state
// @Tags receipts
// @Produce json
// @Success 200 {object} model.UploadStateResponse
// @Router /v1/receipts/scan/state [get]
func (h *ReceiptHandler) UploadState(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}
	respondOK(c, model.UploadStateResponse{State: h.receiptService.UploadState(userID).String()})
}
