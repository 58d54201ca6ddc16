package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wastewise/expense-service/internal/aggregate"
	"github.com/wastewise/expense-service/internal/domain"
	"github.com/wastewise/expense-service/internal/model"
	"github.com/wastewise/expense-service/internal/repository"
	"github.com/wastewise/expense-service/internal/service"
)

// AnalyticsHandler handles spending aggregation endpoints
type AnalyticsHandler struct {
	receiptService service.ReceiptService
	log            *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(receiptService service.ReceiptService, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		receiptService: receiptService,
		log:            log,
	}
}

// GetAggregate handles the GET /analytics/aggregate endpoint
// @Summary Aggregate spending for a category
// @Description Compute a time series or category breakdown over the user's receipts
// @Tags analytics
// @Produce json
// @Param category query string true "Category to aggregate"
// @Param startDate query string false "Window start (YYYY-MM-DD, defaults to one month ago)"
// @Param endDate query string false "Window end (YYYY-MM-DD, defaults to today)"
// @Success 200 {object} model.AggregationResponse
// @Failure 400 {object} model.ErrorResponse "Missing category"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Router /v1/analytics/aggregate [get]
func (h *AnalyticsHandler) GetAggregate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	filter := aggregate.Filter{
		Category:  c.Query("category"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}

	result, err := h.receiptService.QueryAggregate(c.Request.Context(), userID, filter)
	if err != nil {
		switch {
		case errors.Is(err, aggregate.ErrCategoryRequired):
			respondBadRequest(c, "Category is required", model.ErrorDetail{Field: "category", Message: "Category is required"})
		case errors.Is(err, repository.ErrNotAuthenticated):
			respondUnauthorized(c, "User not authenticated")
		default:
			h.log.Error("failed to aggregate receipts", zap.Error(err))
			respondServiceUnavailable(c, ErrStoreUnavailable)
		}
		return
	}

	respondOK(c, formatAggregationResponse(result))
}

// formatAggregationResponse converts an aggregation result into its transport shape.
func formatAggregationResponse(result *domain.AggregationResult) model.AggregationResponse {
	resp := model.AggregationResponse{
		Shape:         string(result.Shape),
		TotalSpending: formatAmount(result.TotalSpending),
		StartDate:     result.StartDate,
		EndDate:       result.EndDate,
		Series:        []model.TimeSeriesPointResponse{},
		Slices:        []model.CategorySliceResponse{},
	}
	for _, p := range result.Series {
		resp.Series = append(resp.Series, model.TimeSeriesPointResponse{
			X:      p.X,
			Date:   p.Date,
			Amount: formatAmount(p.Amount),
		})
	}
	for _, s := range result.Slices {
		resp.Slices = append(resp.Slices, model.CategorySliceResponse{
			Category: s.Category,
			Amount:   formatAmount(s.Amount),
			Color:    s.Color,
		})
	}
	return resp
}

// RegisterAnalyticsRoutes registers analytics routes
func (h *AnalyticsHandler) RegisterAnalyticsRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	analytics := router.Group("/analytics", authMiddleware)
	{
		analytics.GET("/aggregate", h.GetAggregate)
	}
}
