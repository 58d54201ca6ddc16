package handler

import (
	"fmt"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/wastewise/expense-service/internal/domain"
	"github.com/wastewise/expense-service/internal/model"
)

// currentUserID reads the user scope the auth middleware stored.
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

// getFormFile retrieves a file from multipart form data
func getFormFile(c *gin.Context, fieldName string) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := c.Request.FormFile(fieldName)
	if err != nil {
		return nil, nil, fmt.Errorf("no %s provided", fieldName)
	}
	return file, header, nil
}

// bindJSON binds JSON request body to a struct
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid JSON format: %v", err)
	}
	return nil
}

// formatAmount renders a monetary amount to two decimal places.
func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// formatReceiptResponse converts a stored receipt to its response shape.
func formatReceiptResponse(stored *domain.StoredReceipt) model.ReceiptResponse {
	resp := model.ReceiptResponse{
		ID:       stored.ID,
		Category: stored.Receipt.Category,
		Date:     stored.Receipt.Date,
		Currency: stored.Receipt.Currency,
		Items:    make([]model.ReceiptItemResponse, 0, len(stored.Receipt.Items)),
		Subtotal: formatAmount(stored.Receipt.Subtotal),
		Tax:      formatAmount(stored.Receipt.Tax),
		Total:    formatAmount(stored.Receipt.Total),
	}
	if !stored.CreatedAt.IsZero() {
		resp.CreatedAt = stored.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	for _, item := range stored.Receipt.Items {
		resp.Items = append(resp.Items, model.ReceiptItemResponse{
			Name:  item.Name,
			Price: formatAmount(item.Price),
		})
	}
	return resp
}
