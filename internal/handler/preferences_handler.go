package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wastewise/expense-service/internal/model"
	"github.com/wastewise/expense-service/internal/normalize"
	"github.com/wastewise/expense-service/internal/repository"
	"github.com/wastewise/expense-service/internal/service"
)

// PreferencesHandler handles per-user settings endpoints
type PreferencesHandler struct {
	receiptService service.ReceiptService
	log            *zap.Logger
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(receiptService service.ReceiptService, log *zap.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		receiptService: receiptService,
		log:            log,
	}
}

// GetPreferences handles the GET /preferences endpoint
// @Summary Get the user's settings
// @Description Returns the stored settings, or defaults when none exist yet
// @Tags preferences
// @Produce json
// @Success 200 {object} model.PreferencesResponse
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Router /v1/preferences [get]
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	prefs, err := h.receiptService.LoadPreferences(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("failed to load preferences", zap.Error(err))
		respondServiceUnavailable(c, ErrStoreUnavailable)
		return
	}

	respondOK(c, model.PreferencesResponse{
		Budget:      prefs.Budget,
		IsDarkTheme: prefs.IsDarkTheme,
	})
}

// UpdateBudget handles the PUT /preferences/budget endpoint
// @Summary Update the user's budget
// @Description Stores the budget without touching the theme setting
// @Tags preferences
// @Accept json
// @Produce json
// @Param budget body model.BudgetRequest true "Budget value, digits only"
// @Success 200 {object} model.PreferencesResponse
// @Failure 400 {object} model.ErrorResponse "Invalid budget"
// @Router /v1/preferences/budget [put]
func (h *PreferencesHandler) UpdateBudget(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	var req model.BudgetRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	if !normalize.AcceptBudgetInput(req.Budget) {
		respondBadRequest(c, "Invalid budget", model.ErrorDetail{Field: "budget", Message: "Budget must contain digits only"})
		return
	}

	if err := h.receiptService.SaveBudget(c.Request.Context(), userID, req.Budget); err != nil {
		h.respondSaveError(c, "budget", err)
		return
	}

	h.respondCurrent(c, userID)
}

// UpdateTheme handles the PUT /preferences/theme endpoint
// @Summary Update the user's theme choice
// @Description Stores the dark theme flag without touching the budget
// @Tags preferences
// @Accept json
// @Produce json
// @Param theme body model.ThemeRequest true "Theme flag"
// @Success 200 {object} model.PreferencesResponse
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Router /v1/preferences/theme [put]
func (h *PreferencesHandler) UpdateTheme(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	var req model.ThemeRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	if err := h.receiptService.SaveTheme(c.Request.Context(), userID, req.IsDarkTheme); err != nil {
		h.respondSaveError(c, "theme", err)
		return
	}

	h.respondCurrent(c, userID)
}

func (h *PreferencesHandler) respondSaveError(c *gin.Context, field string, err error) {
	h.log.Error("failed to save preference", zap.String("field", field), zap.Error(err))
	var persistErr *repository.PersistError
	switch {
	case errors.Is(err, repository.ErrNotAuthenticated):
		respondUnauthorized(c, "User not authenticated")
	case errors.As(err, &persistErr):
		respondServiceUnavailable(c, ErrStoreUnavailable)
	default:
		respondInternalServerError(c, ErrInternalServer)
	}
}

// respondCurrent echoes the settings record after a write. A read failure
// after a successful write still reports the write as in error, since the
// caller cannot tell the phases apart.
func (h *PreferencesHandler) respondCurrent(c *gin.Context, userID string) {
	prefs, err := h.receiptService.LoadPreferences(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("failed to reload preferences", zap.Error(err))
		respondServiceUnavailable(c, ErrStoreUnavailable)
		return
	}
	respondOK(c, model.PreferencesResponse{
		Budget:      prefs.Budget,
		IsDarkTheme: prefs.IsDarkTheme,
	})
}

// RegisterPreferencesRoutes registers preferences routes
func (h *PreferencesHandler) RegisterPreferencesRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	preferences := router.Group("/preferences", authMiddleware)
	{
		preferences.GET("", h.GetPreferences)
		preferences.PUT("/budget", h.UpdateBudget)
		preferences.PUT("/theme", h.UpdateTheme)
	}
}
