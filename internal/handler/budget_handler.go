package handler

import (
	"net/http"

	"finance_tracker/internal/model"
	"finance_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// BudgetHandler serves monthly budgets and their utilization
type BudgetHandler struct {
	service service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(s service.BudgetService) *BudgetHandler {
	return &BudgetHandler{service: s}
}

// GetBudgetStatus returns the month's status. A month without a budget is
// reported with state no_budget rather than as an error.
func (h *BudgetHandler) GetBudgetStatus(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		return
	}
	month, err := model.ParseMonthKey(c.Param("month"))
	if err != nil {
		respondError(c, err, "Failed to retrieve budget")
		return
	}

	status, err := h.service.Status(c.Request.Context(), userID, month)
	if err != nil {
		respondError(c, err, "Failed to retrieve budget")
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *BudgetHandler) SaveBudget(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		return
	}
	month, err := model.ParseMonthKey(c.Param("month"))
	if err != nil {
		respondError(c, err, "Failed to save budget")
		return
	}

	var req model.SaveBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	budget, err := h.service.SaveBudget(c.Request.Context(), userID, month, req)
	if err != nil {
		respondError(c, err, "Failed to save budget")
		return
	}
	c.JSON(http.StatusOK, budget)
}

// RegisterBudgetRoutes registers budget routes on an authenticated group
func (h *BudgetHandler) RegisterBudgetRoutes(rg *gin.RouterGroup) {
	budgetGroup := rg.Group("/budgets")
	{
		budgetGroup.GET("/:month", h.GetBudgetStatus)
		budgetGroup.PUT("/:month", h.SaveBudget)
	}
}
