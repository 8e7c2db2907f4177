package handler

import (
	"fmt"
	"net/http"

	"finance_tracker/internal/model"
	"finance_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// TransactionHandler handles transaction related requests
type TransactionHandler struct {
	service service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(s service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		return
	}

	var req model.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	transaction, err := h.service.CreateTransaction(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create transaction")
		return
	}
	c.JSON(http.StatusCreated, transaction)
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		return
	}

	query, err := parseListQuery(c)
	if err != nil {
		respondError(c, err, "Failed to retrieve transactions")
		return
	}

	page, err := h.service.ListTransactions(c.Request.Context(), userID, query)
	if err != nil {
		respondError(c, err, "Failed to retrieve transactions")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		return
	}
	transactionID, ok := parseIDParam(c)
	if !ok {
		return
	}

	transaction, err := h.service.GetTransactionByID(c.Request.Context(), transactionID, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		return
	}
	transactionID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req model.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	transaction, err := h.service.UpdateTransaction(c.Request.Context(), transactionID, userID, req)
	if err != nil {
		respondError(c, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		return
	}
	transactionID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteTransaction(c.Request.Context(), transactionID, userID); err != nil {
		respondError(c, err, "Failed to delete transaction")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

func (h *TransactionHandler) ExportTransactionsCSV(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		return
	}

	query, err := parseListQuery(c)
	if err != nil {
		respondError(c, err, "Failed to export transactions")
		return
	}

	csvBuffer, err := h.service.ExportTransactionsCSV(c.Request.Context(), userID, query)
	if err != nil {
		respondError(c, err, "Failed to export transactions")
		return
	}

	fileName := fmt.Sprintf("transactions_%s.csv", userID.String()[:8])
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", csvBuffer.Bytes())
}

func parseListQuery(c *gin.Context) (model.ListTransactionsQuery, error) {
	var query model.ListTransactionsQuery
	var err error
	if query.Range, err = parseRange(c); err != nil {
		return query, err
	}
	if query.Kind, err = parseKindQuery(c, "kind"); err != nil {
		return query, err
	}
	if query.Page, err = parseIntQuery(c, "page"); err != nil {
		return query, err
	}
	if query.PageSize, err = parseIntQuery(c, "page_size"); err != nil {
		return query, err
	}
	query.Search = c.Query("search")
	query.Tags = parseTagsQuery(c)
	return query, nil
}

// RegisterTransactionRoutes registers transaction routes on an authenticated group
func (h *TransactionHandler) RegisterTransactionRoutes(rg *gin.RouterGroup) {
	txGroup := rg.Group("/transactions")
	{
		txGroup.POST("", h.CreateTransaction)
		txGroup.GET("", h.ListTransactions)
		txGroup.GET("/export/csv", h.ExportTransactionsCSV)
		txGroup.GET("/:id", h.GetTransactionByID)
		txGroup.PUT("/:id", h.UpdateTransaction)
		txGroup.DELETE("/:id", h.DeleteTransaction)
	}
}
