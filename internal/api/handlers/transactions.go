package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joannescode/etllm-pagbank/internal/extract"
	"github.com/joannescode/etllm-pagbank/internal/services"
)

// TransactionHandler serves the assembled transaction rows
type TransactionHandler struct {
	service *services.StatementService
}

// NewTransactionHandler creates a new TransactionHandler instance
func NewTransactionHandler(service *services.StatementService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// ListTransactions returns stored transactions with simple pagination
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txns, total, err := h.service.ListTransactions(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"columns":      extract.Columns(),
		"transactions": txns,
		"total":        total,
	})
}
