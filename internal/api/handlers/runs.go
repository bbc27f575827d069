package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joannescode/etllm-pagbank/internal/services"
)

// RunHandler serves extraction run history and triggers new runs
type RunHandler struct {
	service *services.StatementService
}

// NewRunHandler creates a new RunHandler instance
func NewRunHandler(service *services.StatementService) *RunHandler {
	return &RunHandler{service: service}
}

// ListRuns returns recent extraction runs
func (h *RunHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.service.ListRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// TriggerRun executes the pipeline once and returns the run summary. The
// request blocks until the run finishes; mailbox and model failures map to
// 502 with the run row carrying the error.
func (h *RunHandler) TriggerRun(c *gin.Context) {
	run, table, err := h.service.Run(c.Request.Context())
	if err != nil {
		status := http.StatusBadGateway
		if run == nil {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error(), "run": run})
		return
	}

	c.JSON(http.StatusOK, gin.H{"run": run, "rows": table.Rows})
}
