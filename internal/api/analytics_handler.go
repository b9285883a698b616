package api

import (
	"go-shift-planner/internal/service"
	"go-shift-planner/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// Run 执行一次统计请求。请求体见 service.AnalyticsRequest。
func (h *AnalyticsHandler) Run(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	var req service.AnalyticsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.analyticsService.Run(userID, req)
	if err != nil {
		logger.L.Error("Error running analytics", zap.Error(err), zap.Int64("userID", userID))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
