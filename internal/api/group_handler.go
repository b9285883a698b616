package api

import (
	"go-shift-planner/internal/service"
	"go-shift-planner/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GroupHandler struct {
	calendarService *service.CalendarService
}

func NewGroupHandler(calendarService *service.CalendarService) *GroupHandler {
	return &GroupHandler{
		calendarService: calendarService,
	}
}

type groupRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Color string `json:"color"`
}

func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	calendarID, ok := getIDParam(c, "calendar_id")
	if !ok {
		return
	}

	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.L.Warn("Failed to bind CreateGroup request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Color == "" {
		req.Color = "badge-color-1"
	}

	group, err := h.calendarService.CreateGroup(calendarID, userID, req.Name, req.Color)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"group": group})
}

func (h *GroupHandler) ListGroups(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	calendarID, ok := getIDParam(c, "calendar_id")
	if !ok {
		return
	}

	groups, err := h.calendarService.ListGroups(calendarID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	groupID, ok := getIDParam(c, "group_id")
	if !ok {
		return
	}

	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	group, err := h.calendarService.UpdateGroup(groupID, userID, req.Name, req.Color)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": group})
}

func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	groupID, ok := getIDParam(c, "group_id")
	if !ok {
		return
	}

	if err := h.calendarService.DeleteGroup(groupID, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Group deleted"})
}

// 按从上到下的组id列表重排
func (h *GroupHandler) ReorderGroups(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	calendarID, ok := getIDParam(c, "calendar_id")
	if !ok {
		return
	}

	var req struct {
		Order []int64 `json:"order" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.calendarService.ReorderGroups(calendarID, userID, req.Order); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Groups reordered"})
}

func (h *GroupHandler) AssignMembers(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	groupID, ok := getIDParam(c, "group_id")
	if !ok {
		return
	}

	var req struct {
		Members []int64 `json:"members" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.calendarService.AssignGroupMembers(groupID, userID, req.Members); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Members assigned"})
}

func (h *GroupHandler) RemoveMember(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	groupID, ok := getIDParam(c, "group_id")
	if !ok {
		return
	}
	memberID, ok := getIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.calendarService.RemoveGroupMember(groupID, userID, memberID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// 清理组里已不在日历中的成员
func (h *GroupHandler) PruneGroups(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	calendarID, ok := getIDParam(c, "calendar_id")
	if !ok {
		return
	}

	if err := h.calendarService.PruneGroups(calendarID, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stale group members pruned"})
}
