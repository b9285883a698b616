package api

import (
	"go-shift-planner/internal/model"
	"go-shift-planner/internal/service"
	"go-shift-planner/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CalendarHandler struct {
	calendarService *service.CalendarService
}

func NewCalendarHandler(calendarService *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
	}
}

func (h *CalendarHandler) CreateCalendar(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Name   string `json:"name" binding:"required,max=100"`
		IsTeam bool   `json:"is_team"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	calendar, err := h.calendarService.CreateCalendar(userID, req.Name, req.IsTeam)
	if err != nil {
		logger.L.Error("Error creating calendar", zap.Error(err), zap.Int64("ownerID", userID))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"calendar": calendar})
}

func (h *CalendarHandler) ListCalendars(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	calendars, err := h.calendarService.ListCalendars(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"calendars": calendars})
}

func (h *CalendarHandler) GetCalendar(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	calendarID, ok := getIDParam(c, "calendar_id")
	if !ok {
		return
	}

	calendar, err := h.calendarService.GetCalendar(calendarID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"calendar": calendar})
}

func (h *CalendarHandler) DeleteCalendar(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	calendarID, ok := getIDParam(c, "calendar_id")
	if !ok {
		return
	}

	if err := h.calendarService.DeleteCalendar(calendarID, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Calendar deleted"})
}

// --- 成员 ---

func (h *CalendarHandler) ListMembers(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	calendarID, ok := getIDParam(c, "calendar_id")
	if !ok {
		return
	}

	members, err := h.calendarService.ListMembers(calendarID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *CalendarHandler) AddMembers(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	calendarID, ok := getIDParam(c, "calendar_id")
	if !ok {
		return
	}

	var req struct {
		Members []int64 `json:"members" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.calendarService.AddMembers(calendarID, userID, req.Members); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Members added"})
}

func (h *CalendarHandler) RemoveMember(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	calendarID, ok := getIDParam(c, "calendar_id")
	if !ok {
		return
	}
	memberID, ok := getIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.calendarService.RemoveMember(calendarID, userID, memberID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// 重排成员顺序，payload是user_id -> position的完整或部分映射
func (h *CalendarHandler) ReorderMembers(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	calendarID, ok := getIDParam(c, "calendar_id")
	if !ok {
		return
	}

	var req struct {
		Positions map[int64]int `json:"positions" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.calendarService.ReorderMembers(calendarID, userID, req.Positions); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Members reordered"})
}

// --- 模板 ---

type templateRequest struct {
	Title      string `json:"title" binding:"required,max=100"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
	ShowTime   *bool  `json:"show_time"`
	ColorClass string `json:"color_class"`
}

func templateFromRequest(req templateRequest) *model.ShiftTemplate {
	template := &model.ShiftTemplate{
		Title:      req.Title,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		ShowTime:   true,
		ColorClass: req.ColorClass,
	}
	if req.ShowTime != nil {
		template.ShowTime = *req.ShowTime
	}
	if template.ColorClass == "" {
		template.ColorClass = "badge-color-1"
	}
	return template
}

func (h *CalendarHandler) CreateTemplate(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	calendarID, ok := getIDParam(c, "calendar_id")
	if !ok {
		return
	}

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	template := templateFromRequest(req)
	if err := h.calendarService.CreateTemplate(calendarID, userID, template); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"template": template})
}

func (h *CalendarHandler) ListTemplates(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	calendarID, ok := getIDParam(c, "calendar_id")
	if !ok {
		return
	}

	templates, err := h.calendarService.ListTemplates(calendarID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// 删除模板。班次不删，解绑并继承模板的颜色。
func (h *CalendarHandler) DeleteTemplate(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	templateID, ok := getIDParam(c, "template_id")
	if !ok {
		return
	}

	if err := h.calendarService.DeleteTemplate(templateID, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted, shifts detached"})
}

// --- 班次 ---

func (h *CalendarHandler) CreateShift(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	calendarID, ok := getIDParam(c, "calendar_id")
	if !ok {
		return
	}

	var input service.ShiftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	shift, err := h.calendarService.CreateShift(calendarID, userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"shift": shift})
}

func (h *CalendarHandler) UpdateShift(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	shiftID, ok := getIDParam(c, "shift_id")
	if !ok {
		return
	}

	var input service.ShiftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	shift, err := h.calendarService.UpdateShift(shiftID, userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shift": shift})
}

func (h *CalendarHandler) DeleteShift(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	shiftID, ok := getIDParam(c, "shift_id")
	if !ok {
		return
	}

	if err := h.calendarService.DeleteShift(shiftID, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shift deleted"})
}

// 按日期区间列出班次，?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *CalendarHandler) ListShifts(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	calendarID, ok := getIDParam(c, "calendar_id")
	if !ok {
		return
	}

	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end query parameters are required"})
		return
	}

	shifts, err := h.calendarService.ListShifts(calendarID, userID, start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shifts": shifts})
}
