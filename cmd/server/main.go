package main

import (
	"log"
	"net/http"

	"go-shift-planner/internal/api"
	"go-shift-planner/internal/middleware"
	"go-shift-planner/internal/repository"
	"go-shift-planner/internal/service"
	"go-shift-planner/pkg/config"
	"go-shift-planner/pkg/db"
	"go-shift-planner/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func main() {
	// 初始化配置
	if err := config.Init(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(config.GlobalConfig.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 初始化数据库连接
	if err := db.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 仓库层
	userRepo := repository.NewUserRepository()
	friendRepo := repository.NewFriendRepository()
	calendarRepo := repository.NewCalendarRepository()
	memberRepo := repository.NewMemberRepository()
	groupRepo := repository.NewGroupRepository()
	shiftRepo := repository.NewShiftRepository()
	templateRepo := repository.NewTemplateRepository()

	// 服务层
	friendService := service.NewFriendService(friendRepo, userRepo)
	calendarService := service.NewCalendarService(
		calendarRepo, memberRepo, groupRepo, shiftRepo, templateRepo, friendRepo)
	analyticsService := service.NewAnalyticsService(calendarRepo, shiftRepo)

	// 处理器
	authHandler := api.NewAuthHandler()
	userHandler := api.NewUserHandler(userRepo)
	friendHandler := api.NewFriendHandler(friendService)
	calendarHandler := api.NewCalendarHandler(calendarService)
	groupHandler := api.NewGroupHandler(calendarService)
	analyticsHandler := api.NewAnalyticsHandler(analyticsService)

	// 创建Gin引擎
	r := gin.New()
	r.Use(middleware.GinZapLogger(), gin.Recovery())

	// 公开路由
	r.POST("/api/auth/register", authHandler.Register)
	r.POST("/api/auth/login", authHandler.Login)

	// 受保护的路由
	protected := r.Group("/api", middleware.AuthMiddleware())
	{
		protected.GET("/users/me", userHandler.GetProfile)
		protected.POST("/users/avatar", userHandler.UploadAvatar)

		protected.POST("/friends/requests", friendHandler.SendRequest)
		protected.GET("/friends/requests", friendHandler.ListIncomingRequests)
		protected.POST("/friends/requests/:request_id/accept", friendHandler.AcceptRequest)
		protected.POST("/friends/requests/:request_id/decline", friendHandler.DeclineRequest)
		protected.GET("/friends", friendHandler.ListFriends)

		protected.POST("/calendars", calendarHandler.CreateCalendar)
		protected.GET("/calendars", calendarHandler.ListCalendars)
		protected.GET("/calendars/:calendar_id", calendarHandler.GetCalendar)
		protected.DELETE("/calendars/:calendar_id", calendarHandler.DeleteCalendar)

		protected.GET("/calendars/:calendar_id/members", calendarHandler.ListMembers)
		protected.POST("/calendars/:calendar_id/members", calendarHandler.AddMembers)
		protected.DELETE("/calendars/:calendar_id/members/:user_id", calendarHandler.RemoveMember)
		protected.PUT("/calendars/:calendar_id/members/order", calendarHandler.ReorderMembers)

		protected.POST("/calendars/:calendar_id/groups", groupHandler.CreateGroup)
		protected.GET("/calendars/:calendar_id/groups", groupHandler.ListGroups)
		protected.PUT("/calendars/:calendar_id/groups/order", groupHandler.ReorderGroups)
		protected.POST("/calendars/:calendar_id/groups/prune", groupHandler.PruneGroups)
		protected.PUT("/groups/:group_id", groupHandler.UpdateGroup)
		protected.DELETE("/groups/:group_id", groupHandler.DeleteGroup)
		protected.PUT("/groups/:group_id/members", groupHandler.AssignMembers)
		protected.DELETE("/groups/:group_id/members/:user_id", groupHandler.RemoveMember)

		protected.POST("/calendars/:calendar_id/templates", calendarHandler.CreateTemplate)
		protected.GET("/calendars/:calendar_id/templates", calendarHandler.ListTemplates)
		protected.DELETE("/templates/:template_id", calendarHandler.DeleteTemplate)

		protected.POST("/calendars/:calendar_id/shifts", calendarHandler.CreateShift)
		protected.GET("/calendars/:calendar_id/shifts", calendarHandler.ListShifts)
		protected.PUT("/shifts/:shift_id", calendarHandler.UpdateShift)
		protected.DELETE("/shifts/:shift_id", calendarHandler.DeleteShift)

		protected.POST("/analytics", analyticsHandler.Run)
	}

	// CORS放在gin外面，前端单独部署
	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(r)

	addr := config.GlobalConfig.Server.Addr
	if addr == "" {
		addr = ":8080"
	}
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
