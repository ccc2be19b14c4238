package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	v1 "plumenote/api/v1"
	"plumenote/config"
	"plumenote/dao"
	myvalidator "plumenote/internal/validator"
	"plumenote/middleware"
	"plumenote/model"
	"plumenote/service"
)

func main() {
	// 初始化配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../"
	}
	config.InitConfig(configPath)
	config.InitRedis()

	// 初始化数据库
	db, err := gorm.Open(mysql.Open(config.GlobalConfig.MySQL.DSN), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// 自动迁移
	if err := db.AutoMigrate(
		&model.User{},
		&model.Workspace{},
		&model.WorkspaceMember{},
		&model.Folder{},
		&model.Note{},
		&model.ViewEvent{},
	); err != nil {
		panic(err)
	}

	// 初始化 DAO 和 Service
	userDAO := dao.NewUserDAO(db)
	workspaceDAO := dao.NewWorkspaceDAO(db)
	folderDAO := dao.NewFolderDAO(db)
	noteDAO := dao.NewNoteDAO(db)
	viewEventDAO := dao.NewViewEventDAO(db)
	statsDAO := dao.NewStatsDAO(db)

	userService := service.NewUserService(userDAO, config.RedisClient)
	workspaceService := service.NewWorkspaceService(workspaceDAO, folderDAO)
	noteService := service.NewNoteService(noteDAO, workspaceDAO, folderDAO)
	viewService := service.NewViewService(viewEventDAO, noteService)
	statsService := service.NewStatsService(
		statsDAO, userDAO, noteDAO, workspaceDAO,
		config.RedisClient,
		time.Duration(config.GlobalConfig.Stats.CacheTTL)*time.Second,
	)

	userAPI := v1.NewUserAPI(userService)
	noteAPI := v1.NewNoteAPI(noteService, viewService)
	workspaceAPI := v1.NewWorkspaceAPI(workspaceService)
	statsAPI := v1.NewStatsAPI(statsService)

	// 初始化路由
	r := gin.Default()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 注册自定义校验器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("slug", myvalidator.IsSlug); err != nil {
			panic(err)
		}
	}

	// 公共路由
	public := r.Group("/api/v1")
	{
		public.POST("/users/register", userAPI.Register)
		loginLimiter := middleware.LoginRateLimiter(config.RedisClient, 5, time.Minute)
		public.POST("/users/login", loginLimiter, userAPI.Login)
		public.POST("/users/refresh", userAPI.RefreshToken)
	}

	// 私有路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(userService.Session))
	{
		private.POST("/users/logout", userAPI.Logout)

		private.POST("/notes", noteAPI.Create)
		private.GET("/notes", noteAPI.List)
		private.GET("/notes/recent", noteAPI.Recent)
		private.GET("/notes/:id", noteAPI.Get)
		private.PUT("/notes/:id", noteAPI.Update)
		private.DELETE("/notes/:id", noteAPI.Delete)
		private.POST("/notes/:id/view", noteAPI.RecordView)

		private.POST("/workspaces", workspaceAPI.Create)
		private.GET("/workspaces", workspaceAPI.List)
		private.POST("/workspaces/:id/members", workspaceAPI.AddMember)
		private.GET("/workspaces/:id/members", workspaceAPI.ListMembers)
		private.POST("/folders", workspaceAPI.CreateFolder)
		private.GET("/folders", workspaceAPI.ListFolders)
	}

	// 管理端路由
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(userService.Session), middleware.AdminOnly())
	{
		admin.GET("/stats", statsAPI.Overview)
	}

	// 启动服务
	if err := r.Run(config.GlobalConfig.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
