package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mizutamari/gallery/config"
	"github.com/mizutamari/gallery/controllers"
	"github.com/mizutamari/gallery/middleware"
	"github.com/mizutamari/gallery/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	ginLogPath := cfg.GinPath
	// Use application log level as reference
	gl, err := utils.NewRollingFileLogger(ginLogPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))
	// Cap request bodies before any handler buffers an upload
	r.Use(middleware.BodySizeLimit())
	// Record PV after each request
	r.Use(middleware.PageViewRecorder(db))

	r.Static("/static", "./static")

	r.GET("/", func(c *gin.Context) {
		c.File("./static/index.html")
	})

	r.GET("/login", func(c *gin.Context) {
		c.File("./static/login.html")
	})

	r.GET("/admin", func(c *gin.Context) {
		c.File("./static/admin.html")
	})

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController()
	photoController := controllers.NewPhotoController(db)
	galleryController := controllers.NewGalleryController(db)
	statsController := controllers.NewStatsController(db)
	configController := controllers.NewConfigController()

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.GET("/captcha", authController.Captcha)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AdminRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AdminRequired(), authController.Me)

	// Public gallery endpoints
	api.GET("/photos", galleryController.ListGrouped)
	api.GET("/stats", statsController.GetStats)
	api.GET("/config/site", configController.GetSite)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminRequired())
	admin.GET("/photos", photoController.ListAdmin)
	admin.POST("/photos", photoController.Upload)
	admin.PUT("/photos/:id", photoController.Update)
	admin.DELETE("/photos/:id", photoController.Delete)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		// API 未命中：返回 API 404 JSON
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		// 静态资源未命中：仍按 404 处理
		if strings.HasPrefix(path, "/static/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		// 其余路径（如 /admin 下的前端路由）回退到 SPA 入口
		ctx.Status(http.StatusOK)
		ctx.File("./static/index.html")
	})

	return r
}
