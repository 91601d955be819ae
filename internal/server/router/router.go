package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/skverma/milknet/internal/domain/models"
	"github.com/skverma/milknet/internal/repository/mongodb"
	"github.com/skverma/milknet/internal/server/handlers"
	"github.com/skverma/milknet/internal/server/middleware"
	"github.com/skverma/milknet/internal/service/auth"
)

// Deps carries everything the router wires together.
type Deps struct {
	Auth     *handlers.AuthHandler
	Reports  *handlers.ReportsHandler
	Records  *handlers.RecordsHandler
	Registry *handlers.RegistryHandler
	Upload   *handlers.UploadHandler
	Tokens   *auth.TokenManager
	Dairies  mongodb.DairyStore
	Devices  mongodb.DeviceStore
	Logger   *zap.Logger
}

// New wires the Gin engine with required routes and middlewares.
func New(d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(zapLoggerMiddleware(d.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", d.Auth.Login)
	authGroup.POST("/refresh", d.Auth.Refresh)
	authGroup.POST("/logout", d.Auth.Logout)

	authed := api.Group("")
	authed.Use(middleware.Authenticate(d.Tokens, d.Dairies, d.Devices, d.Logger))

	reports := authed.Group("/reports")
	reports.GET("/datewise", d.Reports.Datewise)
	reports.GET("/datewise-multiple", d.Reports.DatewiseMultiple)
	reports.GET("/codewise", d.Reports.Codewise)
	reports.GET("/cumulative", d.Reports.Cumulative)
	reports.GET("/summary", d.Reports.Summary)
	reports.GET("/detailed", d.Reports.Detailed)
	reports.GET("/absent", d.Reports.Absent)

	records := authed.Group("/records")
	records.POST("", d.Records.Add)
	records.PUT("/:id", d.Records.Edit)
	records.GET("/one", d.Records.Get)
	records.GET("", d.Records.List)

	dairy := authed.Group("/dairy", middleware.RequireRoles(models.RoleAdmin))
	dairy.POST("", d.Registry.CreateDairy)
	dairy.GET("/:dairyCode", d.Registry.GetDairy)
	dairy.DELETE("/:dairyCode", d.Registry.DeleteDairy)

	device := authed.Group("/device")
	device.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleDairy), d.Registry.CreateDevice)
	device.GET("/:deviceid", d.Registry.GetDevice)
	device.DELETE("/:deviceid", middleware.RequireRoles(models.RoleAdmin, models.RoleDairy), d.Registry.DeleteDevice)
	device.POST("/:deviceid/members", d.Registry.AddMember)
	device.PUT("/:deviceid/members", d.Registry.EditMember)
	device.DELETE("/:deviceid/members", d.Registry.RemoveMember)

	upload := authed.Group("/upload", middleware.RequireRoles(models.RoleDairy, models.RoleDevice))
	upload.POST("/ratetable/:kind", d.Upload.RateTable)
	upload.POST("/members/:deviceid", d.Upload.MemberList)

	if d.Logger != nil {
		d.Logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.Writer.Header().Get(middleware.RequestIDHeader)),
			zap.String("client_ip", c.ClientIP()))
	}
}
