package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RS76448/attendencesystem/config"
	"github.com/RS76448/attendencesystem/internal/api/handler"
	"github.com/RS76448/attendencesystem/internal/api/middleware"
	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/pkg/jwt"
	"github.com/RS76448/attendencesystem/pkg/redis"
)

const (
	maxJSONBytes   = 1 << 20
	maxUploadBytes = 6 << 20
)

var (
	student = string(model.RoleStudent)
	faculty = string(model.RoleFaculty)
	admin   = string(model.RoleAdmin)
)

// Setup builds the gin engine. rdb may be nil.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxJSONBytes, maxUploadBytes))

	limits := cfg.Server.RateLimit
	authLimit := middleware.RateLimit(rdb, middleware.RateRule{
		Name:   "auth",
		Limit:  limits.AuthPerMinute,
		Window: time.Minute,
		By:     middleware.ByClientIP,
	}, logger)
	submitLimit := middleware.RateLimit(rdb, middleware.RateRule{
		Name:    "submit",
		Limit:   limits.SubmitPerHour,
		Window:  time.Hour,
		Message: "too many absence requests submitted, try again later",
		By:      middleware.ByUser,
	}, logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// public
		auth := v1.Group("/auth")
		auth.Use(authLimit)
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			users := authorized.Group("/users")
			{
				users.GET("/faculty", h.User.ListFaculty)
				users.GET("", middleware.RoleAuth(admin), h.User.ListUsers)
				users.POST("", middleware.RoleAuth(admin), h.User.CreateUser)
				users.GET("/:id", middleware.RoleAuth(admin), h.User.GetUser)
				users.PUT("/:id", middleware.RoleAuth(admin), h.User.UpdateUser)
				users.DELETE("/:id", middleware.RoleAuth(admin), h.User.DeleteUser)
			}

			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Course.ListCourses)
				courses.GET("/:id", h.Course.GetCourse)
				courses.POST("", middleware.RoleAuth(admin), h.Course.CreateCourse)
				courses.PUT("/:id", middleware.RoleAuth(admin), h.Course.UpdateCourse)
				courses.DELETE("/:id", middleware.RoleAuth(admin), h.Course.DeleteCourse)
			}

			timetables := authorized.Group("/timetables")
			{
				timetables.GET("", h.Timetable.ListEntries)
				timetables.POST("", middleware.RoleAuth(faculty, admin), h.Timetable.CreateEntry)
				timetables.PUT("/scope", middleware.RoleAuth(admin), h.Timetable.ReplaceScope)
				timetables.PUT("/:id", middleware.RoleAuth(faculty, admin), h.Timetable.UpdateEntry)
				timetables.DELETE("/:id", middleware.RoleAuth(faculty, admin), h.Timetable.DeleteEntry)
				timetables.POST("/import", middleware.RoleAuth(admin), h.Timetable.Import)
				timetables.POST("/import/ics", middleware.RoleAuth(faculty, admin), h.Timetable.ImportICS)
			}

			authorized.GET("/week", middleware.RoleAuth(student), h.Week.GetWeek)

			requests := authorized.Group("/requests")
			{
				requests.POST("", middleware.RoleAuth(student), submitLimit, h.Request.Submit)
				requests.GET("/mine", middleware.RoleAuth(student), h.Request.ListMine)
				requests.GET("/inbox", middleware.RoleAuth(faculty), h.Request.Inbox)
				requests.GET("", middleware.RoleAuth(admin), h.Request.List)
				requests.GET("/:id", h.Request.Get)
				requests.DELETE("/:id", middleware.RoleAuth(student), h.Request.Withdraw)
				requests.PUT("/:id/decision", middleware.RoleAuth(faculty, admin), h.Request.Decide)
				requests.POST("/:id/undo", middleware.RoleAuth(faculty, admin), h.Request.Undo)
			}

			export := authorized.Group("/export")
			{
				export.GET("/requests", middleware.RoleAuth(faculty, admin), h.Export.ExportRequests)
				export.GET("/timetable.ics", h.Export.ExportTimetable)
			}
		}
	}

	return r
}
