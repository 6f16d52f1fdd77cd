package api

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"habittrack/pkg/metrics"
)

type Router struct {
	Engine *gin.Engine
}

type Handlers struct {
	Auth         *AuthHandler
	Habit        *HabitHandler
	Tracking     *TrackingHandler
	Sleep        *SleepHandler
	Subscription *SubscriptionHandler
	Widget       *WidgetHandler
	Admin        *AdminHandler
}

func NewRouter(h Handlers, gate UserGate, jwtSecret string, db *pgxpool.Pool, logger *zap.Logger) *Router {
	r := gin.Default()

	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		metrics.RecordHTTPRequestDuration(c.Request.Method, c.FullPath(), strconv.Itoa(status), latency)
		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/auth/google", h.Auth.GoogleLogin)
	r.POST("/admin/login", h.Admin.Login)

	// Authenticated user surface
	auth := r.Group("/")
	auth.Use(AuthMiddleware(gate, jwtSecret))
	{
		auth.GET("/auth/verify", h.Auth.Verify)
		auth.GET("/auth/profile", h.Auth.GetProfile)
		auth.PUT("/auth/profile", h.Auth.UpdateProfile)

		auth.GET("/habits", h.Habit.List)
		auth.POST("/habits", h.Habit.Create)
		auth.PUT("/habits/:id", h.Habit.Update)
		auth.PUT("/habits/:id/goal", h.Habit.UpdateGoal)
		auth.PUT("/habits/:id/name", h.Habit.UpdateName)
		auth.DELETE("/habits/:id", h.Habit.Delete)

		auth.POST("/tracking/toggle", h.Tracking.Toggle)
		auth.GET("/tracking/streaks/:habitId/:year/:month", h.Tracking.Streaks)
		auth.GET("/tracking/scores/:year/:month", h.Tracking.Scores)
		auth.GET("/tracking/:year/:month", h.Tracking.Month)

		auth.GET("/sleep/stats/:year/:month", h.Sleep.Stats)
		auth.GET("/sleep/next-nap-index/:date", h.Sleep.NextNapIndex)
		auth.GET("/sleep/:year/:month", h.Sleep.Month)
		auth.POST("/sleep", h.Sleep.Upsert)
		auth.DELETE("/sleep/:date", h.Sleep.Delete)

		auth.POST("/subscription/submit-payment", h.Subscription.SubmitPayment)
		auth.GET("/subscription/status", h.Subscription.Status)

		auth.GET("/widgets/progress", h.Widget.Progress)
		auth.GET("/widgets/stats", h.Widget.Stats)
	}

	// Admin surface
	admin := r.Group("/admin")
	admin.Use(AdminMiddleware(jwtSecret))
	{
		admin.GET("/verify", h.Admin.Verify)
		admin.GET("/dashboard", h.Admin.Dashboard)

		admin.GET("/users", h.Admin.ListUsers)
		admin.GET("/users/:id", h.Admin.UserDetail)
		admin.PUT("/users/:id/toggle-status", h.Admin.ToggleUserStatus)
		admin.DELETE("/users/:id", h.Admin.DeleteUser)

		admin.GET("/subscriptions/all", h.Admin.AllSubscriptions)
		admin.GET("/subscriptions/pending", h.Admin.PendingSubscriptions)
		admin.GET("/subscriptions/:id/screenshot", h.Admin.Screenshot)
		admin.PUT("/subscriptions/:id/approve", h.Admin.Approve)
		admin.PUT("/subscriptions/:id/reject", h.Admin.Reject)
		admin.PUT("/subscriptions/:id/pause", h.Admin.Pause)
		admin.PUT("/subscriptions/:id/resume", h.Admin.Resume)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
