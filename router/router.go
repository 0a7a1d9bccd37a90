package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/odyssey-travel/odyssey-backend/config"
	"github.com/odyssey-travel/odyssey-backend/handlers"
	"github.com/odyssey-travel/odyssey-backend/middleware"
)

// Dependencies holds everything SetupRouter needs to wire the routes.
type Dependencies struct {
	Config             *config.Config
	RedisClient        *redis.Client
	TripHandler        *handlers.TripHandler
	SharingHandler     *handlers.SharingHandler
	AchievementHandler *handlers.AchievementHandler
	StatisticsHandler  *handlers.StatisticsHandler
	ActivityHandler    *handlers.ActivityHandler
	MemoryHandler      *handlers.MemoryHandler
	ExpenseHandler     *handlers.ExpenseHandler
	PackingHandler     *handlers.PackingHandler
	DocumentHandler    *handlers.DocumentHandler
	TemplateHandler    *handlers.TemplateHandler
	WeatherHandler     *handlers.WeatherHandler
	CurrencyHandler    *handlers.CurrencyHandler
	HealthHandler      *handlers.HealthHandler
}

// SetupRouter configures and returns the main Gin engine with all routes.
func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))
	r.Use(middleware.Metrics())

	// Infra routes, no auth.
	r.GET("/health", deps.HealthHandler.ReadinessCheck)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		// Public invite inspection: the invitee may not have an account yet.
		v1.GET("/share/invite/:code", deps.SharingHandler.GetInvite)

		authRoutes := v1.Group("")
		authRoutes.Use(middleware.AuthMiddleware(deps.Config.Server.JwtSecretKey))
		authRoutes.Use(middleware.RateLimiter(deps.RedisClient, deps.Config.RateLimit.RequestsPerMinute))
		{
			authRoutes.POST("/share/accept/:code", deps.SharingHandler.AcceptInvite)
			authRoutes.POST("/share/decline/:code", deps.SharingHandler.DeclineInvite)

			tripRoutes := authRoutes.Group("/trips")
			{
				tripRoutes.GET("", deps.TripHandler.ListTrips)
				tripRoutes.POST("", deps.TripHandler.CreateTrip)
				tripRoutes.POST("/search", deps.TripHandler.SearchTrips)
				tripRoutes.GET("/shared-with-me", deps.SharingHandler.SharedWithMe)
				tripRoutes.GET("/:id", deps.TripHandler.GetTrip)
				tripRoutes.PATCH("/:id", deps.TripHandler.UpdateTrip)
				tripRoutes.DELETE("/:id", deps.TripHandler.DeleteTrip)
				tripRoutes.PATCH("/:id/status", deps.TripHandler.UpdateTripStatus)

				tripRoutes.POST("/:id/share", deps.SharingHandler.ShareTrip)
				tripRoutes.GET("/:id/shares", deps.SharingHandler.ListShares)
				tripRoutes.PATCH("/:id/shares/:shareId", deps.SharingHandler.UpdateShare)
				tripRoutes.DELETE("/:id/shares/:shareId", deps.SharingHandler.RevokeShare)

				activityRoutes := tripRoutes.Group("/:id/activities")
				{
					activityRoutes.GET("", deps.ActivityHandler.List)
					activityRoutes.POST("", deps.ActivityHandler.Create)
					activityRoutes.POST("/reorder", deps.ActivityHandler.Reorder)
					activityRoutes.PATCH("/:activityId", deps.ActivityHandler.Update)
					activityRoutes.DELETE("/:activityId", deps.ActivityHandler.Delete)
				}

				memoryRoutes := tripRoutes.Group("/:id/memories")
				{
					memoryRoutes.GET("", deps.MemoryHandler.List)
					memoryRoutes.POST("", deps.MemoryHandler.Create)
					memoryRoutes.DELETE("/:memoryId", deps.MemoryHandler.Delete)
				}

				expenseRoutes := tripRoutes.Group("/:id/expenses")
				{
					expenseRoutes.GET("", deps.ExpenseHandler.List)
					expenseRoutes.POST("", deps.ExpenseHandler.Create)
					expenseRoutes.GET("/summary", deps.ExpenseHandler.Summary)
					expenseRoutes.GET("/:expenseId", deps.ExpenseHandler.Get)
					expenseRoutes.PATCH("/:expenseId", deps.ExpenseHandler.Update)
					expenseRoutes.DELETE("/:expenseId", deps.ExpenseHandler.Delete)
				}

				packingRoutes := tripRoutes.Group("/:id/packing")
				{
					packingRoutes.GET("", deps.PackingHandler.List)
					packingRoutes.POST("", deps.PackingHandler.Create)
					packingRoutes.GET("/progress", deps.PackingHandler.Progress)
					packingRoutes.POST("/bulk-toggle", deps.PackingHandler.BulkToggle)
					packingRoutes.POST("/reorder", deps.PackingHandler.Reorder)
					packingRoutes.GET("/:itemId", deps.PackingHandler.Get)
					packingRoutes.PATCH("/:itemId", deps.PackingHandler.Update)
					packingRoutes.POST("/:itemId/toggle", deps.PackingHandler.Toggle)
					packingRoutes.DELETE("/:itemId", deps.PackingHandler.Delete)
				}

				documentRoutes := tripRoutes.Group("/:id/documents")
				{
					documentRoutes.GET("", deps.DocumentHandler.List)
					documentRoutes.POST("", deps.DocumentHandler.Create)
					documentRoutes.GET("/grouped", deps.DocumentHandler.Grouped)
					documentRoutes.GET("/:documentId", deps.DocumentHandler.Get)
					documentRoutes.PATCH("/:documentId", deps.DocumentHandler.Update)
					documentRoutes.DELETE("/:documentId", deps.DocumentHandler.Delete)
				}
			}

			achievementRoutes := authRoutes.Group("/achievements")
			{
				achievementRoutes.GET("", deps.AchievementHandler.GetCatalog)
				achievementRoutes.GET("/me", deps.AchievementHandler.GetMine)
				achievementRoutes.POST("/check", deps.AchievementHandler.Check)
				achievementRoutes.GET("/unseen", deps.AchievementHandler.GetUnseen)
				achievementRoutes.GET("/leaderboard", deps.AchievementHandler.Leaderboard)
				achievementRoutes.POST("/:id/seen", deps.AchievementHandler.MarkSeen)
			}

			statsRoutes := authRoutes.Group("/statistics")
			{
				statsRoutes.GET("", deps.StatisticsHandler.Overall)
				statsRoutes.GET("/year-in-review", deps.StatisticsHandler.YearInReview)
				statsRoutes.GET("/timeline", deps.StatisticsHandler.Timeline)
			}

			templateRoutes := authRoutes.Group("/templates")
			{
				templateRoutes.GET("", deps.TemplateHandler.ListMine)
				templateRoutes.POST("", deps.TemplateHandler.Create)
				templateRoutes.GET("/public", deps.TemplateHandler.ListPublic)
				templateRoutes.GET("/categories", deps.TemplateHandler.Categories)
				templateRoutes.POST("/from-trip", deps.TemplateHandler.CreateFromTrip)
				templateRoutes.POST("/use/:id", deps.TemplateHandler.Use)
				templateRoutes.GET("/:id", deps.TemplateHandler.Get)
				templateRoutes.PATCH("/:id", deps.TemplateHandler.Update)
				templateRoutes.DELETE("/:id", deps.TemplateHandler.Delete)
			}

			weatherRoutes := authRoutes.Group("/weather")
			{
				weatherRoutes.GET("/current", deps.WeatherHandler.Current)
				weatherRoutes.GET("/forecast", deps.WeatherHandler.Forecast)
				weatherRoutes.GET("/trip/:id", deps.WeatherHandler.TripWeather)
			}

			currencyRoutes := authRoutes.Group("/currency")
			{
				currencyRoutes.GET("/rates", deps.CurrencyHandler.Rates)
				currencyRoutes.GET("/convert", deps.CurrencyHandler.ConvertQuery)
				currencyRoutes.POST("/convert", deps.CurrencyHandler.Convert)
				currencyRoutes.POST("/bulk-convert", deps.CurrencyHandler.BulkConvert)
				currencyRoutes.GET("/supported", deps.CurrencyHandler.Supported)
			}
		}
	}

	return r
}
