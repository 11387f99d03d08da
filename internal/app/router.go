package app

import (
	"github.com/kennethwzc/mandarin-srs-sub000/docs"
	"github.com/kennethwzc/mandarin-srs-sub000/internal/config"
	"github.com/kennethwzc/mandarin-srs-sub000/internal/middleware"
	"github.com/kennethwzc/mandarin-srs-sub000/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		reviews := authGroup.Group("/reviews")
		{
			reviews.POST("", c.review.SubmitReview)
			reviews.GET("/due", c.review.GetDueItems)
			reviews.GET("/history", c.review.GetHistory)
		}

		progress := authGroup.Group("/progress")
		{
			progress.GET("/items/:itemType/:itemId", c.progress.GetItemState)
			progress.GET("/daily", c.progress.GetDailyRollup)
		}
	}
}
