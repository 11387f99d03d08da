package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kennethwzc/mandarin-srs-sub000/internal/config"
	"github.com/kennethwzc/mandarin-srs-sub000/internal/controller"
	"github.com/kennethwzc/mandarin-srs-sub000/internal/jobs"
	"github.com/kennethwzc/mandarin-srs-sub000/internal/repository"
	"github.com/kennethwzc/mandarin-srs-sub000/internal/service"
	"github.com/kennethwzc/mandarin-srs-sub000/internal/srs"
	"github.com/kennethwzc/mandarin-srs-sub000/pkg/configwatcher"
	"github.com/kennethwzc/mandarin-srs-sub000/pkg/database"
	"github.com/kennethwzc/mandarin-srs-sub000/pkg/logger"
	"github.com/kennethwzc/mandarin-srs-sub000/pkg/monitoring"
	"github.com/kennethwzc/mandarin-srs-sub000/pkg/security"
	"github.com/kennethwzc/mandarin-srs-sub000/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	jobs   *jobs.Runner
}

type repositories struct {
	itemState *repository.ItemStateRepository
	event     *repository.ReviewEventRepository
	rollup    *repository.RollupRepository
}

type services struct {
	review   *service.ReviewService
	progress *service.ProgressService
}

type controllers struct {
	review   *controller.ReviewController
	progress *controller.ProgressController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		itemState: repository.NewItemStateRepository(db),
		event:     repository.NewReviewEventRepository(db),
		rollup:    repository.NewRollupRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	scheduler := srs.NewScheduler(schedulerParams(cfg), fuzzSource(cfg))

	return &services{
		review:   service.NewReviewService(repos.itemState, repos.event, repos.rollup, scheduler, db),
		progress: service.NewProgressService(repos.itemState, repos.event, repos.rollup),
	}
}

// schedulerParams 配置缺省项回落到算法默认值
func schedulerParams(cfg *config.Config) srs.Params {
	params := srs.DefaultParams()
	if len(cfg.SRS.LearningStepsMinutes) > 0 {
		params.LearningStepsMinutes = cfg.SRS.LearningStepsMinutes
	}
	if len(cfg.SRS.RelearningStepsMinutes) > 0 {
		params.RelearningStepsMinutes = cfg.SRS.RelearningStepsMinutes
	}
	if cfg.SRS.GraduatingIntervalDays > 0 {
		params.GraduatingIntervalDays = cfg.SRS.GraduatingIntervalDays
	}
	if cfg.SRS.EasyIntervalDays > 0 {
		params.EasyIntervalDays = cfg.SRS.EasyIntervalDays
	}
	if cfg.SRS.MinReviewIntervalDays > 0 {
		params.MinReviewIntervalDays = cfg.SRS.MinReviewIntervalDays
	}
	if cfg.SRS.MaxReviewIntervalDays > 0 {
		params.MaxReviewIntervalDays = cfg.SRS.MaxReviewIntervalDays
	}
	return params
}

func fuzzSource(cfg *config.Config) srs.FuzzSource {
	if cfg.SRS.DisableFuzz {
		return srs.NoFuzz{}
	}
	return srs.NewRandFuzzSource(time.Now().UnixNano())
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		review:   controller.NewReviewController(s.review, s.progress),
		progress: controller.NewProgressController(s.progress),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Error("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("mandarin-srs", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	app.jobs = jobs.New(repos.itemState)
	app.jobs.Start()

	// 调度参数热更新：配置文件变更后重建调度器，正在进行的提交不受影响
	go configwatcher.WatchConfig(filepath.Join("configs", "config.yaml"), func(newCfg *config.Config) {
		services.review.SetScheduler(srs.NewScheduler(schedulerParams(newCfg), fuzzSource(newCfg)))
		logger.Log.Info("Scheduler parameters reloaded from config")
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.jobs != nil {
		a.jobs.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
