package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elearning_backend/internal/config"
	"elearning_backend/internal/controller"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/service"
	"elearning_backend/pkg/configwatcher"
	"elearning_backend/pkg/database"
	"elearning_backend/pkg/logger"
	"elearning_backend/pkg/monitoring"
	"elearning_backend/pkg/security"
	"elearning_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
	cron     *cron.Cron
}

type repositories struct {
	user       *repository.UserRepository
	course     *repository.CourseRepository
	module     *repository.ModuleRepository
	content    *repository.ContentRepository
	enrollment *repository.EnrollmentRepository
	response   *repository.ResponseRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	course     *service.CourseService
	module     *service.ModuleService
	content    *service.ContentService
	quiz       *service.QuizService
	enrollment *service.EnrollmentService
	progress   *service.ProgressService
	cascade    *service.CascadeService
	sweep      *service.SweepService
}

type controllers struct {
	auth       *controller.AuthController
	course     *controller.CourseController
	module     *controller.ModuleController
	content    *controller.ContentController
	quiz       *controller.QuizController
	enrollment *controller.EnrollmentController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		course:     repository.NewCourseRepository(db),
		module:     repository.NewModuleRepository(db),
		content:    repository.NewContentRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		response:   repository.NewResponseRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*services, error) {
	s := &services{}

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	s.auth = service.NewAuthService(repos.user, cfg)
	s.course = service.NewCourseService(repos.course, repos.enrollment, repos.response, rdb)
	s.progress = service.NewProgressService(repos.enrollment, repos.course, repos.response, db)
	s.module = service.NewModuleService(repos.module, s.course)
	s.content = service.NewContentService(repos.content, repos.module, repos.response, s.progress, s.storage, s.course, db)
	s.quiz = service.NewQuizService(repos.content, repos.response, repos.enrollment, s.progress, db)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course)
	s.cascade = service.NewCascadeService(repos.course, repos.module, repos.content, repos.enrollment, s.progress, s.course, db)
	s.sweep = service.NewSweepService(repos.enrollment, repos.response, s.progress, db)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		course:     controller.NewCourseController(s.course, s.cascade),
		module:     controller.NewModuleController(s.module, s.course, s.cascade),
		content:    controller.NewContentController(s.content, s.module, s.course, s.cascade),
		quiz:       controller.NewQuizController(s.quiz),
		enrollment: controller.NewEnrollmentController(s.enrollment, s.progress, s.sweep),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks schedules the consistency sweep. The sweep re-derives
// every enrollment's progress so drift from missed recomputes self-heals.
func (a *App) startBackgroundTasks(s *services, cfg *config.Config) {
	if !cfg.Sweep.Enabled {
		return
	}

	a.cron = cron.New()
	_, err := a.cron.AddFunc(cfg.Sweep.Schedule, func() {
		if err := s.sweep.RecomputeAll(); err != nil {
			logger.Log.Error("consistency sweep failed", zap.Error(err))
		}
		if err := s.sweep.BackfillCompletionDates(); err != nil {
			logger.Log.Error("completion date backfill failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Log.Error("invalid sweep schedule", zap.String("schedule", cfg.Sweep.Schedule), zap.Error(err))
		return
	}
	a.cron.Start()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("failed to initialize database", zap.Error(err))
	}

	// Migrations run automatically outside release mode; in release they
	// need the -migrate flag.
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("migration failed", zap.Error(err))
		}
	}
	if cfg.MigrateOnly {
		logger.Log.Info("migration complete, exiting")
		os.Exit(0)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// the outline cache degrades to direct reads without redis
		logger.Log.Warn("redis unavailable, caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	svcs, err := app.initServices(repos, cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("failed to initialize services", zap.Error(err))
	}
	app.services = svcs
	ctrls := app.initControllers(svcs, db)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("elearning-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, ctrls, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(svcs, cfg)

	// Hot-reload config edits in place so middlewares holding the pointer
	// pick up new values. Runtime flags survive the reload.
	go configwatcher.WatchConfig("configs/config.yaml", func(next interface{}) {
		updated, ok := next.(*config.Config)
		if !ok {
			return
		}
		updated.ForceMigrate = cfg.ForceMigrate
		updated.MigrateOnly = cfg.MigrateOnly
		*cfg = *updated
	})

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	if a.cron != nil {
		a.cron.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown:", err)
	}

	log.Println("server exiting")
}
