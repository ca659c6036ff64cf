package app

import (
	"elearning_backend/docs"
	"elearning_backend/internal/config"
	"elearning_backend/internal/middleware"
	"elearning_backend/internal/model"
	"elearning_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	rg.GET("/courses/available", c.enrollment.AvailableCourses)
	rg.GET("/courses/:id", c.course.GetCourse)
	rg.POST("/courses/:id/enroll", c.enrollment.Enroll)
	rg.POST("/courses/:id/progress/recompute", c.enrollment.RecomputeProgress)
	rg.GET("/my-courses", c.enrollment.MyCourses)

	rg.GET("/content/:id", c.content.GetContent)
	rg.POST("/content/:id/complete", c.content.MarkCompleted)
	rg.POST("/quizzes/:id/submit", c.quiz.SubmitQuiz)
}

func (a *App) registerInstructorRoutes(rg *gin.RouterGroup, c *controllers) {
	instructor := rg.Group("/instructor")
	instructor.Use(middleware.RoleMiddleware(model.Instructor))
	{
		instructor.POST("/courses", c.course.CreateCourse)
		instructor.GET("/courses", c.course.ListMyCourses)
		instructor.PUT("/courses/:id", c.course.UpdateCourse)
		instructor.DELETE("/courses/:id", c.course.DeleteCourse)
		instructor.GET("/courses/:id/stats", c.course.GetStats)
		instructor.POST("/courses/:id/modules", c.module.CreateModule)

		instructor.PUT("/modules/:id", c.module.UpdateModule)
		instructor.DELETE("/modules/:id", c.module.DeleteModule)
		instructor.POST("/modules/:id/content", c.content.CreateContent)
		instructor.POST("/modules/:id/content/upload", c.content.UploadContent)
		instructor.POST("/modules/:id/quizzes", c.content.CreateQuiz)

		instructor.DELETE("/content/:id", c.content.DeleteContent)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/progress/recompute", c.enrollment.RecomputeAll)
		admin.POST("/completion-dates/backfill", c.enrollment.BackfillCompletionDates)
	}
}
