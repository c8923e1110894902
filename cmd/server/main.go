package main

import (
	"log"
	"os"
	"strings"

	"github.com/edupress/lms-backend/internal/config"
	"github.com/edupress/lms-backend/internal/handler"
	"github.com/edupress/lms-backend/internal/middleware"
	"github.com/edupress/lms-backend/internal/model"
	"github.com/edupress/lms-backend/internal/repository"
	"github.com/edupress/lms-backend/internal/service"
	"github.com/edupress/lms-backend/pkg/database"
	"github.com/edupress/lms-backend/pkg/password"
	"github.com/edupress/lms-backend/pkg/storage"
	"github.com/edupress/lms-backend/pkg/token"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := seedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
	}

	var meiliClient meilisearch.ServiceManager
	if cfg.MeiliSearchHost != "" {
		meiliClient = meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}
	searchService := service.NewSearchService(meiliClient)

	var imageStorage storage.ImageStorage
	if os.Getenv("CLOUDINARY_URL") != "" {
		imageStorage, err = storage.NewCloudinaryStorage()
		if err != nil {
			log.Fatalf("failed to initialize cloudinary storage: %v", err)
		}
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	quizRepo := repository.NewQuizRepository(db)

	authService := service.NewAuthService(userRepo, tokens, rdb)
	authHandler := handler.NewAuthHandler(authService)

	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)

	userService := service.NewUserService(userRepo, enrollmentRepo)
	userHandler := handler.NewUserHandler(userService, enrollmentService)

	courseService := service.NewCourseService(courseRepo, searchService, imageStorage)
	moduleService := service.NewModuleService(moduleRepo, courseRepo, enrollmentRepo)
	courseHandler := handler.NewCourseHandler(courseService, moduleService, enrollmentService)
	moduleHandler := handler.NewModuleHandler(moduleService)

	quizService := service.NewQuizService(quizRepo, moduleRepo, courseRepo, enrollmentRepo, cfg.PassingScore)
	quizHandler := handler.NewQuizHandler(quizService)

	authMiddleware := middleware.NewAuthMiddleware(userRepo, tokens)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authMiddleware.RequireAuth(), authHandler.Refresh)
		auth.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
		auth.POST("/logout", authMiddleware.RequireAuth(), authHandler.Logout)
	}

	// Catalog browsing works anonymously, visibility narrows by identity.
	api.GET("/courses", authMiddleware.OptionalAuth(), courseHandler.List)
	api.GET("/courses/:id", authMiddleware.OptionalAuth(), courseHandler.Get)

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		staff := protected.Group("")
		staff.Use(authMiddleware.RequireRole(model.RoleTeacher, model.RoleAdmin))
		{
			staff.POST("/courses", courseHandler.Create)
			staff.PUT("/courses/:id", courseHandler.Update)
			staff.DELETE("/courses/:id", courseHandler.Delete)
			staff.POST("/courses/:id/thumbnail", courseHandler.UploadThumbnail)
			staff.POST("/courses/:id/modules", courseHandler.CreateModule)
			staff.PUT("/modules/:id", moduleHandler.Update)
			staff.DELETE("/modules/:id", moduleHandler.Delete)
			staff.POST("/modules/:id/questions", quizHandler.CreateQuestion)
			staff.GET("/courses/:id/enrollments", courseHandler.ListEnrollments)
		}

		protected.GET("/courses/:id/modules", courseHandler.ListModules)
		protected.GET("/modules/:id", moduleHandler.Get)
		protected.POST("/modules/:id/complete", moduleHandler.Complete)
		protected.GET("/modules/:id/questions", quizHandler.Questions)
		protected.POST("/modules/:id/submit", quizHandler.Submit)
		protected.GET("/modules/:id/results", quizHandler.Results)

		protected.POST("/enrollments", enrollmentHandler.Enroll)
		protected.GET("/enrollments/me", enrollmentHandler.My)
		protected.GET("/enrollments/:id", enrollmentHandler.Get)
		protected.DELETE("/enrollments/:id", enrollmentHandler.Unenroll)

		protected.GET("/users/me/progress", userHandler.MyProgress)
		protected.GET("/users/me/courses", userHandler.MyCourses)
		protected.PUT("/users/me", userHandler.UpdateMe)
		protected.GET("/users/:id", userHandler.Get)

		admin := protected.Group("")
		admin.Use(authMiddleware.RequireRole(model.RoleAdmin))
		{
			admin.GET("/users", userHandler.GetAll)
			admin.PUT("/users/:id", userHandler.AdminUpdate)
			admin.DELETE("/users/:id", userHandler.Delete)
		}
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Module{},
		&model.QuizQuestion{},
		&model.QuizOption{},
		&model.Enrollment{},
		&model.QuizAttempt{},
	)
}

func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@edupress.dev").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashed, err := password.Hash("admin123")
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        "admin@edupress.dev",
		PasswordHash: hashed,
		FirstName:    "System",
		LastName:     "Administrator",
		Role:         model.RoleAdmin,
		IsActive:     true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded successfully")
	log.Println("   Email: admin@edupress.dev")
	log.Println("   Password: admin123")

	return nil
}
