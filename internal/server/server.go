package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teamtodo/internal/config"
	"teamtodo/internal/handler"
	"teamtodo/internal/middleware"
	"teamtodo/internal/model"
	"teamtodo/internal/repository"
	"teamtodo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

// OpenDB connects to Postgres with the configured credentials. The
// deadline-scan binary reuses it.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	return db, nil
}

// runMigrations applies pending SQL migrations from the configured
// directory. An up-to-date schema is not an error.
func runMigrations(db *gorm.DB, cfg *config.Config) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+cfg.MigrationsDir, cfg.DBName, driver)
	if err != nil {
		return fmt.Errorf("migration setup: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}

func Init(cfg *config.Config) (*Server, error) {
	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	if err := runMigrations(db, cfg); err != nil {
		return nil, err
	}
	log.Println("Migrations applied")

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}

	r := gin.Default()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Services
	var sender service.EmailSender
	if cfg.EmailEnabled {
		sender = service.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	}
	notifier := service.NewNotifier(db, sender, cfg.EmailEnabled)
	teamService := service.NewTeamService(db)
	taskService := service.NewTaskService(db, notifier)
	analyticsService := service.NewAnalyticsService(db)

	// Handlers
	userHandler := handler.NewUserHandler(userRepo, cfg.JWTSecret, cfg.JWTExpiryHours)
	teamHandler := handler.NewTeamHandler(teamService, userRepo)
	taskHandler := handler.NewTaskHandler(taskService, userRepo, commentRepo, attachmentRepo, activityRepo, cfg.UploadDir)
	notificationHandler := handler.NewNotificationHandler(notificationRepo, userRepo)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, userRepo)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Profile routes
		authorized.GET("/me", userHandler.Me)
		authorized.GET("/me/preferences", userHandler.GetPreferences)
		authorized.PUT("/me/preferences", userHandler.UpdatePreferences)
		authorized.GET("/me/stats", analyticsHandler.MyStats)

		// Team routes
		authorized.POST("/teams", teamHandler.Create)
		authorized.GET("/teams", teamHandler.List)
		authorized.GET("/teams/:id", teamHandler.Get)
		authorized.PUT("/teams/:id", teamHandler.Update)
		authorized.DELETE("/teams/:id", teamHandler.Delete)
		authorized.POST("/teams/:id/members", teamHandler.AddMember)
		authorized.DELETE("/teams/:id/members/:user_id", teamHandler.RemoveMember)
		authorized.POST("/teams/:id/leave", teamHandler.Leave)
		authorized.GET("/teams/:id/analytics", analyticsHandler.TeamStats)

		// Task routes
		authorized.POST("/teams/:id/tasks", taskHandler.Create)
		authorized.GET("/teams/:id/tasks", taskHandler.ListByTeam)
		authorized.GET("/my-tasks", taskHandler.MyTasks)
		authorized.GET("/tasks/:id", taskHandler.Get)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/status", taskHandler.ChangeStatus)
		authorized.POST("/tasks/:id/assign", taskHandler.Assign)
		authorized.POST("/tasks/:id/comments", taskHandler.AddComment)
		authorized.GET("/tasks/:id/comments", taskHandler.ListComments)
		authorized.POST("/tasks/:id/attachments", taskHandler.UploadAttachment)
		authorized.GET("/tasks/:id/attachments", taskHandler.ListAttachments)
		authorized.GET("/tasks/:id/activity", taskHandler.ListActivity)

		// Notification routes
		authorized.GET("/notifications", notificationHandler.List)
		authorized.POST("/notifications/:id/read", notificationHandler.MarkRead)
		authorized.POST("/notifications/read-all", notificationHandler.MarkAllRead)
	}

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	admin.Use(middleware.RequireRole(userRepo, model.RoleAdmin))
	{
		admin.GET("/users", userHandler.List)
		admin.PUT("/users/:id/role", userHandler.UpdateRole)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %s", err)
	}

	log.Println("Server exited properly")
}
