package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/BlazingTwister/finalflow/internal/config"
	"github.com/BlazingTwister/finalflow/internal/constants"
	"github.com/BlazingTwister/finalflow/internal/database"
	"github.com/BlazingTwister/finalflow/internal/handlers"
	"github.com/BlazingTwister/finalflow/internal/middleware"
	"github.com/BlazingTwister/finalflow/internal/models"
	"github.com/BlazingTwister/finalflow/internal/repository"
	"github.com/BlazingTwister/finalflow/internal/services"
	"github.com/BlazingTwister/finalflow/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB(), cfg.DBDriver); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// File storage for submission uploads
	store, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	sessionStore, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	// Repositories
	db := database.GetDB()
	taskRepo := repository.NewTaskRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo)
	slotService := services.NewSlotService(slotRepo, userRepo)
	submissionService := services.NewSubmissionService(submissionRepo, slotRepo, store, cfg.ResubmissionPolicy)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	slotHandler := handlers.NewSlotHandler(slotService, submissionService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "FinalFlow API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Task routes (protected, student-owned)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/subtasks", taskHandler.AddSubtask)
		}

		subtasks := api.Group("/subtasks")
		subtasks.Use(middleware.RequireAuth())
		{
			subtasks.PATCH("/:id/status", taskHandler.UpdateSubtaskStatus)
			subtasks.DELETE("/:id", taskHandler.DeleteSubtask)
		}

		api.GET("/progress", middleware.RequireAuth(), taskHandler.GetProgress)

		// Slot routes (lecturer only)
		slots := api.Group("/slots")
		slots.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleLecturer))
		{
			slots.GET("", slotHandler.ListSlots)
			slots.POST("", slotHandler.CreateSlot)
			slots.GET("/:id", slotHandler.GetSlot)
			slots.PATCH("/:id", slotHandler.UpdateSlot)
			slots.POST("/:id/close", slotHandler.CloseSlot)
			slots.DELETE("/:id", slotHandler.DeleteSlot)
			slots.POST("/:id/assign", slotHandler.AssignStudents)
		}

		api.GET("/my-students", middleware.RequireAuth(), middleware.RequireRole(models.RoleLecturer), slotHandler.ListMyStudents)

		// Student-facing slot and submission routes
		my := api.Group("/my-slots")
		my.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleStudent))
		{
			my.GET("", slotHandler.ListMySlots)
			my.POST("/:id/submit", submissionHandler.Submit)
		}

		api.GET("/my-submissions/:id", middleware.RequireAuth(), middleware.RequireRole(models.RoleStudent), submissionHandler.GetOwnSubmission)

		// Acknowledgement gate and downloads (lecturer only)
		submissions := api.Group("/submissions")
		submissions.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleLecturer))
		{
			submissions.POST("/:id/acknowledge", submissionHandler.Acknowledge)
			submissions.POST("/:id/comment", submissionHandler.Comment)
		}

		api.GET("/files/:id/download", middleware.RequireAuth(), middleware.RequireRole(models.RoleLecturer), submissionHandler.DownloadFile)
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
