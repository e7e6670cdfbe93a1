package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/activity"
	"github.com/yukikurage/project-management-api/internal/config"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/handlers"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/notify"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/ws"
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
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
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
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	fileRepo := repository.NewTaskFileRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	timeEntryRepo := repository.NewTimeEntryRepository(db)

	// Notification fan-out: live push registry, SMTP mailer (optional)
	// and the persisted-notification channel.
	hub := ws.NewHub()
	var mailer notify.Mailer
	if m := notify.NewSMTPMailer(cfg); m != nil {
		mailer = m
	}
	dispatcher := notify.NewDispatcher(notificationRepo, hub, mailer, cfg.SMTPFrom)
	recorder := activity.NewRecorder(activityRepo)

	// Services
	authService := services.NewAuthService(userRepo, mailer, cfg.SMTPFrom, cfg.FrontendURL)
	teamService := services.NewTeamService(teamRepo, userRepo, dispatcher, cfg.FrontendURL)
	projectService := services.NewProjectService(projectRepo, teamRepo, taskRepo, recorder)
	taskService := services.NewTaskService(taskRepo, projectRepo, teamRepo, userRepo, dispatcher, recorder)
	commentService := services.NewCommentService(commentRepo, taskRepo, projectRepo, teamRepo, userRepo, dispatcher, recorder)
	fileService := services.NewTaskFileService(fileRepo, taskRepo, projectRepo, teamRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	activityService := services.NewActivityService(recorder, projectRepo, teamRepo, taskRepo)
	timeEntryService := services.NewTimeEntryService(timeEntryRepo, taskRepo, projectRepo, teamRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, teamService)
	teamHandler := handlers.NewTeamHandler(teamService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)
	fileHandler := handlers.NewTaskFileHandler(fileService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	activityHandler := handlers.NewActivityHandler(activityService)
	timeEntryHandler := handlers.NewTimeEntryHandler(timeEntryService)
	wsHandler := ws.NewHandler(hub)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Management API is running",
		})
	})

	// Live notification push
	r.GET("/ws", middleware.RequireAuth(), wsHandler.Serve)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/register-invite", authHandler.RegisterInvite)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.POST("/password-reset", authHandler.RequestPasswordReset)
			auth.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.PATCH("/me", middleware.RequireAuth(), authHandler.UpdateProfile)
			auth.POST("/change-password", middleware.RequireAuth(), authHandler.ChangePassword)
		}

		// Team routes (protected). Accept and decline stay outside
		// RequireTeamAccess: the caller is still pending there.
		teams := api.Group("/teams")
		teams.Use(middleware.RequireAuth())
		{
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("", teamHandler.ListTeams)
			teams.POST("/:id/accept", teamHandler.AcceptInvite)
			teams.POST("/:id/decline", teamHandler.DeclineInvite)
			teams.GET("/:id", middleware.RequireTeamAccess(), teamHandler.GetTeam)
			teams.PATCH("/:id", middleware.RequireTeamAccess(), teamHandler.UpdateTeam)
			teams.DELETE("/:id", middleware.RequireTeamAccess(), teamHandler.DeleteTeam)
			teams.POST("/:id/invite", middleware.RequireTeamAccess(), teamHandler.InviteMember)
			teams.PATCH("/:id/members/:user_id/role", middleware.RequireTeamAccess(), teamHandler.ChangeMemberRole)
			teams.DELETE("/:id/members/:user_id", middleware.RequireTeamAccess(), teamHandler.RemoveMember)
		}

		// Pending invitations
		api.GET("/invites", middleware.RequireAuth(), teamHandler.ListInvites)

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.POST("/:id/tasks", taskHandler.CreateTask)
			projects.GET("/:id/tasks", taskHandler.ListTasks)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/comments", commentHandler.CreateComment)
			tasks.GET("/:id/comments", commentHandler.ListComments)
			tasks.POST("/:id/files", fileHandler.AttachFile)
			tasks.GET("/:id/files", fileHandler.ListFiles)
			tasks.POST("/:id/time-entries", timeEntryHandler.LogTime)
			tasks.GET("/:id/time-entries", timeEntryHandler.ListTimeEntries)
		}

		// Comment routes (protected)
		comments := api.Group("/comments")
		comments.Use(middleware.RequireAuth())
		{
			comments.PATCH("/:id", commentHandler.UpdateComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}

		// File routes (protected)
		files := api.Group("/files")
		files.Use(middleware.RequireAuth())
		{
			files.DELETE("/:id", fileHandler.DeleteFile)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
		}

		// Activity feed (protected)
		api.GET("/activity", middleware.RequireAuth(), activityHandler.ListActivity)
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
