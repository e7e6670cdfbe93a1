package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/activity"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/notify"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/ws"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// handlerTestEnv wires the whole HTTP surface against an in-memory
// database with cookie-backed sessions.
type handlerTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
	hub    *ws.Hub

	authService *services.AuthService
	teamService *services.TeamService
	taskService *services.TaskService
}

func setupHandlerTestEnv(t *testing.T) *handlerTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMembership{},
		&models.Project{},
		&models.Task{},
		&models.Comment{},
		&models.TaskFile{},
		&models.Notification{},
		&models.ActivityLog{},
		&models.TimeEntry{},
		&models.PasswordResetToken{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	fileRepo := repository.NewTaskFileRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	timeEntryRepo := repository.NewTimeEntryRepository(db)

	hub := ws.NewHub()
	dispatcher := notify.NewDispatcher(notificationRepo, hub, nil, "no-reply@test.local")
	recorder := activity.NewRecorder(activityRepo)

	authService := services.NewAuthService(userRepo, nil, "no-reply@test.local", "http://localhost:3000")
	teamService := services.NewTeamService(teamRepo, userRepo, dispatcher, "http://localhost:3000")
	projectService := services.NewProjectService(projectRepo, teamRepo, taskRepo, recorder)
	taskService := services.NewTaskService(taskRepo, projectRepo, teamRepo, userRepo, dispatcher, recorder)
	commentService := services.NewCommentService(commentRepo, taskRepo, projectRepo, teamRepo, userRepo, dispatcher, recorder)
	fileService := services.NewTaskFileService(fileRepo, taskRepo, projectRepo, teamRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	activityService := services.NewActivityService(recorder, projectRepo, teamRepo, taskRepo)
	timeEntryService := services.NewTimeEntryService(timeEntryRepo, taskRepo, projectRepo, teamRepo)

	authHandler := NewAuthHandler(authService, teamService)
	teamHandler := NewTeamHandler(teamService)
	projectHandler := NewProjectHandler(projectService)
	taskHandler := NewTaskHandler(taskService)
	commentHandler := NewCommentHandler(commentService)
	fileHandler := NewTaskFileHandler(fileService)
	notificationHandler := NewNotificationHandler(notificationService)
	activityHandler := NewActivityHandler(activityService)
	timeEntryHandler := NewTimeEntryHandler(timeEntryService)

	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	api := r.Group("/api")
	{
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

		api.GET("/invites", middleware.RequireAuth(), teamHandler.ListInvites)

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

		comments := api.Group("/comments")
		comments.Use(middleware.RequireAuth())
		{
			comments.PATCH("/:id", commentHandler.UpdateComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}

		files := api.Group("/files")
		files.Use(middleware.RequireAuth())
		{
			files.DELETE("/:id", fileHandler.DeleteFile)
		}

		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
		}

		api.GET("/activity", middleware.RequireAuth(), activityHandler.ListActivity)
	}

	return &handlerTestEnv{
		db:          db,
		router:      r,
		hub:         hub,
		authService: authService,
		teamService: teamService,
		taskService: taskService,
	}
}

// registerAndLogin creates a user through the API and returns the
// session cookies.
func (e *handlerTestEnv) registerAndLogin(t *testing.T, email string) []*http.Cookie {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"email":    email,
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	return e.login(t, email)
}

func (e *handlerTestEnv) login(t *testing.T, email string) []*http.Cookie {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    email,
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

// do performs a JSON request against the test router.
func (e *handlerTestEnv) do(t *testing.T, method, url string, payload interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func teamURL(teamID uint64, suffix string) string {
	return "/api/teams/" + itoa(teamID) + suffix
}

func taskURL(taskID uint64, suffix string) string {
	return "/api/tasks/" + itoa(taskID) + suffix
}

func projectURL(projectID uint64, suffix string) string {
	return "/api/projects/" + itoa(projectID) + suffix
}
