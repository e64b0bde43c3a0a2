package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskmaster/internal/delivery/http/session"
	"github.com/adanyl0v/go-taskmaster/internal/events"
	"github.com/adanyl0v/go-taskmaster/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleSetTaskStatus(c *gin.Context)
	HandleToggleTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	auth     services.AuthService
	tasks    services.TaskService
	sessions *session.Resolver
	events   events.Publisher
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	taskService services.TaskService,
	resolver *session.Resolver,
	publisher events.Publisher,
) Handler {
	return &handlerImpl{
		logger:   logger,
		auth:     authService,
		tasks:    taskService,
		sessions: resolver,
		events:   publisher,
	}
}

// Register mounts the API routes on router.
func Register(router gin.IRouter, h Handler) {
	authRouter := router.Group("/auth")
	authRouter.POST("/login", h.HandleLogin)
	authRouter.POST("/refresh", h.HandleRefresh)
	authRouter.POST("/register", h.HandleRegister)
	authRouter.POST("/logout", h.HandleAuthMiddleware, h.HandleLogout)

	tasksRouter := router.Group("/tasks", h.HandleAuthMiddleware)
	tasksRouter.GET("", h.HandleGetTasks)
	tasksRouter.POST("", h.HandleCreateTask)
	tasksRouter.PATCH("/:id/status", h.HandleSetTaskStatus)
	tasksRouter.POST("/:id/toggle", h.HandleToggleTask)
	tasksRouter.DELETE("/:id", h.HandleDeleteTask)
}
