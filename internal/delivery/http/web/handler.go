// Package web serves the server-rendered dashboard and login pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskmaster/internal/delivery/http/session"
	"github.com/adanyl0v/go-taskmaster/internal/events"
	"github.com/adanyl0v/go-taskmaster/internal/services"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Broker delivers task events to open dashboards.
type Broker interface {
	events.Publisher
	Subscribe(userID string) (<-chan events.Event, func())
	SubscriberCount(userID string) int
}

type Handler struct {
	logger        zerolog.Logger
	auth          services.AuthService
	tasks         services.TaskService
	sessions      *session.Resolver
	broker        Broker
	location      *time.Location
	secureCookies bool
	templates     *template.Template
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	taskService services.TaskService,
	resolver *session.Resolver,
	broker Broker,
	location *time.Location,
	secureCookies bool,
) (*Handler, error) {
	if location == nil {
		location = time.UTC
	}
	h := &Handler{
		logger:        logger,
		auth:          authService,
		tasks:         taskService,
		sessions:      resolver,
		broker:        broker,
		location:      location,
		secureCookies: secureCookies,
	}

	tmpl, err := template.New("").
		Funcs(h.templateFuncs()).
		ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	h.templates = tmpl
	return h, nil
}

// Register installs the templates on engine and mounts the pages
// behind the session guard.
func Register(engine *gin.Engine, h *Handler) {
	engine.SetHTMLTemplate(h.templates)

	router := engine.Group("/", h.HandleGuard)
	router.GET("/", h.HandleDashboard)
	router.GET("/login", h.HandleLoginPage)
	router.GET("/events", h.HandleEvents)
	router.POST("/theme", h.HandleToggleTheme)

	router.POST("/tasks", h.HandleCreateTask)
	router.POST("/tasks/:id/toggle", h.HandleToggleTask)
	router.POST("/tasks/:id/delete", h.HandleDeleteTask)

	router.POST("/auth/login", h.HandleLogin)
	router.POST("/auth/register", h.HandleRegister)
	router.POST("/auth/signout", h.HandleSignOut)
}
