package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskmaster/internal/dashboard"
	"github.com/adanyl0v/go-taskmaster/internal/delivery/http/session"
	"github.com/adanyl0v/go-taskmaster/internal/models"
)

func (h *Handler) HandleDashboard(c *gin.Context) {
	h.renderDashboard(c, http.StatusOK, dashboard.EmptyFormState())
}

// renderDashboard loads the list and renders the page with form. It
// performs its own session check on top of the guard.
func (h *Handler) renderDashboard(c *gin.Context, status int, form dashboard.FormState, notices ...dashboard.Notice) {
	id, ok := session.FromContext(c)
	if !ok {
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	user, err := h.auth.GetUser(c, id.SessionID)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("session_id", id.SessionID).
			Msg("failed to resolve dashboard user")
		h.sessions.ClearTokens(c)
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	list := dashboard.NewTaskList(h.logger, h.tasks, h.broker, id.UserID)
	_ = list.Load(c)

	view := dashboardView{
		viewContext: viewContext{
			Email:   user.Email,
			Theme:   h.theme(c),
			Notices: append(append(h.popFlash(c), notices...), list.Notices()...),
		},
		Form:  form,
		Tasks: list.Views(time.Now().In(h.location)),
		Priorities: []models.Priority{
			models.PriorityLow,
			models.PriorityMedium,
			models.PriorityHigh,
		},
	}
	c.HTML(status, "dashboard.html", view)
}

func (h *Handler) HandleCreateTask(c *gin.Context) {
	id, ok := session.FromContext(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, loginPath)
		return
	}

	var in dashboard.FormInput
	if err := c.ShouldBind(&in); err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind task form")
	}

	form := dashboard.NewTaskForm(h.logger, h.auth, h.tasks, h.broker, h.location)
	result := form.Submit(c, id.SessionID, in)

	switch {
	case result.State.HasErrors():
		h.renderDashboard(c, http.StatusUnprocessableEntity, result.State)
	case errors.Is(result.Err, dashboard.ErrUnauthenticated):
		h.setFlash(c, *result.Notice)
		c.Redirect(http.StatusSeeOther, loginPath)
	case result.Err != nil:
		h.renderDashboard(c, http.StatusInternalServerError, result.State, *result.Notice)
	default:
		h.setFlash(c, *result.Notice)
		c.Redirect(http.StatusSeeOther, homePath)
	}
}

type toggleTaskForm struct {
	Status string `form:"status"`
}

func (h *Handler) HandleToggleTask(c *gin.Context) {
	id, ok := session.FromContext(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, loginPath)
		return
	}

	var req toggleTaskForm
	_ = c.ShouldBind(&req)
	current, err := models.ParseStatus(req.Status)
	if err != nil {
		h.setFlash(c, dashboard.Failure(err.Error()))
		c.Redirect(http.StatusSeeOther, homePath)
		return
	}

	list := dashboard.NewTaskList(h.logger, h.tasks, h.broker, id.UserID)
	_ = list.ToggleStatus(c, c.Param("id"), current)

	h.setFlash(c, list.Notices()...)
	c.Redirect(http.StatusSeeOther, homePath)
}

func (h *Handler) HandleDeleteTask(c *gin.Context) {
	id, ok := session.FromContext(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, loginPath)
		return
	}

	list := dashboard.NewTaskList(h.logger, h.tasks, h.broker, id.UserID)
	_ = list.Delete(c, c.Param("id"))

	h.setFlash(c, list.Notices()...)
	c.Redirect(http.StatusSeeOther, homePath)
}
