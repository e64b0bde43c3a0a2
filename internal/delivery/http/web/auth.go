package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskmaster/internal/dashboard"
	"github.com/adanyl0v/go-taskmaster/internal/delivery/http/session"
	"github.com/adanyl0v/go-taskmaster/internal/services"
)

type credentialsForm struct {
	Email    string `form:"email" binding:"required,email,max=255"`
	Password string `form:"password" binding:"required,min=6,max=255"`
}

func (h *Handler) HandleLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", loginView{
		viewContext: viewContext{
			Theme:   h.theme(c),
			Notices: h.popFlash(c),
		},
		Register: c.Query("mode") == "register",
	})
}

func (h *Handler) HandleLogin(c *gin.Context) {
	h.authenticate(c, false)
}

func (h *Handler) HandleRegister(c *gin.Context) {
	h.authenticate(c, true)
}

func (h *Handler) authenticate(c *gin.Context, register bool) {
	back := loginPath
	if register {
		back = loginPath + "?mode=register"
	}

	var req credentialsForm
	if err := c.ShouldBind(&req); err != nil {
		h.setFlash(c, dashboard.Failure("Enter a valid email and a password of at least 6 characters"))
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	fingerprint, err := session.Fingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		h.setFlash(c, dashboard.Failure(http.StatusText(http.StatusInternalServerError)))
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	params := services.LoginParams{
		Email:       req.Email,
		Password:    req.Password,
		Fingerprint: fingerprint,
	}
	var result *services.LoginResult
	if register {
		result, err = h.auth.Register(c, params)
	} else {
		result, err = h.auth.Login(c, params)
	}
	if err != nil {
		var notice dashboard.Notice
		switch {
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrUserPasswordMismatch):
			notice = dashboard.Failure("Invalid email or password")
		case errors.Is(err, services.ErrUserAlreadyExists):
			notice = dashboard.Failure("User already exists")
		default:
			h.logger.Error().
				Err(err).
				Bool("register", register).
				Msg("failed to authenticate")
			notice = dashboard.Failure("Authentication failed")
		}
		h.setFlash(c, notice)
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	h.sessions.SetTokens(c, result)
	c.Redirect(http.StatusSeeOther, homePath)
}

// HandleSignOut deletes the user's sessions and sends the browser home,
// where the guard takes over.
func (h *Handler) HandleSignOut(c *gin.Context) {
	notice := dashboard.Success("Successfully signed out")

	id, ok := session.FromContext(c)
	if !ok {
		notice = dashboard.Failure("Error signing out")
	} else if err := h.auth.Logout(c, id.UserID); err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", id.UserID).
			Msg("failed to sign out")
		notice = dashboard.Failure("Error signing out")
	}

	h.sessions.ClearTokens(c)
	h.setFlash(c, notice)
	c.Redirect(http.StatusSeeOther, homePath)
}
