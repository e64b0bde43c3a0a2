package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskmaster/internal/delivery/http/session"
	"github.com/adanyl0v/go-taskmaster/internal/services"
)

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email,max=255"`
	Password string `json:"password" form:"password" binding:"required,min=6,max=255"`
}

type registerRequest struct {
	loginRequest
}

type tokensResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

func newTokensResponse(result *services.LoginResult) tokensResponse {
	return tokensResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.AccessTokenExpiresAt.Unix(),
	}
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	err := c.ShouldBind(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	fingerprint, err := session.Fingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	result, err := h.auth.Login(c, services.LoginParams{
		Email:       req.Email,
		Password:    req.Password,
		Fingerprint: fingerprint,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrUserPasswordMismatch):
			abort(c, newUnauthorizedError(err.Error()))
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to login")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	h.sessions.SetTokens(c, result)
	c.JSON(http.StatusOK, newTokensResponse(result))
}

func (h *handlerImpl) HandleRefresh(c *gin.Context) {
	refreshToken, err := c.Cookie(session.RefreshTokenCookie)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to get refresh token cookie")
		abort(c, newBadRequestError(errMandatoryCookieNotFound.Error()))
		return
	}

	fingerprint, err := session.Fingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	result, err := h.auth.Refresh(c, services.RefreshParams{
		RefreshToken: refreshToken,
		Fingerprint:  fingerprint,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound),
			errors.Is(err, services.ErrSessionExpired):
			abort(c, newUnauthorizedError(err.Error()))
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to refresh session")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	h.sessions.SetTokens(c, result)
	c.JSON(http.StatusOK, newTokensResponse(result))
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req registerRequest
	err := c.ShouldBind(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	fingerprint, err := session.Fingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	result, err := h.auth.Register(c, services.LoginParams{
		Email:       req.Email,
		Password:    req.Password,
		Fingerprint: fingerprint,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserAlreadyExists) {
			abort(c, newConflictError(err.Error()))
			return
		}
		h.logger.Error().
			Err(err).
			Msg("failed to register user")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.sessions.SetTokens(c, result)
	c.JSON(http.StatusCreated, newTokensResponse(result))
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	id, _ := session.FromContext(c)

	err := h.auth.Logout(c, id.UserID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to logout")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.sessions.ClearTokens(c)
	c.Status(http.StatusNoContent)
}
