// Package session resolves the caller's session from token cookies or
// the Authorization header, shared by the web and API handlers.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskmaster/internal/models"
	"github.com/adanyl0v/go-taskmaster/internal/services"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"

	UserIDKey    = "user_id"
	SessionIDKey = "session_id"
)

var ErrNoSession = errors.New("no session")

// Authenticator is the part of services.AuthService the resolver needs.
type Authenticator interface {
	GetSession(ctx context.Context, accessToken, fingerprint string) (*models.Session, error)
	Refresh(ctx context.Context, params services.RefreshParams) (*services.LoginResult, error)
}

type Identity struct {
	UserID    string
	SessionID string
}

type Resolver struct {
	logger        zerolog.Logger
	auth          Authenticator
	secureCookies bool
}

func NewResolver(logger zerolog.Logger, auth Authenticator, secureCookies bool) *Resolver {
	return &Resolver{
		logger:        logger,
		auth:          auth,
		secureCookies: secureCookies,
	}
}

// Resolve validates the access token against the stored session. A
// missing or expired access token is exchanged once for a new pair
// using the refresh token cookie, and the new cookies are set.
func (r *Resolver) Resolve(c *gin.Context) (*Identity, error) {
	fingerprint, err := Fingerprint(c)
	if err != nil {
		return nil, err
	}

	accessToken := AccessToken(c)
	if accessToken != "" {
		s, err := r.auth.GetSession(c, accessToken, fingerprint)
		if err == nil {
			return &Identity{UserID: s.UserID, SessionID: s.ID}, nil
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			r.logger.Debug().
				Err(err).
				Msg("rejected access token")
			return nil, err
		}
	}

	refreshToken, err := c.Cookie(RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		return nil, ErrNoSession
	}

	result, err := r.auth.Refresh(c, services.RefreshParams{
		RefreshToken: refreshToken,
		Fingerprint:  fingerprint,
	})
	if err != nil {
		r.logger.Debug().
			Err(err).
			Msg("failed to refresh session")
		return nil, err
	}
	r.SetTokens(c, result)

	return &Identity{UserID: result.UserID, SessionID: result.SessionID}, nil
}

// Store puts the identity on the gin context for downstream handlers.
func Store(c *gin.Context, id *Identity) {
	c.Set(UserIDKey, id.UserID)
	c.Set(SessionIDKey, id.SessionID)
}

func FromContext(c *gin.Context) (*Identity, bool) {
	userID := c.GetString(UserIDKey)
	sessionID := c.GetString(SessionIDKey)
	if userID == "" || sessionID == "" {
		return nil, false
	}
	return &Identity{UserID: userID, SessionID: sessionID}, true
}

// AccessToken prefers a bearer Authorization header over the cookie.
func AccessToken(c *gin.Context) string {
	const bearerPrefix = "Bearer "
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	token, _ := c.Cookie(AccessTokenCookie)
	return token
}

func Fingerprint(c *gin.Context) (string, error) {
	fingerprintBytes, err := json.Marshal(map[string]string{
		"client_ip":  c.ClientIP(),
		"user_agent": c.Request.UserAgent(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal json: %w", err)
	}
	return string(fingerprintBytes), nil
}

func (r *Resolver) SetTokens(c *gin.Context, result *services.LoginResult) {
	now := time.Now()
	// The access token stays readable by scripts so API clients can
	// send it in the Authorization header.
	c.SetCookie(AccessTokenCookie, result.AccessToken,
		int(result.AccessTokenExpiresAt.Sub(now).Seconds()),
		"/", "", r.secureCookies, false)
	c.SetCookie(RefreshTokenCookie, result.RefreshToken,
		int(result.RefreshTokenExpiresAt.Sub(now).Seconds()),
		"/", "", r.secureCookies, true)
}

func (r *Resolver) ClearTokens(c *gin.Context) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", r.secureCookies, false)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", r.secureCookies, true)
}
