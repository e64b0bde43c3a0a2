package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adanyl0v/go-taskmaster/internal/config"
	"github.com/adanyl0v/go-taskmaster/internal/delivery/http/session"
	"github.com/adanyl0v/go-taskmaster/internal/delivery/http/v1"
	"github.com/adanyl0v/go-taskmaster/internal/delivery/http/web"
	"github.com/adanyl0v/go-taskmaster/internal/events"
	"github.com/adanyl0v/go-taskmaster/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(requestLogger(globalLogger))
	router.Use(gin.Recovery())
	router.Use(instrumentHTTP())
	bus := events.NewBus(globalLogger)
	mustRegisterRoutes(router, bus)

	server := &http.Server{
		Addr:              net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Event streams never finish on their own.
	server.RegisterOnShutdown(bus.Close)

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func mustRegisterRoutes(router *gin.Engine, bus *events.Bus) {
	cfg := config.Global()
	jwtCfg := cfg.JWT

	sessionService := services.NewSessionService(globalLogger, globalPostgresPool)
	authService := services.NewAuthService(
		globalLogger,
		globalPostgresPool,
		sessionService,
		jwtCfg.Issuer,
		[]byte(jwtCfg.SigningKey),
		jwtCfg.AccessTokenTTL,
		jwtCfg.RefreshTokenTTL,
	)
	taskService := services.NewTaskService(globalLogger, globalPostgresPool)

	resolver := session.NewResolver(globalLogger, authService, cfg.App.SecureCookies)

	router.GET("/healthz", handleHealthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1.Register(router.Group("/api/v1"), v1.New(
		globalLogger,
		authService,
		taskService,
		resolver,
		bus,
	))

	webHandler, err := web.New(
		globalLogger,
		authService,
		taskService,
		resolver,
		bus,
		cfg.App.Location(),
		cfg.App.SecureCookies,
	)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to init web handler")
		panic(err)
	}
	web.Register(router, webHandler)
}

func handleHealthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, 2*time.Second)
	defer cancel()

	if err := globalPostgresPool.Ping(ctx); err != nil {
		globalLogger.Warn().
			Err(err).
			Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
