package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/etherfi-protocol/cash-safe/internal/app"
	"github.com/gin-gonic/gin"
)

// NewRouter registers the API routes
func NewRouter(a *app.App) *gin.Engine {
	if !a.Config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	h := &Handler{App: a}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(a.Logger))

	r.GET("/healthz", h.Health)

	r.GET("/safes", h.ListSafes)
	r.POST("/safes", h.CreateSafe)
	r.GET("/safes/:address", h.GetSafe)
	r.GET("/safes/:address/modules/:module", h.GetModule)
	r.GET("/safes/:address/spending", h.GetSpending)
	r.POST("/safes/:address/digest", h.Digest)
	r.POST("/safes/:address/operations", h.Execute)
	r.POST("/safes/:address/spend", h.Spend)
	r.POST("/safes/:address/withdrawal/process", h.ProcessWithdrawal)

	r.GET("/registry/modules", h.ListModules)
	r.PUT("/registry/modules/:module", h.AllowModule)
	r.DELETE("/registry/modules/:module", h.DisallowModule)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "API route not found"})
	})

	return r
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Serve runs the API on addr until ctx is cancelled
func Serve(ctx context.Context, a *app.App, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("safe API listening", "addr", addr, "chainId", a.Config.ChainID)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.Logger.Info("shutting down safe API")
		return srv.Shutdown(shutdownCtx)
	}
}
