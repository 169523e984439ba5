package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":          "ok",
			"uptime":          time.Since(s.started).String(),
			"component":       s.cfg.Component,
			"version":         "0.1.0",
			"mode":            s.backend.Mode(),
			"backend_running": s.backend.BackendRunning(),
		})
	})

	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine.GET("/backend/port", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"port": s.backend.BackendPort(),
		})
	})

	s.engine.POST("/backend/terminate", func(c *gin.Context) {
		if err := s.backend.TerminateBackend(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.engine.GET("/backend/events", s.handleEvents)
}
