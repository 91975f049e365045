// Package api provides the REST monitor server for physiccs
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/drmarkreuter/physiCCs/internal/midiout"
)

// Server exposes the running simulation read-only over HTTP.
type Server struct {
	store *StateStore
	rec   *midiout.Recorder
}

func NewServer(store *StateStore, rec *midiout.Recorder) *Server {
	return &Server{store: store, rec: rec}
}

// StartServer runs the monitor API on the specified port
func StartServer(store *StateStore, rec *midiout.Recorder, port int) error {
	return NewServer(store, rec).Run(port)
}

// Run blocks serving the API on the given port.
func (s *Server) Run(port int) error {
	return s.router().Run(fmt.Sprintf(":%d", port))
}

func (s *Server) router() *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", s.healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", s.healthCheck)
		v1.GET("/snapshot", s.getSnapshot)
		v1.GET("/ports", s.listPorts)
		v1.GET("/messages", s.listMessages)
	}

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "physiccs",
	})
}

// getSnapshot returns the most recent per-tick state. 503 until the
// loop has published at least once.
func (s *Server) getSnapshot(c *gin.Context) {
	snap, ok := s.store.Latest()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot published yet"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) listPorts(c *gin.Context) {
	names, err := midiout.Ports()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ports": names})
}

// listMessages returns the most recent wire emissions, newest last.
// The limit query parameter caps the count (default 32).
func (s *Server) listMessages(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "32"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	var msgs []midiout.Message
	if s.rec != nil {
		msgs = s.rec.Messages()
	}
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	c.JSON(http.StatusOK, gin.H{
		"messages": msgs,
		"count":    len(msgs),
	})
}
