package api

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"promptlab/config"
	"promptlab/evaluator"
)

// Server is the HTTP server exposing the evaluation workflow.
type Server struct {
	engine   *gin.Engine
	server   *http.Server
	eval     *evaluator.Evaluator
	session  *evaluator.Session
	cfg      *config.Config
	staticFS fs.FS
}

// NewServer builds the server with its routes and middleware.
func NewServer(cfg *config.Config, eval *evaluator.Evaluator, session *evaluator.Session, staticFS fs.FS) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(loggerMiddleware())

	s := &Server{
		engine:   engine,
		eval:     eval,
		session:  session,
		cfg:      cfg,
		staticFS: staticFS,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: engine,
		},
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	handler := NewHandler(s.eval, s.session, s.cfg)

	api := s.engine.Group("/api")
	if s.cfg.RatePerMinute > 0 {
		api.Use(rateLimitMiddleware(s.cfg.RatePerMinute))
	}
	{
		// evaluation workflow
		api.POST("/evaluate", handler.Evaluate)
		api.POST("/compare", handler.Compare)
		api.POST("/answer", handler.Answer)

		// session state
		api.GET("/session", handler.GetSession)

		// service status
		api.GET("/status", handler.GetStatus)
	}

	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// embedded frontend
	if s.staticFS != nil {
		s.engine.StaticFS("/static", http.FS(s.staticFS))
		s.engine.GET("/", func(c *gin.Context) {
			data, err := fs.ReadFile(s.staticFS, "index.html")
			if err != nil {
				c.String(http.StatusNotFound, "index.html not found")
				return
			}
			c.Data(http.StatusOK, "text/html; charset=utf-8", data)
		})
	}
}

// Start runs the server until Shutdown or a listen error.
func (s *Server) Start() error {
	log.Printf("[API] listening on http://localhost%s\n", s.server.Addr)
	log.Println("[API] routes:")
	log.Println("  POST /api/evaluate - score a prompt")
	log.Println("  POST /api/compare  - answer original and improved prompts")
	log.Println("  POST /api/answer   - answer a prompt directly")
	log.Println("  GET  /api/session  - current evaluation and comparison")
	log.Println("  GET  /api/status   - service status")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting up to 5s for in-flight requests.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log.Printf("[API] %s %s %d %v\n", c.Request.Method, path, status, latency)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func rateLimitMiddleware(perMinute int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 5)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, slow down",
			})
			return
		}
		c.Next()
	}
}
