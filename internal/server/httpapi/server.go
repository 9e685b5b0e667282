// Package httpapi exposes the REST surface. Handlers only translate
// between HTTP and the service layer; authorization decisions live in the
// policy package, invoked by the services.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ttakano/climblog/internal/logging"
	"github.com/ttakano/climblog/internal/server/services"
)

type Server struct {
	address   string
	engine    *gin.Engine
	logger    logging.Logger
	users     *services.UserService
	mountains *services.MountainService
	records   *services.RecordService
}

func NewServer(a string, l logging.Logger, us *services.UserService, ms *services.MountainService, rs *services.RecordService) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		address:   a,
		engine:    gin.New(),
		logger:    l.With("module", "httpapi"),
		users:     us,
		mountains: ms,
		records:   rs,
	}
	s.engine.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

// Engine exposes the router so the web surface can attach its routes to
// the same listener.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api", s.resolvePrincipal())
	{
		api.GET("/ping", s.ping)

		api.GET("/mountains", s.listMountains)
		api.GET("/mountains/:id", s.getMountain)
		api.POST("/mountains", s.createMountain)
		api.PATCH("/mountains/:id", s.updateMountain)
		api.DELETE("/mountains/:id", s.deleteMountain)

		api.GET("/records", s.listRecords)
		api.GET("/records/:id", s.getRecord)
		api.POST("/records", s.createRecord)
		api.PATCH("/records/:id", s.updateRecord)
		api.DELETE("/records/:id", s.deleteRecord)
		api.POST("/records/:id/photo", s.attachPhoto)

		api.GET("/users", s.listUsers)
		api.POST("/register", s.register)
	}
}

func (s *Server) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
