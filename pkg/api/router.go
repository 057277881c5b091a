package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/urmzd/roombridge/pkg/api/handlers"
	"github.com/urmzd/roombridge/pkg/device"
	"github.com/urmzd/roombridge/pkg/device/schema"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine     *gin.Engine
	controller device.Controller
	subscriber device.EventSubscriber
	validator  *schema.Validator
	metrics    http.Handler
}

// NewRouter creates a new API router. metrics may be nil to leave
// /metrics unrouted.
func NewRouter(controller device.Controller, subscriber device.EventSubscriber, validator *schema.Validator, metrics http.Handler) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:     engine,
		controller: controller,
		subscriber: subscriber,
		validator:  validator,
		metrics:    metrics,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	if r.metrics != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metrics))
	}

	// Health check at root
	healthHandler := handlers.NewHealthHandler(r.controller)
	r.engine.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)

		statusHandler := handlers.NewStatusHandler(r.controller)
		v1.GET("/status", statusHandler.Status)
		v1.GET("/descriptor", statusHandler.Descriptor)

		commandsHandler := handlers.NewCommandsHandler(r.controller, r.validator)
		v1.POST("/commands", commandsHandler.SendCommand)
		v1.PUT("/maintenance", commandsHandler.SetMaintenance)

		eventsHandler := handlers.NewEventsHandler(r.subscriber)
		v1.GET("/events", eventsHandler.Events)
	}
}

// Handler returns the HTTP handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}

// Serve runs the HTTP server until ctx is done, then shuts it down.
func (r *Router) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
