package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/caption-relay/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg                *config.Config
	eventHandler       *Event
	ingestHandler      *Ingest
	translationHandler *Translation
	streamHandler      *Stream
	exportHandler      *Export
	authMiddleware     echo.MiddlewareFunc
	ownerMiddleware    echo.MiddlewareFunc
	metricsHandler     http.Handler
}

// NewRouter creates a new router with all handlers. Nil handlers answer 501.
func NewRouter(
	cfg *config.Config,
	eventHandler *Event,
	ingestHandler *Ingest,
	translationHandler *Translation,
	streamHandler *Stream,
	exportHandler *Export,
	authMiddleware echo.MiddlewareFunc,
	ownerMiddleware echo.MiddlewareFunc,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		cfg:                cfg,
		eventHandler:       eventHandler,
		ingestHandler:      ingestHandler,
		translationHandler: translationHandler,
		streamHandler:      streamHandler,
		exportHandler:      exportHandler,
		authMiddleware:     authMiddleware,
		ownerMiddleware:    ownerMiddleware,
		metricsHandler:     metricsHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	if rt.metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(rt.metricsHandler))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	rt.setupEventRoutes(v1)
	rt.setupTranslationRoutes(v1)
}

// setupEventRoutes configures event, transcript, ingest and stream routes.
// Reads are public like the viewer page; writes need the event owner.
func (rt *Router) setupEventRoutes(g *echo.Group) {
	events := g.Group("/events")
	owner := []echo.MiddlewareFunc{rt.authMiddleware, rt.ownerMiddleware}

	if rt.eventHandler != nil {
		events.POST("", rt.eventHandler.CreateEvent, rt.authMiddleware)
		events.GET("", rt.eventHandler.ListEvents, rt.authMiddleware)
		events.GET("/:id", rt.eventHandler.GetEvent)
		events.GET("/:id/segments", rt.eventHandler.ListSegments)
		events.GET("/:id/translations", rt.eventHandler.ListTranslations)
		events.GET("/:id/languages", rt.eventHandler.ListLanguages)
		events.GET("/:id/partial", rt.eventHandler.GetPartial)
		events.PUT("/:id/languages/:code", rt.eventHandler.SetLanguage, owner...)
		events.GET("/:id/dispatch-runs", rt.eventHandler.ListDispatchRuns, owner...)
	} else {
		events.POST("", rt.notImplemented)
		events.GET("/:id", rt.notImplemented)
	}

	if rt.ingestHandler != nil {
		events.POST("/:id/segments", rt.ingestHandler.AppendSegment, owner...)
		events.POST("/:id/partial", rt.ingestHandler.UpdatePartial, owner...)
	} else {
		events.POST("/:id/segments", rt.notImplemented)
		events.POST("/:id/partial", rt.notImplemented)
	}

	if rt.streamHandler != nil {
		events.GET("/:id/stream", rt.streamHandler.Subscribe)
	} else {
		events.GET("/:id/stream", rt.notImplemented)
	}

	if rt.exportHandler != nil {
		events.GET("/:id/export", rt.exportHandler.ExportTranscript)
		events.GET("/:id/exports", rt.exportHandler.ListExports, owner...)
	} else {
		events.GET("/:id/export", rt.notImplemented)
		events.GET("/:id/exports", rt.notImplemented)
	}
}

// setupTranslationRoutes configures the backfill dispatch route
func (rt *Router) setupTranslationRoutes(g *echo.Group) {
	translations := g.Group("/translations")

	if rt.translationHandler != nil {
		translations.POST("/run", rt.translationHandler.RunTranslations, rt.authMiddleware)
	} else {
		translations.POST("/run", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	environment := "development"
	if rt.cfg != nil {
		environment = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": environment,
	})
}
