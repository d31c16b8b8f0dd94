package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	handlers "github.com/modsentry/modsentry/pkg/handlers/http"
	"github.com/modsentry/modsentry/pkg/middleware"
)

var ErrIncompleteHandlerTransport = errors.New("incomplete handler transport")

type engineRouter struct {
	middlewareTransport middleware.Transport
	handlerTransport    handlers.HandlerTransport
}

func NewEngineRouter(
	middlewareTransport middleware.Transport,
	handlerTransport handlers.HandlerTransport,
) ServerRouter {
	return &engineRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

func (r *engineRouter) BuildRoutes(router *fiber.App) error {
	t := r.handlerTransport
	if t.CreateSessionHandler == nil ||
		t.GetSessionHandler == nil ||
		t.StopSessionHandler == nil ||
		t.AnalyzeContentHandler == nil ||
		t.BatchAnalyzeHandler == nil ||
		t.GetAnalyticsHandler == nil ||
		t.DemoDataHandler == nil {
		return ErrIncompleteHandlerTransport
	}

	if r.middlewareTransport.PanicRecoverMiddleware != nil {
		router.Use(r.middlewareTransport.PanicRecoverMiddleware.Middleware())
	}
	if r.middlewareTransport.MetricsMiddleware != nil {
		router.Use(r.middlewareTransport.MetricsMiddleware.Middleware())
	}

	router.Get("/demo-data", t.DemoDataHandler.Handle)

	sessions := router.Group("/sessions")
	{
		sessions.Post("", t.CreateSessionHandler.Handle)
		sessions.Get("/:session_id", t.GetSessionHandler.Handle)
		sessions.Post("/:session_id/stop", t.StopSessionHandler.Handle)
		sessions.Post("/:session_id/analyze", t.AnalyzeContentHandler.Handle)
		sessions.Post("/:session_id/batch-analyze", t.BatchAnalyzeHandler.Handle)
		sessions.Get("/:session_id/analytics", t.GetAnalyticsHandler.Handle)
	}

	return nil
}
