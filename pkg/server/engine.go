package server

import (
	"fmt"

	"github.com/modsentry/modsentry/pkg/config"
	handlers "github.com/modsentry/modsentry/pkg/handlers/http"
	"github.com/modsentry/modsentry/pkg/middleware"
	"github.com/modsentry/modsentry/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	EngineServerDI struct {
		MiddlewareTransport middleware.Transport
		HandlerTransport    handlers.HandlerTransport
		Config              *config.Config
		Logger              *logrus.Logger
	}
	EngineServer struct {
		*BaseServer
		middlewareTransport middleware.Transport
		handlerTransport    handlers.HandlerTransport
	}
)

func NewEngineServer(di EngineServerDI) *EngineServer {
	return &EngineServer{
		BaseServer:          NewBaseServer(di.Config, di.Logger),
		middlewareTransport: di.MiddlewareTransport,
		handlerTransport:    di.HandlerTransport,
	}
}

func (s *EngineServer) Run() error {
	s.setupHealthCheck()
	s.setupMetricsEndpoint()
	s.WithRouters(router.NewEngineRouter(s.middlewareTransport, s.handlerTransport))

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("starting engine server")
	return s.Router.Listen(addr)
}

func (s *EngineServer) Shutdown() error {
	return s.Router.Shutdown()
}
