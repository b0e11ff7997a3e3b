package server

import (
	"fmt"

	"github.com/flagwise/flagwise/pkg/config"
	handlers "github.com/flagwise/flagwise/pkg/handlers/http"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

type (
	APIServerDI struct {
		HandlerTransport handlers.HandlerTransport
		Config           *config.Config
		Logger           *logrus.Logger
	}
	APIServer struct {
		*BaseServer
		handlerTransport handlers.HandlerTransport
	}
)

func NewAPIServer(di APIServerDI) *APIServer {
	return &APIServer{
		BaseServer:       NewBaseServer(di.Config, di.Logger),
		handlerTransport: di.HandlerTransport,
	}
}

func (s *APIServer) Run() error {
	s.Router.Use(recover.New())
	s.setupRoutes()
	s.setupHealthCheck()
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("starting api server")
	return s.Router.Listen(addr)
}

func (s *APIServer) setupRoutes() {
	v1 := s.Router.Group("/api/v1")
	{
		chatbots := v1.Group("/chatbots")
		{
			chatbots.Post("", s.handlerTransport.CreateChatbotHandler.Handle)
			chatbots.Get("", s.handlerTransport.ListChatbotsHandler.Handle)
			chatbots.Get("/:chatbot_id", s.handlerTransport.GetChatbotHandler.Handle)
			chatbots.Put("/:chatbot_id", s.handlerTransport.UpdateChatbotHandler.Handle)
			chatbots.Delete("/:chatbot_id", s.handlerTransport.DeleteChatbotHandler.Handle)

			chatbots.Post("/:chatbot_id/monitor", s.handlerTransport.MonitorConversationHandler.Handle)
		}

		rules := v1.Group("/rules")
		{
			rules.Post("", s.handlerTransport.CreateRuleHandler.Handle)
			rules.Get("", s.handlerTransport.ListRulesHandler.Handle)
			rules.Put("/:rule_id", s.handlerTransport.UpdateRuleHandler.Handle)
			rules.Delete("/:rule_id", s.handlerTransport.DeleteRuleHandler.Handle)
		}

		v1.Get("/conversations", s.handlerTransport.ListConversationsHandler.Handle)
		v1.Get("/alerts", s.handlerTransport.ListAlertsHandler.Handle)
	}
}

func (s *APIServer) Shutdown() error {
	return s.Router.Shutdown()
}
