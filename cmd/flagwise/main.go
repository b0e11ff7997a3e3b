package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/flagwise/flagwise/pkg/config"
	"github.com/flagwise/flagwise/pkg/engine/evaluator"
	"github.com/flagwise/flagwise/pkg/engine/pipeline"
	"github.com/flagwise/flagwise/pkg/engine/ruleset"
	handlers "github.com/flagwise/flagwise/pkg/handlers/http"
	infraAlert "github.com/flagwise/flagwise/pkg/infra/alert"
	"github.com/flagwise/flagwise/pkg/infra/cache"
	"github.com/flagwise/flagwise/pkg/infra/database"
	infraLogger "github.com/flagwise/flagwise/pkg/infra/logger"
	_ "github.com/flagwise/flagwise/pkg/infra/migrations"
	"github.com/flagwise/flagwise/pkg/infra/policy"
	"github.com/flagwise/flagwise/pkg/infra/prometheus"
	"github.com/flagwise/flagwise/pkg/infra/repository"
	"github.com/flagwise/flagwise/pkg/server"
	"github.com/joho/godotenv"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	if err := config.Load("./config"); err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	prometheus.Initialize()

	db, err := database.NewDB(logger, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	cacheClient, err := cache.NewClient(cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		logger.Fatalf("failed to connect to redis: %v", err)
	}

	chatbotRepo := repository.NewChatbotRepository(db.DB)
	ruleRepo := repository.NewRuleRepository(db.DB)
	conversationRepo := repository.NewConversationRepository(db.DB)
	alertRepo := repository.NewAlertRepository(db.DB)

	rules := ruleset.NewStore(logger, ruleRepo)
	if err := rules.Reload(ctx); err != nil {
		logger.WithError(err).Error("failed to load initial rule set")
	}

	policies := policy.NewStore(logger, chatbotRepo, cacheClient)
	publisher := cache.NewInvalidationPublisher(cacheClient)

	sinks := []infraAlert.Sink{
		infraAlert.NewLogSink(logger),
		infraAlert.NewStoreSink(alertRepo),
	}
	if cfg.Alerts.WebhookURL != "" {
		sinks = append(sinks, infraAlert.NewWebhookSink(logger, cfg.Alerts.WebhookURL))
	}
	if cfg.Alerts.Kafka.Enabled {
		kafkaSink, err := infraAlert.NewKafkaSink(cfg.Alerts.Kafka.BootstrapServers, cfg.Alerts.Kafka.Topic)
		if err != nil {
			logger.WithError(err).Error("failed to create kafka sink, alerts will not reach kafka")
		} else {
			sinks = append(sinks, kafkaSink)
		}
	}
	dispatcher := infraAlert.NewDispatcher(logger, cfg.Alerts.BufferSize, cfg.Alerts.Workers, sinks...)
	defer dispatcher.Shutdown()

	eval := evaluator.New(logger, cfg.Engine.ScorerBudget)
	engine := pipeline.New(logger, rules, eval, policies, chatbotRepo, dispatcher)

	listener := cache.NewInvalidationListener(logger, cacheClient, func(ctx context.Context, evt cache.InvalidationEvent) {
		switch evt.Type {
		case cache.RulesChangedEvent:
			if err := rules.Reload(ctx); err != nil {
				logger.WithError(err).Error("failed to reload rule set")
			}
		case cache.ChatbotChangedEvent:
			// Policy entries expire on their own; the publisher already
			// deleted the key on the instance that made the change.
		}
	})
	go listener.Listen(ctx)

	transport := handlers.HandlerTransport{
		MonitorConversationHandler: handlers.NewMonitorConversationHandler(logger, engine, conversationRepo),
		ListConversationsHandler:   handlers.NewListConversationsHandler(logger, conversationRepo),
		ListAlertsHandler:          handlers.NewListAlertsHandler(logger, alertRepo),
		CreateChatbotHandler:       handlers.NewCreateChatbotHandler(logger, chatbotRepo),
		ListChatbotsHandler:        handlers.NewListChatbotsHandler(logger, chatbotRepo),
		GetChatbotHandler:          handlers.NewGetChatbotHandler(logger, chatbotRepo),
		UpdateChatbotHandler:       handlers.NewUpdateChatbotHandler(logger, chatbotRepo, policies, publisher),
		DeleteChatbotHandler:       handlers.NewDeleteChatbotHandler(logger, chatbotRepo, policies, publisher),
		CreateRuleHandler:          handlers.NewCreateRuleHandler(logger, ruleRepo, rules, publisher),
		ListRulesHandler:           handlers.NewListRulesHandler(logger, ruleRepo),
		UpdateRuleHandler:          handlers.NewUpdateRuleHandler(logger, ruleRepo, rules, publisher),
		DeleteRuleHandler:          handlers.NewDeleteRuleHandler(logger, ruleRepo, rules, publisher),
	}

	srv := server.NewAPIServer(server.APIServerDI{
		HandlerTransport: transport,
		Config:           cfg,
		Logger:           logger,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	cancel()
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("failed to shut down server")
	}
}
