package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "SteelPulse/internal/domain/repository"
	"SteelPulse/internal/service/stream"
	"SteelPulse/internal/usecase"
	pkgch "SteelPulse/pkg/clickhouse"
	"SteelPulse/pkg/config"
	xhttp "SteelPulse/pkg/http"
	pkgkafka "SteelPulse/pkg/kafka"
	applogger "SteelPulse/pkg/logger"
	"SteelPulse/pkg/queue"
)

// App encapsulates the entire application lifecycle: HTTP API, refresh
// queue workers, the refresh scheduler and the Kafka event ingest consumer.
type App struct {
	cfg           *config.Config
	logger        *applogger.Logger
	httpHandler   xhttp.Handler
	consumer      *pkgkafka.Consumer
	eventsHandler pkgkafka.MessageHandler
	chClient      *pkgch.Client
	refreshQueue  *queue.RedisQueue
	refresher     *usecase.Refresher
	hub           *stream.Hub
	publisher     domrepo.Publisher

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	httpHandler xhttp.Handler,
	consumer *pkgkafka.Consumer,
	eventsHandler pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	refreshQueue *queue.RedisQueue,
	refresher *usecase.Refresher,
	hub *stream.Hub,
	publisher domrepo.Publisher,
) *App {
	return &App{
		cfg:           cfg,
		logger:        logger,
		httpHandler:   httpHandler,
		consumer:      consumer,
		eventsHandler: eventsHandler,
		chClient:      chClient,
		refreshQueue:  refreshQueue,
		refresher:     refresher,
		hub:           hub,
		publisher:     publisher,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.logger

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Refresh queue workers
	if a.refreshQueue != nil {
		if err := a.refreshQueue.Start(); err != nil {
			l.Error("refresh queue start error", applogger.Error(err))
			return err
		}
	}

	// Refresh scheduler
	if a.refresher != nil {
		a.refresher.Start(ctx)
		l.Info("refresher started", applogger.Duration("interval", a.cfg.Refresh.Interval))
	}

	// Event ingest consumer
	if a.consumer != nil && a.eventsHandler != nil {
		a.consumer.RegisterHandler(a.eventsHandler)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.eventsHandler.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("steelpulse up",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.logger

	if a.refresher != nil {
		a.refresher.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.refreshQueue != nil {
		if err := a.refreshQueue.Stop(shutdownCtx); err != nil {
			l.Warn("refresh queue stop error", applogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.hub != nil {
		a.hub.Shutdown(shutdownCtx)
	}

	if a.httpServer != nil {
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			l.Error("http shutdown error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			l.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	l.RemoveCollector()
	return nil
}
