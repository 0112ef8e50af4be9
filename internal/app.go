package internal

import (
	"context"
	"errors"
	"fmt"
	"lecturebot/internal/catalog"
	"lecturebot/internal/controllers"
	"lecturebot/internal/providers"
	"lecturebot/internal/structures"
	"lecturebot/internal/transport"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	WebServer *http.Server

	conf    *structures.Config
	logger  providers.Logger
	store   catalog.StoreInterface
	poller  transport.PollerInterface
	handler transport.Handler
}

func NewApp(
	conf *structures.Config,
	logger providers.Logger,
	router providers.RouterProviderInterface,
	metrics providers.MetricsProviderInterface,
	store catalog.StoreInterface,
	healthController *controllers.HealthController,
	botController *controllers.BotController,
	poller transport.PollerInterface,
) (*App, error) {
	app := &App{
		conf:    conf,
		logger:  logger,
		store:   store,
		poller:  poller,
		handler: botController,
	}

	if conf.WebServer.Enabled {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", healthController.Health)
		if conf.Metrics.Enabled {
			mux.Handle("/metrics", promhttp.Handler())
		}
		for _, route := range router.GetRoutes() {
			mux.Handle(route.Url, providers.MetricsMiddleware(metrics, route.Url, route.Handler))
		}
		mux.Handle("/", providers.MetricsMiddleware(metrics, "other", http.NotFoundHandler()))

		app.WebServer = &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
	}
	return app, nil
}

// Run loads the catalog, then serves chat updates and HTTP until SIGINT or
// SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)
	doc, err := a.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	a.logger.Infof(providers.TypeApp, "Catalog loaded: %d subjects, %d entries", len(doc.SubjectNames()), doc.EntryCount())
	providers.RegisterCatalogGauges(a.conf, a.store)

	serverErr := make(chan error, 1)
	if a.WebServer != nil {
		go func() {
			a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
			if err := a.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()
	}

	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		a.logger.Infof(providers.TypeBot, "Bot is running...")
		a.poller.Start(ctx, a.handler)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
		stop()
	}
	<-pollerDone

	if a.WebServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.WebServer.Shutdown(shutdownCtx); err != nil && runErr == nil {
			runErr = err
		}
	}
	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return runErr
}

func (a *App) Close() {
	a.logger.Close()
}
