package app

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/resto/internal/health"
	transport "github.com/vladislavdragonenkov/resto/internal/transport/http"
	"github.com/vladislavdragonenkov/resto/internal/version"
)

// Run собирает зависимости и держит HTTP API, сервер метрик и outbox worker
// до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := BuildDependencies(ctx, cfg, version.String())
	if err != nil {
		return err
	}
	defer deps.Close()

	router := transport.NewRouter(transport.RouterDeps{
		Orders:  deps.Orders,
		Cart:    deps.Cart,
		Catalog: deps.Catalog,
		Users:   deps.Users,
		Metrics: deps.Metrics,
	})

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	metricsSrv := newMetricsServer(cfg.MetricsAddr, deps)

	var wg sync.WaitGroup
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	if deps.OutboxWorker != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deps.OutboxWorker.Run(workerCtx)
		}()
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, завершаем серверы")
		err = ctx.Err()
	case err = <-errCh:
		logger.WithError(err).Error("server failed")
	}

	stopWorker()
	shutdownHTTP(apiSrv, cfg, logger)
	shutdownHTTP(metricsSrv, cfg, logger)
	wg.Wait()
	return err
}

func newMetricsServer(addr string, deps *Dependencies) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", deps.Health)
	mux.HandleFunc("/livez", health.LivenessHandler)
	return &http.Server{Addr: addr, Handler: mux}
}

func shutdownHTTP(srv *http.Server, cfg Config, logger *log.Entry) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("http server shutdown failed")
	}
}
