// Package app wires configuration, stores, sinks and the dispatch
// manager into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ahmedNJ467/koormatics-dispatch/api/assignments"
	"github.com/ahmedNJ467/koormatics-dispatch/api/resources"
	"github.com/ahmedNJ467/koormatics-dispatch/api/trips"
	"github.com/ahmedNJ467/koormatics-dispatch/config"
	"github.com/ahmedNJ467/koormatics-dispatch/core/assignmentlog"
	"github.com/ahmedNJ467/koormatics-dispatch/core/dispatch"
	coremetrics "github.com/ahmedNJ467/koormatics-dispatch/core/metrics"
	coremon "github.com/ahmedNJ467/koormatics-dispatch/core/monitoring"
	"github.com/ahmedNJ467/koormatics-dispatch/infra/booking"
	"github.com/ahmedNJ467/koormatics-dispatch/infra/logger"
	"github.com/ahmedNJ467/koormatics-dispatch/infra/metrics"
	"github.com/ahmedNJ467/koormatics-dispatch/infra/monitoring"
	"github.com/ahmedNJ467/koormatics-dispatch/infra/notify"
	"github.com/ahmedNJ467/koormatics-dispatch/infra/storage"
	"github.com/ahmedNJ467/koormatics-dispatch/internal/eventbus"
)

// Service orchestrates the dispatch manager, stores and API server.
type Service struct {
	Manager *dispatch.DispatchManager

	cfg     *config.Config
	bus     eventbus.EventBus
	sink    coremetrics.MetricsSink
	store   assignmentlog.Store
	monitor coremon.Monitor
	log     logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	monitor, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(monitor)

	tripSrc, driverSrc, vehicleSrc, err := buildSources(cfg, logg)
	if err != nil {
		return nil, err
	}

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink
	switch len(sinks) {
	case 0:
		sink = coremetrics.NopSink{}
	case 1:
		sink = sinks[0]
	default:
		sink = metrics.NewMultiSink(sinks...)
	}

	var notifier dispatch.Notifier
	if cfg.Notify.Broker != "" {
		n, err := notify.NewMQTTNotifier(cfg.Notify)
		if err != nil {
			return nil, fmt.Errorf("mqtt notifier: %w", err)
		}
		notifier = n
	} else {
		notifier = notify.NewLogNotifier(logger.New("notify"))
	}

	bus := eventbus.New()
	manager, err := dispatch.NewDispatchManager(tripSrc, driverSrc, vehicleSrc, cfg.Dispatch, sink, bus, notifier, logg)
	if err != nil {
		return nil, fmt.Errorf("dispatch manager: %w", err)
	}

	store, err := buildLogStore(cfg.AssignmentLog)
	if err != nil {
		return nil, fmt.Errorf("assignment log: %w", err)
	}
	manager.SetLogStore(store)

	return &Service{
		Manager: manager,
		cfg:     cfg,
		bus:     bus,
		sink:    sink,
		store:   store,
		monitor: monitor,
		log:     logg,
	}, nil
}

func buildSources(cfg *config.Config, logg logger.Logger) (dispatch.TripSource, dispatch.DriverSource, dispatch.VehicleSource, error) {
	switch cfg.Storage.Backend {
	case "memory":
		s := storage.NewMemoryStore()
		return s, s, s, nil
	case "sqlite":
		s, err := storage.NewSQLiteStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("sqlite store: %w", err)
		}
		return s, s, s, nil
	case "booking":
		c := booking.NewClient(cfg.Booking, logg)
		return c, c, c, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %s", cfg.Storage.Backend)
	}
}

func buildLogStore(cfg config.AssignmentLogConfig) (assignmentlog.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return assignmentlog.NewSQLiteStore(cfg.Path)
	default:
		return assignmentlog.NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	}
}

// Run starts the API server and background loops, blocking until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, ":"+s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	go s.scanLoop(ctx)

	mux := http.NewServeMux()
	mux.Handle("/api/trips/conflicts", trips.NewConflictHandler(s.Manager))
	mux.Handle("/api/trips/assignment", trips.NewAssignmentHandler(s.Manager))
	mux.Handle("/api/resources/availability", resources.NewAvailabilityHandler(s.Manager))
	mux.Handle("/api/assignments", assignments.NewLogHandler(s.store, s.cfg.HTTP.APIToken))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              s.cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api server shutdown: %v", err)
		}
	}()
	s.log.Infof("api server listening on %s", s.cfg.HTTP.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// scanLoop runs the advisory conflict scan periodically so dashboards
// stay current even when nobody is editing.
func (s *Service) scanLoop(ctx context.Context) {
	defer coremon.Recover()
	interval := time.Duration(s.cfg.Storage.PollIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rep, err := s.Manager.ScanConflicts(ctx)
			if err != nil {
				s.log.Errorf("conflict scan: %v", err)
				coremon.CaptureException(err, map[string]string{"module": "scan_loop"})
				continue
			}
			if !rep.Empty() {
				s.log.Warnf("conflict scan flagged %d trips", rep.TripCount())
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	err := s.Manager.Close()
	s.monitor.Flush(2 * time.Second)
	return err
}
