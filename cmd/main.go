package main

import (
	"fmt"
	"net/http"
	"net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/kelseyhightower/envconfig"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/eSKylezZ/CloudPriceFinder/env"
	"github.com/eSKylezZ/CloudPriceFinder/options"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/currency"
	log "github.com/eSKylezZ/CloudPriceFinder/pkg/logger"
	cpfprocess "github.com/eSKylezZ/CloudPriceFinder/pkg/process"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/provider"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/provider/hetzner"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/queue"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/service"
)

const (
	metricsPath = "/metrics"
	healthzPath = "/healthz"
	queueName   = "providers"
)

func main() {
	opts := options.ParseArgs()
	logger := log.NewLogger(opts.LogLevel)
	logger.Infof("Starting application with options: %v", opts.String())

	cfg := new(env.Config)
	if err := envconfig.Process("", cfg); err != nil {
		logger.With(log.KeyResult, log.ValueFail).With(log.KeyError, err.Error()).Fatal("Load env config")
	}

	ratesConfig := new(currency.Config)
	if err := envconfig.Process("", ratesConfig); err != nil {
		logger.With(log.KeyResult, log.ValueFail).With(log.KeyError, err.Error()).Fatal("Load exchange rate config")
	}

	rates := currency.NewSource(ratesConfig, logger)

	fetchers, err := buildFetchers(cfg.EnabledProviders, logger)
	if err != nil {
		logger.With(log.KeyResult, log.ValueFail).With(log.KeyError, err.Error()).Fatal("Configure providers")
	}

	cpfProcess := &cpfprocess.Process{
		Fetchers:        fetchers,
		Queue:           queue.NewQueue(queueName),
		Rates:           rates,
		Writer:          cpfprocess.NewWriter(opts.DataDir, logger),
		Cache:           cache.New(cache.NoExpiration, 0),
		ScrapeInterval:  opts.ScrapeInterval,
		WorkersPoolSize: opts.WorkerPoolSize,
		Logger:          logger,
	}

	// Start collection
	go cpfProcess.Start()

	// add debug service.
	if opts.DebugPort > 0 {
		enableDebugging(opts.DebugPort, logger)
	}

	router := mux.NewRouter()
	router.Path(healthzPath).HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	router.Path(metricsPath).Handler(promhttp.Handler())
	service.NewAPI(opts.DataDir, logger).Register(router)

	cpfSvr := service.Server{
		Addr:   fmt.Sprintf(":%d", opts.ListenAddr),
		Logger: logger,
		Router: router,
	}

	// Serve the snapshot API plus the metrics and healthz endpoints
	cpfSvr.Start()
}

// buildFetchers wires one fetcher per enabled provider. Providers without a
// live integration yet get a placeholder that reports an empty catalog.
func buildFetchers(enabled []string, logger *zap.SugaredLogger) (map[schema.Provider]provider.Fetcher, error) {
	fetchers := make(map[schema.Provider]provider.Fetcher, len(enabled))

	for _, name := range enabled {
		p := schema.Provider(name)
		if !p.Known() {
			return nil, fmt.Errorf("unknown provider: %s", name)
		}

		switch p {
		case schema.ProviderHetzner:
			hetznerConfig := new(hetzner.Config)
			if err := envconfig.Process("", hetznerConfig); err != nil {
				return nil, err
			}

			fetchers[p] = hetzner.NewFetcher(hetznerConfig, logger)
		default:
			fetchers[p] = provider.NewPlaceholder(p, logger)
		}
	}

	return fetchers, nil
}

func enableDebugging(debugPort int, log *zap.SugaredLogger) {
	debugRouter := mux.NewRouter()
	// for security reason we always listen on localhost
	debugSvc := service.Server{
		Addr:   fmt.Sprintf("127.0.0.1:%d", debugPort),
		Logger: log,
		Router: debugRouter,
	}

	debugRouter.HandleFunc("/debug/pprof/", pprof.Index)
	debugRouter.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	debugRouter.HandleFunc("/debug/pprof/profile", pprof.Profile)
	debugRouter.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	debugRouter.HandleFunc("/debug/pprof/trace", pprof.Trace)
	debugRouter.Handle("/debug/pprof/block", pprof.Handler("block"))
	debugRouter.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	debugRouter.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	debugRouter.Handle("/debug/pprof/threadcreate", pprof.Handler("threadcreate"))

	go func() {
		debugSvc.Start()
	}()
}
