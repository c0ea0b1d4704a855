package main

import (
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"Warehouse/internal/catalog"
	"Warehouse/internal/config"
	"Warehouse/pkg/kit"
)

func main() {
	service := "warehouse"

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := kit.NewLogger(service, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	s := &catalog.Server{
		Directory:  catalog.NewDirectory(),
		Categories: catalog.NewCategoryRegistry(),
		Log:        log,
	}
	if cfg.WriteLimitPerMin > 0 {
		s.Limiter = kit.NewIPRateLimiter(cfg.WriteLimitPerMin, time.Minute)
	}

	for _, name := range cfg.DefaultWarehouses {
		s.Directory.OpenNamed(name)
		log.Info("warehouse opened", zap.String("warehouse", name))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})

	err = kit.RunHTTPServer(kit.ServerConfig{
		Addr:              ":" + cfg.Http.Port,
		ReadHeaderTimeout: cfg.Http.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Http.ShutdownTimeout,
	}, h, log)
	if err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
