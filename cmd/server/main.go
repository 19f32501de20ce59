package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/agenthands/graphconsole/internal/assist"
	"github.com/agenthands/graphconsole/internal/config"
	"github.com/agenthands/graphconsole/internal/console"
	"github.com/agenthands/graphconsole/internal/datasource"
	"github.com/agenthands/graphconsole/internal/metrics"
	"github.com/agenthands/graphconsole/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ApplyEnv()

	logger := cfg.Log.Logger(os.Stderr)

	manager, err := datasource.New(cfg.DataSourceSpecs(), nil, logger)
	if err != nil {
		log.Fatalf("Failed to configure data sources: %v", err)
	}
	if len(manager.Names()) == 0 {
		logger.Warn("no data sources configured; set NEO4J_HOST or add [datasources] to the config file")
	}

	consoleLog := console.NewLog(os.Stdout)
	manager.Bus().SubscribeQuery(consoleLog)
	manager.Bus().SubscribeMetadata(consoleLog)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metrics.NewRecorder(reg)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}
	manager.Bus().SubscribeQuery(recorder)

	var drafter *assist.Drafter
	if cfg.Assist.Enabled() {
		gen, err := assist.NewGenerator(context.Background(), cfg.Assist)
		if err != nil {
			log.Fatalf("Failed to initialize assistant: %v", err)
		}
		drafter = assist.NewDrafter(gen, cfg.Assist.Prompt)
		logger.Info("query assistant enabled", "provider", cfg.Assist.Provider, "model", cfg.Assist.Model)
	}

	srv := server.NewServer(manager, drafter, reg, logger)
	r := srv.SetupRouter()

	logger.Info("starting server", "addr", cfg.Server.Addr, "datasources", manager.Names())
	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatal(err)
	}
}
