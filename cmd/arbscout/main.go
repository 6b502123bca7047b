// Package main is the entry point for arb-scout, a multi-source on-chain
// arbitrage price scanner.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"

	arbitrageApp "github.com/mgodoy/arb-scout/business/arbitrage/app"
	arbitrageInfra "github.com/mgodoy/arb-scout/business/arbitrage/infra"
	blockchainApp "github.com/mgodoy/arb-scout/business/blockchain/app"
	"github.com/mgodoy/arb-scout/business/blockchain/infra/ethereum"
	pricingApp "github.com/mgodoy/arb-scout/business/pricing/app"
	"github.com/mgodoy/arb-scout/business/pricing/infra/univ3"
	"github.com/mgodoy/arb-scout/internal/apm"
	"github.com/mgodoy/arb-scout/internal/config"
	"github.com/mgodoy/arb-scout/internal/health"
	"github.com/mgodoy/arb-scout/internal/logger"
	"github.com/mgodoy/arb-scout/internal/metrics"
	"github.com/mgodoy/arb-scout/internal/resilience"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env if present; absence is fine.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	verbose := flag.Bool("verbose", false, "Report quiet cycles, not just opportunities")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("arb-scout %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		cancel()
	}()

	if err := run(ctx, *configPath, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, verbose bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(os.Stderr, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, nil)
	log.Info(ctx, "starting arb-scout",
		"version", version,
		"environment", cfg.App.Environment,
		"pairs", len(cfg.Pairs),
	)

	// Observability, when enabled: OTLP traces plus a Prometheus scrape
	// endpoint for metrics.
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		traceProvider, err = apm.NewTraceProvider(cfg.Telemetry.ServiceName,
			apm.WithProvider(apm.OTLPProvider, cfg.Telemetry.OTLPEndpoint, log))
		if err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
		log.Info(ctx, "tracing initialized", "endpoint", cfg.Telemetry.OTLPEndpoint)

		if _, err := metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithPrometheus(),
		); err != nil {
			return fmt.Errorf("failed to init metrics: %w", err)
		}

		go func() {
			if err := metrics.ServePrometheusMetrics(cfg.Telemetry.PrometheusPort); err != nil {
				log.Warn(ctx, "metrics server stopped", "error", err)
			}
		}()
		log.Info(ctx, "prometheus metrics server started", "port", cfg.Telemetry.PrometheusPort)
	}
	defer func() {
		if traceProvider != nil {
			_ = traceProvider.Stop()
		}
	}()

	// Shared diagnostics: every resilience outcome in the pipeline lands
	// here, and the health endpoint reads it.
	diagnostics := resilience.NewDiagnosticsAggregator(cfg.Diagnostics.HistoryCap)

	client, err := ethclient.DialContext(ctx, cfg.Ethereum.HTTPURL)
	if err != nil {
		return fmt.Errorf("failed to connect to node: %w", err)
	}
	defer client.Close()
	log.Info(ctx, "node connected", "url", cfg.Ethereum.HTTPURL, "chain_id", cfg.Ethereum.ChainID)

	reader, err := univ3.NewReader(client, cfg.Ethereum.RPCRateLimit, cfg.Ethereum.RPCBurst, log)
	if err != nil {
		return fmt.Errorf("failed to create pool reader: %w", err)
	}

	fetcher, err := pricingApp.NewSourceQuoteFetcher(reader, log)
	if err != nil {
		return fmt.Errorf("failed to create fetcher: %w", err)
	}

	policy := resilience.Policy{
		MaxRetries:         cfg.Retry.MaxRetries,
		BaseDelay:          cfg.Retry.BaseDelay,
		ExponentialBackoff: cfg.Retry.ExponentialBackoff,
	}
	aggregator := pricingApp.NewQuoteAggregator(fetcher, policy, diagnostics, log)

	gasOracle, err := ethereum.NewGasOracle(ethereum.DefaultGasOracleConfig(cfg.Ethereum.HTTPURL), log)
	if err != nil {
		return fmt.Errorf("failed to create gas oracle: %w", err)
	}
	defer gasOracle.Close()
	if err := gasOracle.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect gas oracle: %w", err)
	}
	gasService := blockchainApp.NewGasService(gasOracle)

	detector := arbitrageApp.NewDetector(arbitrageApp.DetectorConfig{
		MinPriceDiffPercent: cfg.Arbitrage.MinPriceDiffPercent,
		TradeSize:           cfg.Arbitrage.TradeSizeDecimal(),
		SlippagePercent:     cfg.Arbitrage.SlippagePercentDecimal(),
		MinProfitThreshold:  cfg.Arbitrage.MinProfitThresholdDecimal(),
	})

	pairs := make([]arbitrageApp.PairSpec, len(cfg.Pairs))
	for i, pc := range cfg.Pairs {
		pairs[i] = arbitrageApp.PairSpec{
			Pair:    pc.Pair(),
			Sources: pc.DomainSources(),
		}
	}

	reporter := arbitrageInfra.NewConsoleReporter(verbose)

	scanner, err := arbitrageApp.NewScanner(
		aggregator,
		detector,
		gasService,
		reporter,
		diagnostics,
		pairs,
		arbitrageApp.ScannerConfig{
			ScanInterval: cfg.Arbitrage.ScanInterval,
			SwapGasLimit: cfg.Arbitrage.SwapGasLimit,
		},
		log,
	)
	if err != nil {
		return fmt.Errorf("failed to create scanner: %w", err)
	}

	healthServer := health.NewServer(cfg.Telemetry.HealthPort, version)
	healthServer.RegisterCheck("pipeline", func(ctx context.Context) (bool, string) {
		return scanner.Healthy()
	})
	healthServer.RegisterCheck("rpc", func(ctx context.Context) (bool, string) {
		if _, err := client.ChainID(ctx); err != nil {
			return false, err.Error()
		}
		return true, "connected"
	})
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", cfg.Telemetry.HealthPort)
	}
	defer func() { _ = healthServer.Stop(context.Background()) }()

	return scanner.Run(ctx)
}
