// Package main provides the entry point for the sqlmcp MCP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sqlwise/sqlmcp-go/internal/config"
	"github.com/sqlwise/sqlmcp-go/internal/datasource"
	"github.com/sqlwise/sqlmcp-go/internal/embedding"
	"github.com/sqlwise/sqlmcp-go/internal/index"
	"github.com/sqlwise/sqlmcp-go/internal/llm"
	"github.com/sqlwise/sqlmcp-go/internal/metrics"
	"github.com/sqlwise/sqlmcp-go/internal/rules"
	"github.com/sqlwise/sqlmcp-go/internal/scan"
	"github.com/sqlwise/sqlmcp-go/internal/server"
	"github.com/sqlwise/sqlmcp-go/internal/synthesis"
	"github.com/sqlwise/sqlmcp-go/internal/tools"
)

const version = "0.1.0"

func main() {
	cfg := config.Load()

	// Dual output: stderr text + file JSON. Stdout belongs to the MCP
	// transport.
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("sqlmcp starting",
		"version", version,
		"surrealdb_url", cfg.SurrealDBURL,
		"llm_provider", cfg.LLMProvider,
		"llm_model", cfg.LLMModel,
		"embedding_model", cfg.EmbeddingModel,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	collector := metrics.NewCollector()

	embedder, err := embedding.NewOllamaClient(cfg.OllamaHost, cfg.EmbeddingModel, 0)
	if err != nil {
		logger.Error("failed to create embedder", "error", err)
		os.Exit(1)
	}
	embedder.WithMetrics(collector)
	logger.Info("embedder initialized", "model", embedder.Model(), "dimension", embedder.Dimension())

	indexClient, err := index.NewClient(ctx, index.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
		Dimension: embedder.Dimension(),
	}, logger)
	if err != nil {
		logger.Error("failed to connect to index", "error", err)
		os.Exit(1)
	}
	defer func() {
		logger.Info("closing index connection")
		_ = indexClient.Close(context.Background())
	}()
	indexClient.WithMetrics(collector)

	if err := indexClient.InitSchema(ctx); err != nil {
		logger.Error("failed to initialize index schema", "error", err)
		os.Exit(1)
	}

	model, err := llm.NewModel(ctx, cfg)
	if err != nil {
		logger.Error("failed to create chat model", "error", err)
		os.Exit(1)
	}
	model.WithMetrics(collector)

	domainRules, err := rules.Load(cfg.DomainRulesFile)
	if err != nil {
		logger.Error("failed to load domain rules", "file", cfg.DomainRulesFile, "error", err)
		os.Exit(1)
	}
	if !domainRules.Empty() {
		logger.Info("domain rules loaded", "file", cfg.DomainRulesFile)
	}

	registry := datasource.NewRegistry(logger)
	defer registry.Close()

	tracker := scan.NewTracker()
	scanner := scan.NewScanner(
		scan.NewAnnotator(model),
		embedder,
		indexClient,
		tracker,
		cfg.ScanTimeout,
		logger,
	)

	controller := synthesis.NewController(
		synthesis.NewExtractor(model),
		synthesis.NewRetriever(embedder, indexClient),
		synthesis.NewSynthesizer(model, domainRules),
		synthesis.NewReviewer(model, domainRules),
		logger,
	)
	validator := synthesis.NewValidator(controller, logger).WithMetrics(collector)

	srv := server.New(version, logger)
	srv.Setup()

	deps := &tools.Dependencies{
		Config:    cfg,
		Registry:  registry,
		Runner:    validator,
		Scanner:   scanner,
		Tracker:   tracker,
		Collector: collector,
		Logger:    logger,
	}
	tools.RegisterAll(srv.MCPServer(), deps)
	logger.Info("tools registered", "count", 6)

	logger.Info("server ready, awaiting connections")

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
