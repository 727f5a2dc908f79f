package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/truthlens/truthlens/src/ai/core"
	_ "github.com/truthlens/truthlens/src/ai/providers"
	"github.com/truthlens/truthlens/src/analysis"
	"github.com/truthlens/truthlens/src/cache"
	"github.com/truthlens/truthlens/src/claims"
	"github.com/truthlens/truthlens/src/config"
	"github.com/truthlens/truthlens/src/ingest"
	"github.com/truthlens/truthlens/src/mcp"
	"github.com/truthlens/truthlens/src/monitor"
	"github.com/truthlens/truthlens/src/registry"
	"github.com/truthlens/truthlens/src/sources"
	"github.com/truthlens/truthlens/src/webserver"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stderr, "truthlens: ", log.LstdFlags)

	var aiClient core.Client
	if cfg.AI.AIEnabled() {
		client, err := core.NewClient(core.FactoryConfig{
			Provider:  cfg.AI.Provider,
			Model:     cfg.AI.Model,
			GeminiKey: cfg.AI.GeminiKey,
			OpenAIKey: cfg.AI.OpenAIKey,
		})
		if err != nil {
			logger.Printf("ai provider unavailable, using heuristics: %v", err)
		} else {
			aiClient = client
			logger.Printf("ai provider %s ready", cfg.AI.Provider)
		}
	} else {
		logger.Printf("no AI key configured, using heuristic mode")
	}

	resultCache, err := cache.New(cfg.RedisURL, 15*time.Minute)
	if err != nil {
		logger.Fatalf("cache: %v", err)
	}
	defer resultCache.Close()

	reg := registry.New()
	fetcher := ingest.NewFetcher(cfg.Sources.UserAgent)
	wiki := sources.NewWikipediaClient(cfg.Sources.UserAgent)
	factcheck := sources.NewFactCheckClient(cfg.Sources.FactCheckKey)
	news := sources.NewNewsAPIClient(cfg.Sources.NewsAPIKey)
	reddit := sources.NewRedditClient(cfg.Sources.UserAgent)

	extractor := claims.NewExtractor(aiClient, reg)
	verifier := claims.NewVerifier(aiClient, wiki, factcheck, reg)
	pipeline := analysis.NewPipeline(fetcher, extractor, verifier)

	server, err := mcp.NewServer(mcp.Config{
		ListenAddr: cfg.MCPListenAddr,
		AuthToken:  cfg.MCPAuthToken,
		AIEnabled:  aiClient != nil,
		Logger:     logger,
	}, mcp.Deps{
		Fetcher:   fetcher,
		Extractor: extractor,
		Verifier:  verifier,
		Pipeline:  pipeline,
		News:      news,
		Reddit:    reddit,
		Registry:  reg,
		Cache:     resultCache,
	})
	if err != nil {
		logger.Fatalf("mcp server: %v", err)
	}

	var notifier monitor.Notifier
	if cfg.Monitor.DiscordToken != "" && cfg.Monitor.DiscordChannel != "" {
		discord, err := monitor.NewDiscordNotifier(cfg.Monitor.DiscordToken, cfg.Monitor.DiscordChannel)
		if err != nil {
			logger.Printf("discord alerts unavailable: %v", err)
		} else {
			defer discord.Close()
			notifier = discord
		}
	}

	scheduler := monitor.NewScheduler(reg, verifier, notifier,
		time.Duration(cfg.Monitor.IntervalMinutes)*time.Minute)
	if err := scheduler.Start(); err != nil {
		logger.Fatalf("monitor scheduler: %v", err)
	}
	defer scheduler.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.WebListenAddr != "" {
		web := webserver.New(reg)
		go func() {
			if err := web.Run(cfg.WebListenAddr); err != nil {
				logger.Printf("webserver stopped: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigs:
		cancel()
	case err := <-errCh:
		if err != nil {
			logger.Fatalf("mcp server: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Stop(shutdownCtx)
}
