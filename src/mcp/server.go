// Package mcp exposes the TruthLens tool surface via a lightweight
// MCP-inspired HTTP API.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/truthlens/truthlens/src/analysis"
	"github.com/truthlens/truthlens/src/cache"
	"github.com/truthlens/truthlens/src/claims"
	"github.com/truthlens/truthlens/src/ingest"
	"github.com/truthlens/truthlens/src/registry"
	"github.com/truthlens/truthlens/src/sources"
)

const (
	platformName    = "TruthLens"
	platformVersion = "0.1.0"

	maxRequestBytes = 1 * 1024 * 1024
)

// Config controls the MCP server runtime.
type Config struct {
	ListenAddr string
	AuthToken  string
	AIEnabled  bool
	Logger     *log.Logger
}

// Deps collects the components the tool handlers orchestrate.
type Deps struct {
	Fetcher   *ingest.Fetcher
	Extractor *claims.Extractor
	Verifier  *claims.Verifier
	Pipeline  *analysis.Pipeline
	News      *sources.NewsAPIClient
	Reddit    *sources.RedditClient
	Registry  *registry.Registry
	Cache     *cache.Cache
}

// Server routes tool invocations to their handlers.
type Server struct {
	deps       Deps
	cfg        Config
	handlers   map[string]toolHandler
	httpServer *http.Server
}

type toolHandler func(ctx context.Context, args json.RawMessage) (any, error)

// NewServer constructs a server bound to the provided components.
func NewServer(cfg Config, deps Deps) (*Server, error) {
	if deps.Registry == nil {
		return nil, fmt.Errorf("mcp: registry is required")
	}
	if deps.Fetcher == nil || deps.Extractor == nil || deps.Verifier == nil || deps.Pipeline == nil {
		return nil, fmt.Errorf("mcp: fetcher, extractor, verifier and pipeline are required")
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		cfg.ListenAddr = "127.0.0.1:7080"
	}

	s := &Server{deps: deps, cfg: cfg}
	s.handlers = map[string]toolHandler{
		"ingest_url":           s.handleIngestURL,
		"extract_claims":       s.handleExtractClaims,
		"verify_claim":         s.handleVerifyClaim,
		"search_news":          s.handleSearchNews,
		"analyze_source":       s.handleAnalyzeSource,
		"get_trending_misinfo": s.handleTrendingMisinfo,
		"setup_monitor":        s.handleSetupMonitor,
	}
	return s, nil
}

// Start begins serving requests until the context is cancelled or Stop is
// called.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("mcp: listen %s: %w", s.cfg.ListenAddr, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logf("listening on %s", s.cfg.ListenAddr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the HTTP handler, exported for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.wrapAuth(s.handleHealth))
	mux.HandleFunc("/v1/tools", s.wrapAuth(s.handleListTools))
	mux.HandleFunc("/v1/tools/", s.wrapAuth(s.handleInvokeTool))
	mux.HandleFunc("/v1/resources/demo", s.wrapAuth(s.handleDemoResource))
	return mux
}

func (s *Server) wrapAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := strings.TrimSpace(s.cfg.AuthToken); token != "" {
			auth := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")) != token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": ToolDescriptors()})
}

func (s *Server) handleInvokeTool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/tools/"), "/")
	handler, ok := s.handlers[name]
	if !ok {
		http.Error(w, fmt.Sprintf("unknown tool %q", name), http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		http.Error(w, "read request failed", http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	if !json.Valid(body) {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	s.logf("tool %s invoked", name)

	result, err := handler(r.Context(), body)
	if err != nil {
		// Operation failures surface as a result field, not a transport
		// error (and never a crash).
		writeJSON(w, http.StatusOK, map[string]any{
			"error":  err.Error(),
			"status": "failed",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

func (s *Server) handleDemoResource(w http.ResponseWriter, _ *http.Request) {
	mode := "heuristic"
	if s.cfg.AIEnabled {
		mode = "ai"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        platformName,
		"version":     platformVersion,
		"description": "Misinformation surveillance platform",
		"capabilities": []string{
			"Web content ingestion",
			"Claim extraction",
			"Claim verification",
			"News search",
			"Source analysis",
			"Misinformation monitoring",
		},
		"mode":         mode,
		"current_date": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleIngestURL(ctx context.Context, args json.RawMessage) (any, error) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}
	if strings.TrimSpace(req.URL) == "" {
		return nil, fmt.Errorf("url is required")
	}

	key := cache.Key("ingest", req.URL)
	if s.deps.Cache != nil {
		var cached ingest.Document
		if hit, err := s.deps.Cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	doc, err := s.deps.Fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Set(ctx, key, doc); err != nil {
			s.logf("cache ingest result: %v", err)
		}
	}
	return doc, nil
}

func (s *Server) handleExtractClaims(ctx context.Context, args json.RawMessage) (any, error) {
	var req struct {
		Text string `json:"text"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}

	extracted, err := s.deps.Extractor.Extract(ctx, req.Text, req.URL)
	if err != nil {
		return nil, err
	}
	return map[string]any{"claims": extracted}, nil
}

func (s *Server) handleVerifyClaim(ctx context.Context, args json.RawMessage) (any, error) {
	var req struct {
		ClaimText string `json:"claim_text"`
		ClaimID   string `json:"claim_id"`
	}
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}
	if strings.TrimSpace(req.ClaimText) == "" && strings.TrimSpace(req.ClaimID) == "" {
		return nil, fmt.Errorf("claim_text or claim_id is required")
	}
	if req.ClaimID != "" && strings.TrimSpace(req.ClaimText) == "" {
		if _, ok := s.deps.Registry.GetClaim(req.ClaimID); !ok {
			return nil, fmt.Errorf("unknown claim_id %q", req.ClaimID)
		}
	}

	key := cache.Key("verify", req.ClaimText)
	if s.deps.Cache != nil && req.ClaimID == "" {
		var cached registry.Verification
		if hit, err := s.deps.Cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	result := s.deps.Verifier.Verify(ctx, req.ClaimText, req.ClaimID)

	if s.deps.Cache != nil && req.ClaimID == "" {
		if err := s.deps.Cache.Set(ctx, key, result); err != nil {
			s.logf("cache verification result: %v", err)
		}
	}
	return result, nil
}

func (s *Server) handleSearchNews(ctx context.Context, args json.RawMessage) (any, error) {
	var req struct {
		Query  string `json:"query"`
		Source string `json:"source"`
		Limit  int    `json:"limit"`
	}
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}

	var (
		articles []sources.Article
		err      error
	)
	switch strings.ToLower(req.Source) {
	case "", "newsapi":
		articles, err = s.deps.News.Search(ctx, req.Query, req.Limit)
	case "reddit":
		articles, err = s.deps.Reddit.Search(ctx, req.Query, req.Limit)
	default:
		return nil, fmt.Errorf("unknown source %q", req.Source)
	}
	if err != nil {
		return nil, err
	}
	return map[string]any{"articles": articles}, nil
}

func (s *Server) handleAnalyzeSource(ctx context.Context, args json.RawMessage) (any, error) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}
	if strings.TrimSpace(req.URL) == "" {
		return nil, fmt.Errorf("url is required")
	}

	return s.deps.Pipeline.AnalyzeSource(ctx, req.URL)
}

func (s *Server) handleTrendingMisinfo(_ context.Context, args json.RawMessage) (any, error) {
	var req struct {
		Topic string `json:"topic"`
		Limit int    `json:"limit"`
	}
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}

	return map[string]any{"trending": s.deps.Registry.Trending(req.Topic, req.Limit)}, nil
}

func (s *Server) handleSetupMonitor(_ context.Context, args json.RawMessage) (any, error) {
	var req struct {
		Keywords  []string `json:"keywords"`
		Threshold float64  `json:"threshold"`
	}
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}
	if len(req.Keywords) == 0 {
		return nil, fmt.Errorf("keywords are required")
	}
	if req.Threshold <= 0 {
		req.Threshold = 0.6
	}

	m := &registry.Monitor{
		ID:        "monitor_" + uuid.NewString()[:8],
		Keywords:  req.Keywords,
		Threshold: req.Threshold,
		Status:    "active",
		CreatedAt: time.Now().UTC(),
	}
	s.deps.Registry.PutMonitor(m)
	return m, nil
}

func (s *Server) logf(format string, args ...any) {
	if s.cfg.Logger == nil {
		return
	}
	s.cfg.Logger.Printf(format, args...)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
