package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pavelanni/scanner/internal/handler"
	appI18n "github.com/pavelanni/scanner/internal/i18n"
	"github.com/pavelanni/scanner/internal/llm"
	"github.com/pavelanni/scanner/internal/llm/prompts"
	"github.com/pavelanni/scanner/internal/metrics"
	"github.com/pavelanni/scanner/internal/model"
	"github.com/pavelanni/scanner/internal/quiz"
	"github.com/pavelanni/scanner/internal/sessions"
	"github.com/pavelanni/scanner/internal/store"
)

const (
	sweepInterval   = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP quiz server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "scanner.db", "SQLite database path")
	f.StringP("questions", "q", "", "YAML question bank (empty = built-in bank)")
	f.StringP("lang", "l", "en", "Default UI language (en, id)")
	f.String("base-path", "", "URL prefix for sub-path deployments (e.g. /booth)")
	f.Bool("secure-cookies", true, "Set Secure flag on cookies")
	f.String("admin-password", "", "Initial admin password (or set SCANNER_ADMIN_PASSWORD)")
	f.Duration("session-ttl", 2*time.Hour, "Lifetime of an idle quiz session")
	f.String("redis-addr", "", "Redis address for quiz sessions (empty = in-memory)")
	f.String("redis-password", "", "Redis password")
	f.Int("redis-db", 0, "Redis database number")
	f.String("llm-url", "", "OpenAI-compatible API base URL (empty disables reflections)")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.String("insight-variant", string(prompts.VariantPlayful), "Reflection prompt variant (playful, neutral, coaching)")
	f.String("event", "", "Event name stored with the scans")
	f.String("venue", "", "Venue stored with the scans")
	f.String("date", "", "Event date in YYYY-MM-DD format")
	addLogFlags(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd, os.Stderr)
	v := viperForCmd(cmd)

	// Open database.
	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	// Seed default admin user if no users exist.
	if _, err := db.SeedAdmin(v.GetString("admin-password")); err != nil {
		if errors.Is(err, store.ErrPasswordRequired) {
			return fmt.Errorf("admin password is required: set --admin-password flag or SCANNER_ADMIN_PASSWORD env var")
		}
		return fmt.Errorf("seed admin: %w", err)
	}

	err = db.SetEventInfo(model.EventInfo{
		Event: v.GetString("event"),
		Venue: v.GetString("venue"),
		Date:  v.GetString("date"),
	})
	if err != nil {
		return fmt.Errorf("store event info: %w", err)
	}

	bank, err := loadBank(v.GetString("questions"))
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	if err := checkBank(db, bank); err != nil {
		return err
	}

	// Initialize i18n.
	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	repo, sweep, err := openSessions(cmd.Context(), v.GetString("redis-addr"), v.GetString("redis-password"), v.GetInt("redis-db"), v.GetDuration("session-ttl"))
	if err != nil {
		return err
	}

	insight := newInsighter(cmd.Context(), v.GetString("llm-url"), v.GetString("llm-key"), v.GetString("llm-model"), v.GetString("insight-variant"))

	// Normalize base path.
	basePath := strings.TrimRight(v.GetString("base-path"), "/")
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}

	cfg := model.ScannerConfig{
		BasePath:        basePath,
		SecureCookies:   v.GetBool("secure-cookies"),
		SessionTTL:      v.GetDuration("session-ttl"),
		InsightsEnabled: insight != nil,
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var ins handler.Insighter
	if insight != nil {
		ins = insight
	}
	h, err := handler.New(db, repo, bank, m, ins, cfg)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)
	r.Use(appI18n.Middleware(lang))
	r.Method(http.MethodGet, "/metrics", m.Handler())

	if basePath != "" {
		r.Route(basePath, func(sub chi.Router) {
			sub.Use(h.BasePathMiddleware)
			h.Routes(sub)
		})
		r.Get(basePath, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, basePath+"/quiz", http.StatusMovedPermanently)
		})
	} else {
		r.Group(func(sub chi.Router) {
			sub.Use(h.BasePathMiddleware)
			h.Routes(sub)
		})
	}

	addr := v.GetString("addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server",
			"addr", addr,
			"lang", lang,
			"base_path", basePath,
			"redis", v.GetString("redis-addr") != "",
			"insights", cfg.InsightsEnabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				n, err := db.CleanupExpiredSessions()
				if err != nil {
					slog.Warn("failed to clean up operator sessions", "error", err)
				} else if n > 0 {
					slog.Debug("removed expired operator sessions", "count", n)
				}
				if sweep != nil {
					if n := sweep(); n > 0 {
						slog.Debug("removed idle quiz sessions", "count", n)
					}
				}
			}
		}
	})
	return g.Wait()
}

// checkBank warns when the bank changed under existing scans or no longer
// matches the advertised per-type maximum.
func checkBank(db *store.Store, bank quiz.Bank) error {
	data, err := json.Marshal(bank)
	if err != nil {
		return fmt.Errorf("hash question bank: %w", err)
	}
	hash := sha256sum(data)
	prev, err := db.SwapBankHash(hash)
	if err != nil {
		return fmt.Errorf("record question bank: %w", err)
	}
	if prev != "" && prev != hash {
		count, err := db.ScanCount()
		if err != nil {
			return err
		}
		if count > 0 {
			slog.Warn("question bank changed since earlier scans were recorded", "scans", count)
		}
	}
	if live := bank.MaxPointsPerArchetype(); live != quiz.AdvertisedMaxPoints {
		slog.Warn("question bank does not match advertised max points",
			"advertised", quiz.AdvertisedMaxPoints, "computed", live)
	}
	return nil
}

// openSessions picks the quiz session repository. The returned sweep func is
// nil when the backend expires entries itself.
func openSessions(ctx context.Context, addr, password string, dbNum int, ttl time.Duration) (sessions.Repository, func() int, error) {
	if addr == "" {
		mem := sessions.NewMemoryStore(ttl)
		return mem, mem.Sweep, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbNum,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	slog.Info("using redis for quiz sessions", "addr", addr)
	return sessions.NewRedisStore(client, ttl), nil, nil
}

// newInsighter returns nil when reflections are disabled or the endpoint
// does not answer; the quiz runs without them.
func newInsighter(ctx context.Context, url, key, modelName, variant string) *llm.Client {
	if url == "" {
		return nil
	}
	variant = strings.ToLower(strings.TrimSpace(variant))
	if !prompts.IsValidVariant(variant) {
		slog.Warn("invalid insight-variant, using playful", "variant", variant)
		variant = string(prompts.VariantPlayful)
	}
	client, err := llm.New(url, key, modelName, variant)
	if err != nil {
		slog.Warn("reflections disabled", "error", err)
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		slog.Warn("LLM health check failed, reflections disabled", "url", url, "error", err)
		return nil
	}
	slog.Info("LLM endpoint OK", "url", url, "model", modelName)
	return client
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
