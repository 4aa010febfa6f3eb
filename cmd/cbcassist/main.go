package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/cbcassist/internal/api"
	"github.com/pavelanni/cbcassist/internal/backend"
	"github.com/pavelanni/cbcassist/internal/handler"
	appI18n "github.com/pavelanni/cbcassist/internal/i18n"
	"github.com/pavelanni/cbcassist/internal/llm"
	"github.com/pavelanni/cbcassist/internal/model"
	"github.com/pavelanni/cbcassist/internal/store"
)

const defaultAPIURL = "https://aiko-f4yf.onrender.com"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cbcassist",
		Short: "CBC learning assistant for Kenyan students and teachers",
	}

	serve := serveCmd()
	root.AddCommand(serve, backendCmd(), tokenCmd(), exportCmd(), healthCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `cbcassist --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func addLogFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web front end",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("api-url", defaultAPIURL, "Base URL of the assistant REST API")
	f.Duration("api-timeout", api.DefaultTimeout, "Timeout for each API request")
	f.String("db", "cbcassist.db", "SQLite database path")
	f.StringP("lang", "l", "en", "Default UI language (en, sw)")
	f.String("base-path", "", "URL prefix for sub-path deployments (e.g. /sw)")
	f.Bool("secure-cookies", true, "Set Secure flag on cookies")
	f.Duration("visitor-ttl", 30*24*time.Hour, "Forget visitors idle for longer than this")
	addLogFlags(cmd)
	return cmd
}

func backendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backend",
		Short: "Start the reference REST API backed by an LLM",
		RunE:  runBackend,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8000", "HTTP listen address")
	f.String("db", "cbcassist.db", "SQLite database path (daily tip cache)")
	f.String("llm-provider", llm.ProviderOpenAI, "LLM provider (openai, anthropic, gemini, mock)")
	f.String("llm-url", "", "OpenAI-compatible API base URL (e.g. http://localhost:11434/v1)")
	f.String("llm-key", "", "API key for the LLM provider")
	f.String("llm-model", "", "Model name (provider default when empty)")
	f.Duration("llm-timeout", 90*time.Second, "Timeout for each LLM request")
	f.String("jwt-secret", "", "HS256 secret for bearer tokens (auth disabled when empty)")
	addLogFlags(cmd)
	return cmd
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the reference backend",
		RunE:  runToken,
	}
	f := cmd.Flags()
	f.String("jwt-secret", "", "HS256 secret shared with the backend (required)")
	f.String("subject", "", "Token subject, e.g. a teacher's name (required)")
	f.String("role", string(model.UserTypeTeacher), "Role claim (student, teacher)")
	f.Duration("ttl", 30*24*time.Hour, "Token lifetime (0 = never expires)")
	addLogFlags(cmd)
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export generated teacher documents as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "cbcassist.db", "SQLite database path")
	f.String("kind", "", "Only export one kind (lesson_plan, assessment, scheme_of_work, progress_report)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addLogFlags(cmd)
	return cmd
}

func healthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the REST API is reachable",
		RunE:  runHealth,
	}
	f := cmd.Flags()
	f.String("api-url", defaultAPIURL, "Base URL of the assistant REST API")
	f.Duration("api-timeout", api.DefaultTimeout, "Timeout for each API request")
	f.String("token", "", "Bearer token sent with the request")
	addLogFlags(cmd)
	return cmd
}

func setupLogging(v *viper.Viper) {
	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags, environment and config file to a
// fresh viper instance and configures logging from it.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("CBCASSIST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("cbcassist")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/cbcassist")
	v.AddConfigPath("/etc/cbcassist")
	configErr := v.ReadInConfig()

	setupLogging(v)
	if configErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(configErr, &notFound) {
			slog.Warn("error reading config file", "error", configErr)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}
	return v
}

func normalizeBasePath(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func runServe(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	apiURL := v.GetString("api-url")
	client := api.New(apiURL, api.WithTimeout(v.GetDuration("api-timeout")))

	basePath := normalizeBasePath(v.GetString("base-path"))
	cfg := model.FrontendConfig{
		APIURL:        client.BaseURL(),
		BasePath:      basePath,
		SecureCookies: v.GetBool("secure-cookies"),
		DefaultLang:   lang,
	}

	h, err := handler.New(db, client, cfg)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cleanupVisitors(ctx, db, v.GetDuration("visitor-ttl"))

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))

	if basePath != "" {
		r.Route(basePath, func(sub chi.Router) {
			sub.Use(h.BasePathMiddleware)
			h.Routes(sub)
		})
		r.Get(basePath, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, basePath+"/", http.StatusMovedPermanently)
		})
	} else {
		r.Use(h.BasePathMiddleware)
		h.Routes(r)
	}

	addr := v.GetString("addr")
	slog.Info("starting web front end",
		"addr", addr,
		"api_url", cfg.APIURL,
		"lang", lang,
		"base_path", basePath,
		"secure_cookies", cfg.SecureCookies,
	)
	return http.ListenAndServe(addr, r)
}

// cleanupVisitors forgets idle visitors once an hour until ctx is done.
func cleanupVisitors(ctx context.Context, db *store.Store, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		n, err := db.CleanupStaleVisitors(time.Now().Add(-ttl))
		if err != nil {
			slog.Error("cleanup stale visitors", "error", err)
		} else if n > 0 {
			slog.Info("removed stale visitors", "count", n)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func runBackend(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	llmCfg := llm.Config{
		Provider: strings.ToLower(v.GetString("llm-provider")),
		Model:    v.GetString("llm-model"),
		APIKey:   v.GetString("llm-key"),
		BaseURL:  v.GetString("llm-url"),
		Timeout:  v.GetDuration("llm-timeout"),
	}
	provider, err := llm.New(ctx, llmCfg)
	if err != nil {
		return fmt.Errorf("create LLM provider: %w", err)
	}

	auth := backend.NewAuthenticator(v.GetString("jwt-secret"))
	if !auth.Enabled() {
		slog.Warn("jwt-secret not set, API accepts unauthenticated requests")
	}

	srv, err := backend.New(provider, db, auth)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}
	go purgeDailyTips(ctx, db)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	srv.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting API backend",
		"addr", addr,
		"provider", llmCfg.Provider,
		"model", provider.ModelID(),
		"llm_url", llmCfg.BaseURL,
		"auth", auth.Enabled(),
	)
	return http.ListenAndServe(addr, r)
}

// purgeDailyTips drops cached tips older than yesterday once an hour.
func purgeDailyTips(ctx context.Context, db *store.Store) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		before := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
		if err := db.PurgeDailyTips(before); err != nil {
			slog.Error("purge daily tips", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func runToken(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)

	subject := strings.TrimSpace(v.GetString("subject"))
	if subject == "" {
		return errors.New("--subject is required")
	}
	role := v.GetString("role")
	if !model.UserType(role).Valid() {
		return fmt.Errorf("invalid role %q", role)
	}
	auth := backend.NewAuthenticator(v.GetString("jwt-secret"))
	token, err := auth.Issue(subject, role, v.GetDuration("ttl"))
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}

func runExport(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)

	kind := model.DocumentKind(v.GetString("kind"))
	if kind != "" && !kind.Valid() {
		return fmt.Errorf("unknown document kind %q", kind)
	}

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	docs, err := db.ExportDocuments(kind)
	if err != nil {
		return fmt.Errorf("export documents: %w", err)
	}

	export := model.DocumentExport{
		ExportedAt: time.Now().UTC(),
		Kind:       kind,
		Count:      len(docs),
		Documents:  docs,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = cmd.OutOrStdout()
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, _ = fmt.Fprintln(w)
	slog.Info("exported documents", "count", len(docs), "output", outPath)
	return nil
}

func runHealth(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)

	client := api.New(v.GetString("api-url"), api.WithTimeout(v.GetDuration("api-timeout")))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if token := v.GetString("token"); token != "" {
		ctx = api.WithToken(ctx, token)
	}

	health, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("health check %s: %w", client.BaseURL(), err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n", client.BaseURL(), health.Status)

	subjects, err := client.Subjects(ctx)
	if err != nil {
		return fmt.Errorf("list subjects: %w", err)
	}
	for _, s := range subjects.Subjects {
		fmt.Fprintf(out, "  %s (%s)\n", s.Label, s.Value)
	}
	return nil
}
