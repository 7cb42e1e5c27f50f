package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/grading"
	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/handler"
	appI18n "github.com/evan-fitzpatrick/dynamicactive-LMS/internal/i18n"
	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/llm"
	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/markdown"
	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/model"
	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/slug"
	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "portal",
		Short: "Teacher/student lesson portal with LLM-assisted grading",
	}

	serve := serveCmd()
	root.AddCommand(serve, seedCmd(), exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `portal --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the portal HTTP server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	addStoreFlags(cmd)
	f.String("portal-seed", "data/seed.json", "Portal seed JSON (brand, student, teacher)")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "", "API key for LLM (or set DYNAMICACTIVE_LLM_KEY)")
	f.String("llm-key-file", "", "File to read the API key from when --llm-key is unset")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.String("judge-variant", string(llm.VariantStandard), "Judge strictness (strict, standard, lenient)")
	f.StringP("lang", "l", "en", "UI language (en, ru)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import lesson bundle files into the document store",
		RunE:  runSeed,
	}
	f := cmd.Flags()
	addStoreFlags(cmd)
	f.StringSliceP("lessons", "f", []string{"data/lessons.json"}, "Paths to lesson bundle JSON files (repeatable)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all lesson documents as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	addStoreFlags(cmd)
	f.String("brand", "", "Brand name included in export metadata")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func addStoreFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("store", "dir", "Lesson store backend (dir, sqlite)")
	f.String("data", "data/lessons", "Lesson directory for the dir backend")
	f.String("db", "portal.db", "SQLite database path for the sqlite backend")
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

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

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("DYNAMICACTIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("portal")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/dynamicactive")
	v.AddConfigPath("/etc/dynamicactive")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// openStore builds the configured document backend. The returned closer is
// a no-op for the directory backend.
func openStore(v *viper.Viper) (*store.Store, func() error, error) {
	switch backend := strings.ToLower(v.GetString("store")); backend {
	case "sqlite":
		db, err := store.NewSQLiteStore(v.GetString("db"))
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store.New(db), db.Close, nil
	case "dir":
		fs, err := store.NewFileStore(v.GetString("data"))
		if err != nil {
			return nil, nil, fmt.Errorf("open lesson directory: %w", err)
		}
		return store.New(fs), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// resolveAPIKey performs the startup credential resolution: the flag/env
// value wins, then the key file. The result is handed to the LLM client as
// an opaque string.
func resolveAPIKey(v *viper.Viper) string {
	if key := strings.TrimSpace(v.GetString("llm-key")); key != "" {
		return key
	}
	path := v.GetString("llm-key-file")
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("could not read LLM key file", "path", path, "error", err)
		return ""
	}
	return strings.TrimSpace(string(data))
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	st, closeStore, err := openStore(v)
	if err != nil {
		return err
	}
	defer closeStore()

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	variant := llm.Variant(strings.ToLower(strings.TrimSpace(v.GetString("judge-variant"))))
	if !llm.IsValidVariant(string(variant)) {
		slog.Warn("invalid judge-variant, using standard", "variant", variant)
		variant = llm.VariantStandard
	}

	apiKey := resolveAPIKey(v)
	llmClient := llm.New(v.GetString("llm-url"), apiKey, v.GetString("llm-model"), variant)
	if apiKey == "" {
		slog.Warn("no LLM credential resolved; judge calls will fail and grade as incorrect")
	} else if err := llmClient.Ping(context.Background()); err != nil {
		slog.Warn("LLM health check failed; continuing with degraded grading", "error", err)
	} else {
		slog.Info("LLM endpoint OK", "url", v.GetString("llm-url"), "model", v.GetString("llm-model"))
	}

	engine := grading.New(st, llmClient)
	h := handler.New(st, engine, llmClient, model.PortalConfig{
		SeedPath: v.GetString("portal-seed"),
		Lang:     lang,
	})

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"store", v.GetString("store"),
		"model", v.GetString("llm-model"),
		"llm_url", v.GetString("llm-url"),
		"judge_variant", variant,
		"lang", lang,
	)
	return http.ListenAndServe(addr, r)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	st, closeStore, err := openStore(v)
	if err != nil {
		return err
	}
	defer closeStore()

	for _, path := range v.GetStringSlice("lessons") {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		var imports []model.LessonImport
		if err := json.Unmarshal(data, &imports); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		imported := 0
		for _, li := range imports {
			id := li.Slug
			if id == "" {
				title, _ := markdown.SplitTitle(li.Markdown)
				if li.Title != "" {
					title = li.Title
				}
				id = slug.Make(title)
			}
			if id == "" {
				slog.Warn("skipping lesson with no derivable slug", "path", path)
				continue
			}

			exists, err := st.Exists(id)
			if err != nil {
				return fmt.Errorf("check lesson %s: %w", id, err)
			}
			if exists {
				slog.Info("lesson already present, skipping", "slug", id)
				continue
			}

			err = st.Create(id, model.Lesson{
				Title:     li.Title,
				Markdown:  li.Markdown,
				AnswerKey: li.AnswerKey,
			})
			if err != nil {
				return fmt.Errorf("import lesson %s from %s: %w", id, path, err)
			}
			imported++
		}
		slog.Info("imported lessons", "path", path, "count", imported)
	}

	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	st, closeStore, err := openStore(v)
	if err != nil {
		return err
	}
	defer closeStore()

	slugs, err := st.Slugs()
	if err != nil {
		return fmt.Errorf("list lessons: %w", err)
	}

	export := model.LessonExport{
		Brand:   v.GetString("brand"),
		Lessons: make(map[string]*model.Lesson, len(slugs)),
	}
	for _, id := range slugs {
		l, err := st.Get(id)
		if err != nil {
			return fmt.Errorf("load lesson %s: %w", id, err)
		}
		export.Lessons[id] = l
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
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
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}
