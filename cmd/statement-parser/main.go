package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/CKaviya23/bank-statement-parser/internal/config"
	"github.com/CKaviya23/bank-statement-parser/internal/history"
	"github.com/CKaviya23/bank-statement-parser/internal/pipeline"
	"github.com/CKaviya23/bank-statement-parser/internal/server"
	"github.com/CKaviya23/bank-statement-parser/internal/statement"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

const (
	defaultHistoryDB  = "statement-runs.db"
	defaultStorageDir = "./statements"
)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("statement-parser")
	var (
		testMode     = fs.BoolLong("test", "Run in test/mock mode (no network or OCR)")
		serve        = fs.BoolLong("serve", "Run the HTTP API instead of a one-shot parse")
		port         = fs.IntLong("port", 8080, "HTTP server port (with --serve)")
		configPath   = fs.StringLong("config", "statement-parser.yaml", "Optional yaml config file")
		dbPath       = fs.StringLong("db", "", "Run-history database path ('' disables history; default "+defaultHistoryDB+")")
		storagePath  = fs.StringLong("storage", "", "Stored statement directory with --serve (default "+defaultStorageDir+")")
		producer     = fs.StringLong("producer", "", "Structured producer: 'gemini' or 'ollama'")
		apiKey       = fs.StringLong("api-key", "", "Gemini API key (or set GEMINI_API_KEY env var)")
		model        = fs.StringLong("model", "", "Model name for the structured producer")
		ollamaURL    = fs.StringLong("ollama-url", "", "Ollama API base URL")
		tesseractCmd = fs.StringLong("tesseract", "", "Tesseract binary for local OCR fallback")
		localOnly    = fs.BoolLong("local-only", "Skip the structured producer and use local OCR/heuristics")
		outPath      = fs.StringLong("out", "", "Output JSON path (default <stem>_parsed_<timestamp>.json)")
		authUser     = fs.StringLong("auth-user", "", "Basic auth username (with --serve)")
		authPass     = fs.StringLong("auth-pass", "", "Basic auth password (with --serve)")
		showVersion  = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("STATEMENT_PARSER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	cfg, err := config.LoadOptional(*configPath)
	if err != nil {
		slog.Error("Failed to load config file", "path", *configPath, "error", err)
		os.Exit(1)
	}

	opts := resolveOptions(cfg, *producer, *apiKey, *model, *ollamaURL, *tesseractCmd, *localOnly)
	historyDB := resolveDataPath(*dbPath, flagIsSet(fs, "db"), cfg.HistoryDB, defaultHistoryDB)
	storageDir := resolveDataPath(*storagePath, flagIsSet(fs, "storage"), cfg.StorageDir, defaultStorageDir)

	if *testMode {
		result := pipeline.Mock()
		if err := writeResult(result, "test", *outPath); err != nil {
			slog.Error("Failed to write output", "error", err)
			os.Exit(1)
		}
		return
	}

	if *serve {
		runServer(opts, historyDB, storageDir, *port, *authUser, *authPass)
		return
	}

	args := fs.GetArgs()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: statement-parser [flags] <statement file>\n\n%s\n", ffhelp.Flags(fs))
		os.Exit(1)
	}
	runOnce(opts, historyDB, args[0], *outPath)
}

// resolveOptions merges flags, environment and the optional config file
// into the orchestrator configuration. Flags win over the config file; the
// well-known GEMINI_API_KEY/GOOGLE_API_KEY variables are honored last.
func resolveOptions(cfg *config.File, producer, apiKey, model, ollamaURL, tesseractCmd string, localOnly bool) pipeline.Options {
	opts := pipeline.Options{
		Producer:     firstNonEmpty(producer, cfg.Producer),
		APIKey:       firstNonEmpty(apiKey, cfg.APIKey, os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY")),
		ModelName:    firstNonEmpty(model, cfg.Model),
		OllamaURL:    firstNonEmpty(ollamaURL, cfg.OllamaURL),
		TesseractCmd: firstNonEmpty(tesseractCmd, cfg.TesseractCmd),
	}
	switch {
	case localOnly:
		opts.PrimaryEnabled = false
	case opts.Producer == "ollama":
		opts.PrimaryEnabled = true
	default:
		opts.PrimaryEnabled = opts.APIKey != ""
	}
	return opts
}

// resolveDataPath picks a history/storage location. A flag set on the
// command line (or via its env var) always wins, including an explicit
// empty value; otherwise the config file, then the built-in default.
func resolveDataPath(flagValue string, flagSet bool, cfgValue, fallback string) string {
	if flagSet {
		return flagValue
	}
	if cfgValue != "" {
		return cfgValue
	}
	return fallback
}

func flagIsSet(fs *ff.FlagSet, name string) bool {
	f, ok := fs.GetFlag(name)
	return ok && f.IsSet()
}

func runOnce(opts pipeline.Options, historyDB, inputPath, outPath string) {
	p, err := pipeline.FromOptions(opts)
	if err != nil {
		slog.Error("Failed to initialize pipeline", "error", err)
		os.Exit(1)
	}
	defer p.Close()

	result, err := p.Process(inputPath)
	if err != nil {
		slog.Error("Failed to process statement", "file", inputPath, "error", err)
		os.Exit(1)
	}

	if historyDB != "" {
		saveRun(historyDB, inputPath, result)
	}

	if err := writeResult(result, inputPath, outPath); err != nil {
		slog.Error("Failed to write output", "error", err)
		os.Exit(1)
	}
}

func saveRun(historyDB, inputPath string, result *statement.Result) {
	store, err := history.NewBoltStore(historyDB)
	if err != nil {
		slog.Warn("Run history unavailable", "db", historyDB, "error", err)
		return
	}
	defer store.Close()

	run := &history.Run{
		ID:         fmt.Sprintf("%d", time.Now().UnixNano()),
		SourceFile: inputPath,
		CreatedAt:  time.Now(),
		Result:     result,
	}
	if err := store.SaveRun(run); err != nil {
		slog.Warn("Failed to record run", "error", err)
	}
}

func writeResult(result *statement.Result, inputPath, outPath string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if outPath == "" {
		stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		outPath = fmt.Sprintf("%s_parsed_%s.json", stem, time.Now().Format("20060102_150405"))
	}
	if err := os.WriteFile(outPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	fmt.Println(string(data))
	fmt.Printf("\nSaved JSON -> %s\n", outPath)
	return nil
}

func runServer(opts pipeline.Options, historyDB, storageDir string, port int, authUser, authPass string) {
	if historyDB == "" {
		historyDB = defaultHistoryDB
	}

	slog.Info("Initializing run history...", "db", historyDB)
	store, err := history.NewBoltStore(historyDB)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	slog.Info("Initializing storage...", "dir", storageDir)
	storage, err := history.NewLocalStorage(storageDir)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	p, err := pipeline.FromOptions(opts)
	if err != nil {
		slog.Error("Failed to initialize pipeline", "error", err)
		os.Exit(1)
	}
	defer p.Close()

	basicAuth := server.BasicAuth{
		Username: authUser,
		Password: authPass,
	}
	srv := server.New(p, store, storage, basicAuth)

	addr := fmt.Sprintf(":%d", port)
	go func() {
		if err := srv.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if authUser != "" || authPass != "" {
		slog.Info("Basic auth enabled", "user", authUser)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
