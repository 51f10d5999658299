package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/websift/websift/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		targetURL     string
		outputPath    string
		maxItems      int
		chunkSize     int
		useBrowser    bool
		maxConcurrent int
		cacheDir      string
		cacheClear    bool
		userAgent     string
		verbose       bool
		configPath    string
	)

	flag.StringVar(&targetURL, "url", "", "Site root, content section, or specific page to scrape")
	flag.StringVar(&outputPath, "output", "", "Path to write JSON results (default: stdout)")
	flag.IntVar(&maxItems, "max.items", 100, "Maximum number of items to scrape")
	flag.IntVar(&chunkSize, "chunk.size", 8000, "Maximum size for content chunks")
	flag.BoolVar(&useBrowser, "browser", false, "Use browser rendering for JavaScript-heavy sites")
	flag.IntVar(&maxConcurrent, "max.concurrent", 10, "Maximum concurrent extractions")
	flag.StringVar(&cacheDir, "cache.dir", "", "HTTP cache directory (empty disables caching)")
	flag.BoolVar(&cacheClear, "cache.clear", false, "Clear cache directory before run")
	flag.StringVar(&userAgent, "ua", "", "Custom User-Agent for HTTP requests")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.StringVar(&configPath, "config", os.Getenv("WEBSIFT_CONFIG"), "Path to YAML or JSON config file")
	flag.Parse()

	// A bare positional URL works too: websift https://example.com/blog
	if targetURL == "" && flag.NArg() > 0 {
		targetURL = flag.Arg(0)
	}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		BaseURL:       targetURL,
		OutputPath:    outputPath,
		MaxItems:      maxItems,
		UseBrowser:    useBrowser,
		MaxConcurrent: maxConcurrent,
		ChunkSize:     chunkSize,
		CacheDir:      cacheDir,
		CacheClear:    cacheClear,
		UserAgent:     userAgent,
		Verbose:       verbose,
	}
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("load config file")
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("setup failed")
	}
	defer a.Close()

	result, err := a.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("encode results")
	}
	out = append(out, '\n')

	if cfg.OutputPath != "" {
		if err := os.WriteFile(cfg.OutputPath, out, 0o644); err != nil {
			log.Fatal().Err(err).Str("path", cfg.OutputPath).Msg("write results")
		}
		fmt.Fprintf(os.Stderr, "Results saved to %s\n", cfg.OutputPath)
		return
	}
	os.Stdout.Write(out)
}
