// Command crawler visits a list of sites with an automated browser, resolves
// cookie consent banners according to the selected mode, and records HAR
// archives, screenshots, and cookie write logs for each visit.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"consent-crawler/internal/config"
	"consent-crawler/internal/crawler"
)

func main() {
	modeFlag := flag.String("m", "", "crawl mode: accept, reject, or block")
	listFlag := flag.String("l", "site_list.csv", "path to the site list CSV")
	configFlag := flag.String("c", "", "path to an optional YAML config file")
	outputFlag := flag.String("o", "", "output root override")
	flag.Parse()

	mode := crawler.CrawlMode(*modeFlag)
	switch mode {
	case crawler.CrawlAccept, crawler.CrawlReject, crawler.CrawlBlock:
	default:
		fmt.Fprintln(os.Stderr, "usage: crawler -m accept|reject|block [-l site_list.csv] [-c config.yaml] [-o output_dir]")
		os.Exit(2)
	}

	logger, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(mode, *listFlag, *configFlag, *outputFlag, logger); err != nil {
		logger.Fatal("crawl failed", zap.Error(err))
	}
}

func run(mode crawler.CrawlMode, listPath, configPath, outputRoot string, logger *zap.Logger) error {
	cfg, err := config.LoadCrawlConfig(configPath)
	if err != nil {
		return err
	}
	if outputRoot != "" {
		cfg.OutputRoot = outputRoot
	}

	words, err := config.LoadKeywordConfig(cfg.WordsPath)
	if err != nil {
		return err
	}

	domains, err := crawler.LoadSiteList(listPath)
	if err != nil {
		return err
	}
	logger.Info("starting crawl",
		zap.String("mode", string(mode)),
		zap.Int("sites", len(domains)),
		zap.Int("workers", cfg.Workers))

	pw, err := startPlaywright()
	if err != nil {
		return err
	}
	defer pw.Stop()

	runner, err := crawler.NewRunner(pw, cfg, words, logger)
	if err != nil {
		return err
	}
	if err := runner.Run(context.Background(), mode, domains); err != nil {
		return err
	}

	logger.Info("crawl finished", zap.String("mode", string(mode)))
	return nil
}

// startPlaywright connects to the driver, installing browsers on first use.
func startPlaywright() (*playwright.Playwright, error) {
	pw, err := playwright.Run()
	if err == nil {
		return pw, nil
	}
	if installErr := playwright.Install(); installErr != nil {
		return nil, installErr
	}
	return playwright.Run()
}

// newLogger tees console output with a timestamped file under logs/.
func newLogger() (*zap.Logger, error) {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return nil, err
	}
	logPath := filepath.Join("logs", fmt.Sprintf("crawler_%s.log", time.Now().Format("20060102_150405")))
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stdout), zapcore.InfoLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(logFile), zapcore.DebugLevel),
	)
	return zap.New(core), nil
}
