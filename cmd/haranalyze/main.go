// Command haranalyze turns the HAR archives produced by the crawler into a
// JSONL results file, labeling third-party traffic against the Disconnect
// list and detecting the consent platform vendor per visit.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"consent-crawler/internal/analysis"
)

func main() {
	rootsFlag := flag.String("roots", "crawl_data_accept,crawl_data_reject,crawl_data_block", "comma separated crawl output directories")
	sitesFlag := flag.String("sites", "", "optional site list CSV for per-site metadata")
	blocklistFlag := flag.String("blocklist", "", "optional Disconnect services.json for category labels")
	entitiesFlag := flag.String("entities", "", "optional Disconnect entities.json for entity labels")
	outFlag := flag.String("o", "analysis/results.jsonl", "output JSONL path")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(*rootsFlag, *sitesFlag, *blocklistFlag, *entitiesFlag, *outFlag, logger); err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}
}

func run(rootsCSV, sitesPath, blocklistPath, entitiesPath, outPath string, logger *zap.Logger) error {
	var roots []string
	for _, root := range strings.Split(rootsCSV, ",") {
		if root = strings.TrimSpace(root); root != "" {
			roots = append(roots, root)
		}
	}
	if len(roots) == 0 {
		return fmt.Errorf("no crawl output roots given")
	}

	var catalog map[string]map[string]string
	if sitesPath != "" {
		var err error
		if catalog, err = analysis.LoadSiteCatalog(sitesPath); err != nil {
			return fmt.Errorf("loading site list: %w", err)
		}
	}

	var categories map[string]string
	if blocklistPath != "" {
		var err error
		if categories, err = analysis.LoadDisconnectCategories(blocklistPath); err != nil {
			return fmt.Errorf("loading blocklist: %w", err)
		}
	}

	var entities map[string]string
	if entitiesPath != "" {
		var err error
		if entities, err = analysis.LoadDisconnectEntities(entitiesPath); err != nil {
			return fmt.Errorf("loading entities: %w", err)
		}
	}

	transformer := analysis.NewTransformer(catalog, categories, entities, logger)
	written, err := transformer.WriteResults(roots, outPath)
	if err != nil {
		return err
	}
	logger.Info("analysis written",
		zap.String("path", outPath),
		zap.Int("visits", written))
	return nil
}
