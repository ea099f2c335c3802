//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/specvital/codelens/pkg/config"
	"github.com/specvital/codelens/pkg/parser"
	"github.com/specvital/codelens/pkg/source"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/scan.go <path>\n")
		os.Exit(1)
	}

	path := os.Args[1]

	cfg, err := config.Load(filepath.Join(path, config.FileName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	src, err := source.NewLocalSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "source error: %v\n", err)
		os.Exit(1)
	}
	defer src.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	opts := append(cfg.ScanOptions(), parser.WithLogger(logger))

	result, err := parser.Scan(context.Background(), src, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan error: %v\n", err)
		os.Exit(1)
	}

	output := map[string]interface{}{
		"filesScanned":   result.Stats.FilesScanned,
		"filesExtracted": result.Stats.FilesExtracted,
		"filesFailed":    result.Stats.FilesFailed,
		"elements":       result.Stats.ElementsFound,
		"duration":       result.Stats.Duration.String(),
		"languages":      countLanguages(result),
	}
	json.NewEncoder(os.Stdout).Encode(output)
}

func countLanguages(result *parser.ScanResult) map[string]int {
	counts := make(map[string]int)
	for _, file := range result.Inventory.Files {
		counts[string(file.Language)]++
	}
	return counts
}
