package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/extract"
	"github.com/jonathan/resume-parser/internal/llm"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Parse every resume in a directory",
	Long:  "Run extraction over every resume file in a directory with bounded concurrency, writing one profile JSON file per input.",
	RunE:  runBatch,
}

var (
	batchInputDir    string
	batchOutputDir   string
	batchAPIKey      string
	batchConcurrency int
)

func init() {
	batchCmd.Flags().StringVarP(&batchInputDir, "in-dir", "i", "", "Directory of resume files (required)")
	batchCmd.Flags().StringVarP(&batchOutputDir, "out-dir", "o", "profiles", "Directory for output JSON files")
	batchCmd.Flags().StringVar(&batchAPIKey, "api-key", "", "Completion-service API key (overrides env var)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "Maximum concurrent parse operations")
	_ = batchCmd.MarkFlagRequired("in-dir")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(_ *cobra.Command, _ []string) error {
	if batchConcurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	files, err := collectResumeFiles(batchInputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no resume files found in %s", batchInputDir)
	}

	if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ctx := context.Background()

	llmCfg := llm.ConfigFromEnv()
	apiKey := batchAPIKey
	if apiKey == "" {
		apiKey = config.APIKeyForProvider(llmCfg.Provider)
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (set the provider's env var or use --api-key)")
	}

	client, err := llm.NewClient(ctx, llmCfg, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create completion client: %w", err)
	}
	defer func() { _ = client.Close() }()

	extractor := extract.New()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for _, path := range files {
		g.Go(func() error {
			prof, err := parseFile(ctx, client, extractor, path, false)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(prof, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode profile for %s: %w", path, err)
			}

			dest := filepath.Join(batchOutputDir, outputName(path))
			if err := os.WriteFile(dest, out, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", dest, err)
			}
			fmt.Printf("%s -> %s\n", path, dest)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Printf("Parsed %d resumes into %s\n", len(files), batchOutputDir)
	return nil
}

// resumeExtensions are the filename extensions the batch command picks up.
var resumeExtensions = map[string]bool{
	".pdf":  true,
	".html": true,
	".htm":  true,
	".txt":  true,
	".md":   true,
	".text": true,
}

// collectResumeFiles lists parseable files directly inside dir, sorted by
// name. Subdirectories are not descended into.
func collectResumeFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if resumeExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// outputName derives the profile filename for an input path: the input's
// base name with the extension replaced by .json.
func outputName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}
