package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/extract"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/profile"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a local resume file into a candidate profile",
	Long:  "Extract text from a local resume file, run structured extraction against the completion service, and print the resulting candidate profile as JSON. Runs without the database or HTTP server.",
	RunE:  runParse,
}

var (
	parseInputFile  string
	parseOutputFile string
	parseAPIKey     string
	parseVerbose    bool
)

func init() {
	parseCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to resume file (required)")
	parseCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	parseCmd.Flags().StringVar(&parseAPIKey, "api-key", "", "Completion-service API key (overrides env var)")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print extraction and profile summaries")
	_ = parseCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	llmCfg := llm.ConfigFromEnv()
	apiKey := parseAPIKey
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

	prof, err := parseFile(ctx, client, extract.New(), parseInputFile, parseVerbose)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(prof, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	if parseOutputFile != "" {
		if err := os.WriteFile(parseOutputFile, out, 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Printf("Profile written to %s\n", parseOutputFile)
	} else {
		fmt.Println(string(out))
	}
	return nil
}

// parseFile runs the local variant of the extraction pipeline on one file:
// extract text, call the model, normalize. Model failures degrade to a
// raw-text-only profile the same way the service pipeline degrades.
func parseFile(ctx context.Context, client llm.Client, extractor *extract.Extractor, path string, verbose bool) (*profile.CandidateProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	text := extractor.Extract(data, filepath.Base(path), "")
	printer := observability.NewPrinter(os.Stdout)
	if verbose {
		printer.PrintExtraction(filepath.Base(path), len(text))
	}

	var prof *profile.CandidateProfile
	if utf8.RuneCountInString(text) < pipeline.MinUsableTextLength {
		log.Printf("%s: too little usable text, skipping the model", path)
		prof = profile.Empty(text)
	} else {
		raw, err := client.GenerateJSON(ctx, llm.BuildExtractionPrompt(text))
		if err != nil {
			log.Printf("%s: completion failed, keeping raw text only: %v", path, err)
			prof = profile.Empty(text)
		} else if prof, err = profile.Normalize(raw); err != nil {
			log.Printf("%s: model output unusable, keeping raw text only: %v", path, err)
			prof = profile.Empty(text)
		} else {
			prof.RawText = text
		}
	}

	if verbose {
		printer.PrintProfile(prof)
	}
	return prof, nil
}
