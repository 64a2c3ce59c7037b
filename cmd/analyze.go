package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cybrdelic/repotronium/internal/insight"
	"github.com/cybrdelic/repotronium/internal/pipeline"
	"github.com/cybrdelic/repotronium/internal/progress"
	"github.com/cybrdelic/repotronium/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <owner>/<repo>",
	Short: "Analyze a GitHub repository and print the result as JSON",
	Long: `Clones the repository, scans its dependency structure, scores file
complexity, and prints the full analysis as JSON. With --reports it also
generates LLM insight reports, which requires provider credentials.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Bool("reports", false, "generate LLM insight reports")
	analyzeCmd.Flags().String("output", "", "write the analysis JSON to a file instead of stdout")
	analyzeCmd.Flags().String("html", "", "also render an HTML report to this file")
	rootCmd.AddCommand(analyzeCmd)
}

// stageIndex orders pipeline stages for the progress bar.
var stageIndex = map[pipeline.Stage]int{
	pipeline.StageFetch:      1,
	pipeline.StageScan:       2,
	pipeline.StageComplexity: 3,
	pipeline.StageGraph:      4,
	pipeline.StageInsights:   5,
	pipeline.StageDone:       6,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	owner, repo, ok := strings.Cut(args[0], "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return fmt.Errorf("expected <owner>/<repo>, got %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	withReports, _ := cmd.Flags().GetBool("reports")
	outputPath, _ := cmd.Flags().GetString("output")
	htmlPath, _ := cmd.Flags().GetString("html")

	var generator *insight.Generator
	if withReports {
		generator, err = createGeneratorFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}
	}

	pipe := createPipelineFromConfig(cfg, generator)

	reporter := progress.NewReporter()
	reporter.Start(len(stageIndex))
	pipe.SetProgressFunc(func(stage pipeline.Stage, message string) {
		reporter.Update(stageIndex[stage], message)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := pipeline.Options{}
	if withReports {
		opts.Kinds = insight.Kinds
	}

	bundle, err := pipe.Run(ctx, owner, repo, opts)
	reporter.Finish()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzed %s/%s: %d files, %d dependencies (%s) in %s\n",
			owner, repo, len(bundle.Scan.Files), len(bundle.Scan.Dependencies),
			bundle.Provenance, bundle.Duration.Round(0))
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling analysis: %w", err)
	}
	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("writing analysis: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Analysis written to %s\n", outputPath)
	} else {
		fmt.Println(string(data))
	}

	if htmlPath != "" {
		renderer, err := report.NewRenderer()
		if err != nil {
			return fmt.Errorf("creating renderer: %w", err)
		}
		html, err := renderer.RenderBundle(bundle)
		if err != nil {
			return fmt.Errorf("rendering report: %w", err)
		}
		if err := os.WriteFile(htmlPath, html, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "HTML report written to %s\n", htmlPath)
	}

	return nil
}
