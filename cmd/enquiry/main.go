// Command enquiry parses clinical enquiry XML documents and prints the
// extracted entities, deduplicated codes, and warnings.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	eq "github.com/clinsearch/enquiry"
	"github.com/clinsearch/enquiry/engine"
	"github.com/clinsearch/enquiry/worker"
)

type config struct {
	jsonOutput    bool
	quiet         bool
	verbose       bool
	strictFolders bool
	keepPatterns  bool
	workers       int
}

// fileOutput is the JSON row printed per document.
type fileOutput struct {
	Source   string        `json:"source"`
	Entities int           `json:"entities"`
	Folders  int           `json:"folders"`
	Codes    int           `json:"codes"`
	Warnings int           `json:"warnings"`
	Errors   int           `json:"errors"`
	Failed   bool          `json:"failed"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"durationNs"`
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "enquiry",
		Short:         "Parse clinical enquiry XML documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(parseCommand(), versionCommand())
	return root
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the library version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "enquiry", eq.Version)
		},
	}
}

func parseCommand() *cobra.Command {
	cfg := &config{}

	cmd := &cobra.Command{
		Use:   "parse FILE...",
		Short: "Parse one or more enquiry documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, cfg, args)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "emit one JSON object per file")
	cmd.Flags().BoolVarP(&cfg.quiet, "quiet", "q", false, "only report failures")
	cmd.Flags().BoolVarP(&cfg.verbose, "verbose", "v", false, "log parse progress to stderr")
	cmd.Flags().BoolVar(&cfg.strictFolders, "strict-folders", false, "warn on references to unknown folders")
	cmd.Flags().BoolVar(&cfg.keepPatterns, "keep-patterns", false, "retain raw detector results in JSON output")
	cmd.Flags().IntVar(&cfg.workers, "workers", 0, "parallel workers (0 = number of CPUs)")

	return cmd
}

func runParse(cmd *cobra.Command, cfg *config, files []string) error {
	logger := zerolog.Nop()
	if cfg.verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}

	opts := []eq.Option{
		eq.WithLogger(logger),
		eq.WithStrictFolders(cfg.strictFolders),
		eq.WithKeepPatternResults(cfg.keepPatterns),
	}
	if cfg.workers > 0 {
		opts = append(opts, eq.WithWorkerCount(cfg.workers))
	}
	parser := engine.New(opts...)

	jobs := make([]worker.Job, 0, len(files))
	for _, file := range files {
		text, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		jobs = append(jobs, worker.Job{Source: file, XML: string(text)})
	}

	batch := parser.ParseBatch(cmd.Context(), jobs)

	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, result := range batch.Results {
		out := summarize(result)
		switch {
		case cfg.jsonOutput:
			if err := enc.Encode(out); err != nil {
				return err
			}
		case out.Failed:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: FAILED: %s\n", out.Source, out.Error)
		case !cfg.quiet:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entities, %d folders, %d codes, %d warnings\n",
				out.Source, out.Entities, out.Folders, out.Codes, out.Warnings)
		}
	}

	if batch.HasFailures() {
		return fmt.Errorf("%d of %d documents failed", batch.FailedJobs, batch.TotalJobs)
	}
	return nil
}

func summarize(result *worker.JobResult) fileOutput {
	out := fileOutput{
		Source:   result.Source,
		Duration: time.Duration(result.Duration),
	}
	if result.Error != nil {
		out.Failed = true
		out.Error = result.Error.Error()
		return out
	}
	out.Entities = len(result.Result.Entities)
	out.Folders = len(result.Result.Folders)
	out.Codes = result.Result.Codes.Len()
	out.Warnings = result.Result.WarningCount()
	out.Errors = result.Result.ErrorCount()
	return out
}
