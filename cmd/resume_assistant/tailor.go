package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/observability"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor a resume to a job description and render it",
	Long:  "Rewrites the education, work and project descriptions of a resume for a job description with the configured LLM, then typesets the result as a PDF.",
	RunE:  runTailor,
}

var (
	tailorInputFile  string
	tailorJobFile    string
	tailorOutputFile string
	tailorPolicy     string
)

func init() {
	tailorCmd.Flags().StringVarP(&tailorInputFile, "in", "i", "", "Path to resume JSON file (required)")
	tailorCmd.Flags().StringVarP(&tailorJobFile, "job", "j", "", "Path to job description text file (required)")
	tailorCmd.Flags().StringVarP(&tailorOutputFile, "out", "o", "", "Path to output PDF file (required)")
	tailorCmd.Flags().StringVar(&tailorPolicy, "policy", "", "Failure policy: strict or keep_original (overrides config)")

	_ = tailorCmd.MarkFlagRequired("in")
	_ = tailorCmd.MarkFlagRequired("job")
	_ = tailorCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(tailorCmd)
}

func runTailor(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	rec, err := readResume(tailorInputFile)
	if err != nil {
		return err
	}
	jobDescription, err := readText(tailorJobFile)
	if err != nil {
		return err
	}
	if tailorPolicy != "" {
		cfg.TailorPolicy = tailorPolicy
	}

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	parts, err := newGenerator(cfg, client, logger)
	if err != nil {
		return err
	}
	doc, err := parts.service.GenerateTailoredResume(ctx, rec, jobDescription)
	if err != nil {
		return err
	}
	if err := writeOutput(tailorOutputFile, doc.PDF); err != nil {
		return err
	}

	if verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintTailoringFailures(doc.Failed)
		printer.PrintDocument(doc, tailorOutputFile)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully tailored resume\nOutput: %s\n", tailorOutputFile)
	return nil
}
