package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/observability"
)

var coverLetterCmd = &cobra.Command{
	Use:   "cover-letter",
	Short: "Write a cover letter PDF for a job description",
	RunE:  runCoverLetter,
}

var (
	coverLetterInputFile  string
	coverLetterJobFile    string
	coverLetterOutputFile string
)

func init() {
	coverLetterCmd.Flags().StringVarP(&coverLetterInputFile, "in", "i", "", "Path to resume JSON file (required)")
	coverLetterCmd.Flags().StringVarP(&coverLetterJobFile, "job", "j", "", "Path to job description text file (required)")
	coverLetterCmd.Flags().StringVarP(&coverLetterOutputFile, "out", "o", "", "Path to output PDF file (required)")

	_ = coverLetterCmd.MarkFlagRequired("in")
	_ = coverLetterCmd.MarkFlagRequired("job")
	_ = coverLetterCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(coverLetterCmd)
}

func runCoverLetter(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	rec, err := readResume(coverLetterInputFile)
	if err != nil {
		return err
	}
	jobDescription, err := readText(coverLetterJobFile)
	if err != nil {
		return err
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
	doc, err := parts.service.GenerateCoverLetter(ctx, rec, jobDescription)
	if err != nil {
		return err
	}
	if err := writeOutput(coverLetterOutputFile, doc.PDF); err != nil {
		return err
	}
	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintDocument(doc, coverLetterOutputFile)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully wrote cover letter\nOutput: %s\n", coverLetterOutputFile)
	return nil
}
