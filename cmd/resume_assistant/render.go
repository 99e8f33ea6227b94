package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/observability"
	"github.com/jonathan/resume-assistant/internal/rendering"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume JSON file as a PDF",
	Long:  "Typesets a resume record with the LaTeX template. With --tex only the LaTeX source is written and no toolchain is needed.",
	RunE:  runRender,
}

var (
	renderInputFile  string
	renderOutputFile string
	renderTexOnly    bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderInputFile, "in", "i", "", "Path to resume JSON file (required)")
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Path to output file (required)")
	renderCmd.Flags().BoolVar(&renderTexOnly, "tex", false, "Write the LaTeX source instead of a PDF")

	_ = renderCmd.MarkFlagRequired("in")
	_ = renderCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	rec, err := readResume(renderInputFile)
	if err != nil {
		return err
	}
	printer := observability.NewPrinter(cmd.ErrOrStderr())
	if verbose {
		printer.PrintResume(rec)
	}

	if renderTexOnly {
		composer, err := rendering.NewComposer(cfg.Template)
		if err != nil {
			return err
		}
		latex, err := composer.Compose(rec)
		if err != nil {
			return fmt.Errorf("failed to render LaTeX: %w", err)
		}
		if err := writeOutput(renderOutputFile, []byte(latex)); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully rendered LaTeX resume\nOutput: %s\n", renderOutputFile)
		return nil
	}

	parts, err := newGenerator(cfg, nil, logger)
	if err != nil {
		return err
	}
	doc, err := parts.service.GenerateResume(context.Background(), rec)
	if err != nil {
		return err
	}
	if err := writeOutput(renderOutputFile, doc.PDF); err != nil {
		return err
	}
	if verbose {
		printer.PrintDocument(doc, renderOutputFile)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully rendered resume PDF\nOutput: %s\n", renderOutputFile)
	return nil
}
