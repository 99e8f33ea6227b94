package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/fetch"
	"github.com/jonathan/resume-assistant/internal/observability"
)

var fetchJobCmd = &cobra.Command{
	Use:   "fetch-job",
	Short: "Download a job posting and extract its text",
	Long:  "Fetches a job posting URL, falling back to a headless browser for client-rendered boards when --browser is set, and writes the extracted text.",
	RunE:  runFetchJob,
}

var (
	fetchJobURL        string
	fetchJobOutputFile string
	fetchJobBrowser    bool
)

func init() {
	fetchJobCmd.Flags().StringVarP(&fetchJobURL, "url", "u", "", "Job posting URL (required)")
	fetchJobCmd.Flags().StringVarP(&fetchJobOutputFile, "out", "o", "", "Path to output text file (prints to stdout when empty)")
	fetchJobCmd.Flags().BoolVar(&fetchJobBrowser, "browser", false, "Use a headless browser when the page needs JavaScript (overrides config)")

	_ = fetchJobCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(fetchJobCmd)
}

func runFetchJob(cmd *cobra.Command, _ []string) error {
	var browser fetch.BrowserFunc
	if fetchJobBrowser || cfg.UseBrowser {
		browser = fetch.Chrome(fetch.DefaultBrowserTimeout, logger)
	}

	posting, err := fetch.NewFetcher(browser, logger).Posting(context.Background(), fetchJobURL)
	if err != nil {
		return err
	}
	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintPosting(posting)
	}

	if fetchJobOutputFile == "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), posting.Text)
		return nil
	}
	if err := writeOutput(fetchJobOutputFile, []byte(posting.Text)); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully fetched job posting (%s)\nOutput: %s\n", posting.Platform, fetchJobOutputFile)
	return nil
}
