package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/jobs"
	"github.com/jonathan/resume-assistant/internal/observability"
	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/types"
)

var interviewPrepCmd = &cobra.Command{
	Use:   "interview-prep",
	Short: "Generate interview questions for a job description",
	Long:  "Generates technical and HR questions plus LeetCode practice problems for a job description, optionally personalised with a resume, and writes them as JSON.",
	RunE:  runInterviewPrep,
}

var (
	interviewPrepJobFile    string
	interviewPrepName       string
	interviewPrepResumeFile string
	interviewPrepOutputFile string
)

// cliUser owns the transient bookmark created for a command-line run.
const cliUser = "cli"

func init() {
	interviewPrepCmd.Flags().StringVarP(&interviewPrepJobFile, "job", "j", "", "Path to job description text file (required)")
	interviewPrepCmd.Flags().StringVarP(&interviewPrepName, "name", "n", "Job", "Job title used in the prompts")
	interviewPrepCmd.Flags().StringVarP(&interviewPrepResumeFile, "resume", "r", "", "Path to resume JSON file (optional)")
	interviewPrepCmd.Flags().StringVarP(&interviewPrepOutputFile, "out", "o", "", "Path to output JSON file (prints to stdout when empty)")

	_ = interviewPrepCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(interviewPrepCmd)
}

func runInterviewPrep(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	description, err := readText(interviewPrepJobFile)
	if err != nil {
		return err
	}

	st := store.NewMemory()
	if interviewPrepResumeFile != "" {
		rec, err := readResume(interviewPrepResumeFile)
		if err != nil {
			return err
		}
		if err := st.PutResume(ctx, cliUser, rec); err != nil {
			return err
		}
	}

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	svc := jobs.NewService(st, client, nil, logger)
	job, err := svc.Create(ctx, cliUser, &types.CreateJobRequest{Name: interviewPrepName, Description: description})
	if err != nil {
		return err
	}
	prep, err := svc.GenerateInterviewPrep(ctx, cliUser, job.ID)
	if err != nil {
		return err
	}
	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintInterviewPrep(prep)
	}

	data, err := json.MarshalIndent(prep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode interview prep: %w", err)
	}
	if interviewPrepOutputFile == "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	if err := writeOutput(interviewPrepOutputFile, data); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully generated interview prep\nOutput: %s\n", interviewPrepOutputFile)
	return nil
}
