// Command check_store is a manual integration check for the PostgreSQL store.
// It applies migrations and round-trips a resume, a job bookmark, interview
// prep and a cached hint, then deletes the job it created.
//
// Usage:
//
//	go run ./cmd/tools/check_store
//
// Requires DATABASE_URL environment variable to be set.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/types"
)

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "FAIL: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "ERROR: DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	fmt.Println("=== Store Integration Check ===")
	fmt.Println()

	fmt.Println("Step 1: Applying migrations...")
	if err := store.Migrate(ctx, dsn); err != nil {
		fail("Migrate: %v", err)
	}
	st, err := store.Connect(ctx, dsn)
	if err != nil {
		fail("Connect: %v", err)
	}
	defer st.Close()
	fmt.Println("  Migrations applied")

	user := "check-store-" + uuid.NewString()[:8]

	fmt.Println("\nStep 2: Saving a resume...")
	rec := &types.ResumeRecord{
		Personal: types.PersonalDetails{FirstName: "Check", LastName: "Store"},
		Skills:   types.Skills{"Go", "PostgreSQL"},
	}
	if err := st.PutResume(ctx, user, rec); err != nil {
		fail("PutResume: %v", err)
	}
	got, err := st.GetResume(ctx, user)
	if err != nil {
		fail("GetResume: %v", err)
	}
	if got.Personal.FirstName != "Check" || len(got.Skills) != 2 {
		fail("resume did not round-trip: %+v", got)
	}
	fmt.Printf("  Resume stored for %s\n", user)

	fmt.Println("\nStep 3: Bookmarking a job...")
	job := &types.Job{ID: uuid.New(), UserID: user, Name: "Integration Engineer"}
	if err := st.CreateJob(ctx, job); err != nil {
		fail("CreateJob: %v", err)
	}
	if err := st.CreateJob(ctx, &types.Job{ID: uuid.New(), UserID: user, Name: job.Name}); !errors.Is(err, store.ErrConflict) {
		fail("expected ErrConflict for duplicate name, got %v", err)
	}
	if err := st.UpdateJobDetails(ctx, user, job.ID, "Run the checks", "- Go"); err != nil {
		fail("UpdateJobDetails: %v", err)
	}
	fmt.Printf("  Job %s created, duplicate names rejected\n", job.ID)

	fmt.Println("\nStep 4: Storing interview prep...")
	prep := &types.InterviewPrep{
		JobID:     job.ID,
		UserID:    user,
		Technical: "1. Explain MVCC",
		HR:        "1. Describe a conflict",
		LeetCode:  []types.LeetCodeQuestion{{Question: "Two Sum", URL: "https://leetcode.com/problems/two-sum/"}},
	}
	if err := st.PutInterviewPrep(ctx, prep); err != nil {
		fail("PutInterviewPrep: %v", err)
	}
	if _, err := st.GetInterviewPrep(ctx, user, job.ID); err != nil {
		fail("GetInterviewPrep: %v", err)
	}
	fmt.Println("  Interview prep stored")

	fmt.Println("\nStep 5: Caching a hint...")
	hintURL := fmt.Sprintf("https://leetcode.com/problems/check-store-%d/", time.Now().Unix())
	if err := st.PutLeetCodeHint(ctx, hintURL, "Check Store", "Use a hash map."); err != nil {
		fail("PutLeetCodeHint: %v", err)
	}
	if hint, err := st.GetLeetCodeHint(ctx, hintURL); err != nil || hint != "Use a hash map." {
		fail("GetLeetCodeHint: %q, %v", hint, err)
	}
	fmt.Println("  Hint cached")

	fmt.Println("\nStep 6: Cleaning up...")
	if err := st.DeleteJob(ctx, user, job.ID); err != nil {
		fail("DeleteJob: %v", err)
	}
	if _, err := st.GetInterviewPrep(ctx, user, job.ID); !errors.Is(err, store.ErrNotFound) {
		fail("interview prep should be deleted with its job, got %v", err)
	}
	fmt.Println("  Job and interview prep deleted")

	fmt.Println("\n=== All checks passed ===")
}
