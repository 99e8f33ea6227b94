package main

import (
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommands_MissingRequiredFlags(t *testing.T) {
	binaryPath := getBinaryPath(t)
	out := filepath.Join(t.TempDir(), "out.pdf")

	tests := []struct {
		name string
		args []string
		flag string
	}{
		{"render without input", []string{"render", "--out", out}, "in"},
		{"tailor without job", []string{"tailor", "--in", "resume.json", "--out", out}, "job"},
		{"cover letter without output", []string{"cover-letter", "--in", "resume.json", "--job", "job.txt"}, "out"},
		{"fetch without url", []string{"fetch-job"}, "url"},
		{"interview prep without job", []string{"interview-prep"}, "job"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := exec.Command(binaryPath, tt.args...).CombinedOutput()
			assert.Error(t, err)
			assert.Contains(t, string(output), `required flag(s) "`+tt.flag+`" not set`)
		})
	}
}

func TestCommands_InvalidLogFormat(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "--log-format", "xml", "migrate").CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "invalid log format")
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "migrate")
	cmd.Env = []string{"PATH=/usr/bin:/bin"}
	cmd.Dir = t.TempDir()
	output, err := cmd.CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "DATABASE_URL is required")
}
