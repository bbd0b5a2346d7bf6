package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	beforeDoc = `{"summary": "Go developer", "skills": ["Go"]}`
	afterDoc  = `{"summary": "Senior Go developer", "skills": ["Go", "Kubernetes"]}`
)

func TestDiffCommand(t *testing.T) {
	before := writeFile(t, "before.json", beforeDoc)
	after := writeFile(t, "after.json", afterDoc)

	stdout, _, err := execute(t, "", "diff", "--before", before, "--after", after)
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "before", resp["version1"].(map[string]any)["version_id"])
	assert.Equal(t, "after", resp["version2"].(map[string]any)["version_id"])
	stats := resp["statistics"].(map[string]any)
	assert.Equal(t, float64(2), stats["total_changes"])
	assert.Equal(t, "+2 words", stats["net_change_display"])
	assert.NotContains(t, resp, "ats")
}

func TestDiffCommand_WithRequirementsText(t *testing.T) {
	before := writeFile(t, "before.json", beforeDoc)
	after := writeFile(t, "after.json", afterDoc)
	reqs := writeFile(t, "reqs.json", `["Go", "Kubernetes"]`)

	stdout, _, err := execute(t, "", "diff", "-b", before, "-a", after, "-r", reqs, "-o", "text")
	require.NoError(t, err)

	assert.Contains(t, stdout, "COMPARISON STATISTICS")
	assert.Contains(t, stdout, "ATS SCORE")
	assert.Contains(t, stdout, "• summary")
}

func TestDiffCommand_Stdin(t *testing.T) {
	after := writeFile(t, "after.json", afterDoc)

	stdout, _, err := execute(t, beforeDoc, "diff", "--before", "-", "--after", after)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"total_changes": 2`)
}

func TestDiffCommand_Errors(t *testing.T) {
	valid := writeFile(t, "doc.json", beforeDoc)
	invalid := writeFile(t, "bad.json", `{"skills": "Go"}`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing flags", []string{"diff"}, `required flag(s) "after", "before" not set`},
		{"missing file", []string{"diff", "--before", "/nonexistent.json", "--after", valid}, "file not found"},
		{"invalid document", []string{"diff", "--before", invalid, "--after", valid}, "invalid resume document"},
		{"bad output", []string{"diff", "--before", valid, "--after", valid, "-o", "xml"}, "invalid --output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
