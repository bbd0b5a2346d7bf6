package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// history creates a SQLite history with two versions of resume r1 and
// returns the database path and both version ids.
func history(t *testing.T) (string, string, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	first := writeFile(t, "v1.json", beforeDoc)
	second := writeFile(t, "v2.json", afterDoc)

	out1, _, err := execute(t, "", "versions", "--db", dbPath, "append", "r1", "-s", first, "-m", "initial")
	require.NoError(t, err)
	out2, _, err := execute(t, "", "versions", "--db", dbPath, "append", "r1", "-s", second)
	require.NoError(t, err)

	return dbPath, versionID(t, out1), versionID(t, out2)
}

func versionID(t *testing.T, out string) string {
	t.Helper()
	var meta struct {
		VersionID string `json:"version_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &meta), out)
	return meta.VersionID
}

func TestVersionsCommand_RequiresStore(t *testing.T) {
	_, _, err := execute(t, "", "versions", "list", "r1")
	require.ErrorIs(t, err, errNoPersistentStore)
}

func TestVersionsCommand_AppendAndList(t *testing.T) {
	dbPath, v1, v2 := history(t)

	stdout, _, err := execute(t, "", "versions", "--db", dbPath, "list", "r1")
	require.NoError(t, err)

	var metas []struct {
		VersionID       string `json:"version_id"`
		VersionNumber   int    `json:"version_number"`
		ParentVersionID string `json:"parent_version_id"`
		ChangeSummary   string `json:"change_summary"`
		IsCurrent       bool   `json:"is_current"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &metas))
	require.Len(t, metas, 2)
	assert.Equal(t, v1, metas[0].VersionID)
	assert.Equal(t, "initial", metas[0].ChangeSummary)
	assert.Equal(t, 2, metas[1].VersionNumber)
	assert.Equal(t, v1, metas[1].ParentVersionID)
	assert.True(t, metas[1].IsCurrent)
	assert.Equal(t, v2, metas[1].VersionID)

	stdout, _, err = execute(t, "", "versions", "--db", dbPath, "list", "r1", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, stdout, "VERSION HISTORY")
	assert.Contains(t, stdout, "* v2")
}

func TestVersionsCommand_AppendFromStdin(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	stdout, _, err := execute(t, beforeDoc, "versions", "--db", dbPath, "append", "r1", "-s", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"version_number": 1`)
}

func TestVersionsCommand_ShowAndCurrent(t *testing.T) {
	dbPath, v1, v2 := history(t)

	stdout, _, err := execute(t, "", "versions", "--db", dbPath, "show", "r1")
	require.NoError(t, err)
	assert.Equal(t, v2, versionID(t, stdout))
	assert.Contains(t, stdout, "Kubernetes")

	stdout, _, err = execute(t, "", "versions", "--db", dbPath, "current", "r1", "--set", v1)
	require.NoError(t, err)
	assert.Equal(t, v1, versionID(t, stdout))

	stdout, _, err = execute(t, "", "versions", "--db", dbPath, "show", "r1", "current")
	require.NoError(t, err)
	assert.Equal(t, v1, versionID(t, stdout))

	_, _, err = execute(t, "", "versions", "--db", dbPath, "show", "r1", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestVersionsCommand_UndoRedo(t *testing.T) {
	dbPath, v1, v2 := history(t)

	_, _, err := execute(t, "", "versions", "--db", dbPath, "redo", "r1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no next version")

	stdout, _, err := execute(t, "", "versions", "--db", dbPath, "undo", "r1")
	require.NoError(t, err)
	assert.Equal(t, v1, versionID(t, stdout))

	stdout, _, err = execute(t, "", "versions", "--db", dbPath, "redo", "r1")
	require.NoError(t, err)
	assert.Equal(t, v2, versionID(t, stdout))
}

func TestVersionsCommand_Compare(t *testing.T) {
	dbPath, v1, v2 := history(t)

	stdout, _, err := execute(t, "", "versions", "--db", dbPath, "compare", "r1", v1)
	require.NoError(t, err)
	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "current", resp["version2"].(map[string]any)["version_id"])
	assert.Equal(t, "+2 words", resp["statistics"].(map[string]any)["net_change_display"])

	reqs := writeFile(t, "reqs.json", `["Kubernetes"]`)
	stdout, _, err = execute(t, "", "versions", "--db", dbPath, "compare", "r1", v2, "--with", v1, "-r", reqs)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "-2 words", resp["statistics"].(map[string]any)["net_change_display"])
	assert.Equal(t, []any{"Kubernetes"}, resp["ats"].(map[string]any)["newly_missing"])
}

func TestVersionsCommand_Export(t *testing.T) {
	dbPath, v1, _ := history(t)

	stdout, _, err := execute(t, "", "versions", "--db", dbPath, "export", "r1", v1)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Go developer")

	out := filepath.Join(t.TempDir(), "resume.tex")
	_, _, err = execute(t, "", "versions", "--db", dbPath, "export", "r1", "--format", "latex", "--out", out)
	require.NoError(t, err)
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Kubernetes")

	_, _, err = execute(t, "", "versions", "--db", dbPath, "export", "r1", "-f", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}

func TestRootCommand_ConfigFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "from-config.db")
	cfgPath := writeFile(t, "config.yaml", "store: sqlite\nsqlite_path: "+dbPath+"\n")
	doc := writeFile(t, "doc.json", beforeDoc)

	_, _, err := execute(t, "", "--config", cfgPath, "versions", "append", "r1", "-s", doc)
	require.NoError(t, err)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "the store configured in the file should be used")

	_, _, err = execute(t, "", "--config", "/nonexistent/config.yaml", "versions", "list", "r1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
