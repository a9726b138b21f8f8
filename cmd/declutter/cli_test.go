package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"declutter/internal/config"
	"declutter/pkg/testutils"
	"declutter/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestConfig persists a config pointing at the given rule file,
// with real execution enabled.
func writeTestConfig(t *testing.T, rulesFile string, dryRun bool) string {
	t.Helper()
	cfg := config.New()
	cfg.Rules.File = rulesFile
	cfg.Settings.DryRun = dryRun
	cfg.Settings.Workers = 2
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.SaveConfig(cfg, path))
	return path
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	return cmd.Execute()
}

func TestSortCommandWritesJSONReport(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithDefault(t, dir)

	rulesFile := testutils.WriteRuleSet(t, t.TempDir(), []types.Rule{{
		ID:      "texts",
		Name:    "Text files",
		Enabled: true,
		When:    types.Conditions{Extensions: []string{"txt"}},
		Then:    []types.Action{{Type: types.MoveAction, To: "sorted"}},
	}})
	cfgPath := writeTestConfig(t, rulesFile, false)
	out := filepath.Join(t.TempDir(), "report.json")

	err := runCommand(t, "--config", cfgPath, "sort", dir, "--format", "json", "--output", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var results []types.MatchResult
	require.NoError(t, json.Unmarshal(data, &results))
	assert.Len(t, results, 2)

	assert.FileExists(t, filepath.Join(dir, "sorted", "test1.txt"))
	assert.FileExists(t, filepath.Join(dir, "test3.jpg"))
}

func TestSortCommandDryRunLeavesFiles(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithDefault(t, dir)

	rulesFile := testutils.WriteRuleSet(t, t.TempDir(), []types.Rule{{
		ID:      "texts",
		Name:    "Text files",
		Enabled: true,
		When:    types.Conditions{Extensions: []string{"txt"}},
		Then:    []types.Action{{Type: types.MoveAction, To: "sorted"}},
	}})
	cfgPath := writeTestConfig(t, rulesFile, false)

	err := runCommand(t, "--config", cfgPath, "sort", dir, "--dry-run", "--format", "json",
		"--output", filepath.Join(t.TempDir(), "report.json"))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "test1.txt"))
	assert.NoDirExists(t, filepath.Join(dir, "sorted"))
}

func TestRulesValidateCommand(t *testing.T) {
	good := testutils.WriteRuleSet(t, t.TempDir(), []types.Rule{{
		ID: "ok", Name: "Ok", Enabled: true,
		Then: []types.Action{{Type: types.SkipAction}},
	}})
	cfgPath := writeTestConfig(t, good, true)
	require.NoError(t, runCommand(t, "--config", cfgPath, "rules", "validate"))

	bad := testutils.WriteRuleSet(t, t.TempDir(), []types.Rule{{
		ID: "bad", Name: "Bad", Enabled: true,
		Then: []types.Action{{Type: types.MoveAction}},
	}})
	assert.Error(t, runCommand(t, "--config", cfgPath, "rules", "--rules", bad, "validate"))
}

func TestRulesRemoveCommand(t *testing.T) {
	rulesFile := testutils.WriteRuleSet(t, t.TempDir(), []types.Rule{{
		ID: "gone", Name: "Gone", Enabled: true,
		Then: []types.Action{{Type: types.SkipAction}},
	}})
	cfgPath := writeTestConfig(t, rulesFile, true)

	require.NoError(t, runCommand(t, "--config", cfgPath, "rules", "remove", "gone"))
	assert.Error(t, runCommand(t, "--config", cfgPath, "rules", "remove", "gone"))
}
